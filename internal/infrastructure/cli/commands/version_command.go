package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/anyonecancode/acc/internal/infrastructure/config"
	"github.com/anyonecancode/acc/internal/pkg/filesystem"
	"github.com/anyonecancode/acc/internal/version"
)

// NewVersionCommand prints build metadata and where acc keeps its files.
func NewVersionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show acc version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.Short())
				return nil
			}
			printVersion(cmd.OutOrStdout(), info)
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version")
	return cmd
}

func printVersion(out io.Writer, info version.Info) {
	fmt.Fprintf(out, "acc version %s\n", info.Short())
	if info.BuildDate != "" {
		fmt.Fprintf(out, "  built:  %s\n", info.BuildDate)
	}
	fmt.Fprintf(out, "  go:     %s %s\n", info.GoVersion, info.Platform)
	fmt.Fprintf(out, "  config: %s\n", config.NewFileLoader("").Path())
	fmt.Fprintf(out, "  data:   %s\n", filesystem.AppDir())
}
