package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anyonecancode/acc/internal/domain"
)

// NewClassifyCommand creates the classify command
func NewClassifyCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "classify -- <command>",
		Short: "Show whether a command would run captured or in the terminal",
		Long: "Classification is a prefix match against the allow-list. It only decides where output " +
			"goes; it is not a safety check.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := env.Container(cmd.Context())
			if err != nil {
				return err
			}
			command := strings.Join(args, " ")
			c := container.Classifier.Explain(command)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Class: %s\n", c.Class)
			fmt.Fprintf(out, "Mode: %s\n", domain.ModeFor(c.Class))
			if c.MatchedPrefix != "" {
				fmt.Fprintf(out, "Matched prefix: %q\n", c.MatchedPrefix)
			}
			fmt.Fprintf(out, "Rules: %s\n", container.Classifier.Source())
			return nil
		},
	}
}
