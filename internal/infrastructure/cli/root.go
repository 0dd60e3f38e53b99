package cli

import (
	"github.com/spf13/cobra"

	"github.com/anyonecancode/acc/internal/app"
	"github.com/anyonecancode/acc/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. The returned close func releases the container
// once the command has run.
func NewRootCmd(opts Options) (*cobra.Command, func() error) {
	env := &commands.Env{Options: app.Options{Verbose: opts.Verbose}}
	var verbose bool

	root := &cobra.Command{
		Use:   "acc",
		Short: "acc - AnyoneCanCode assistant",
		Long: "acc relays your questions and workspace context to a chat-completion API, runs the " +
			"commands it proposes once you approve them, and snapshots the workspace with git checkpoints.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env.Options.Verbose = env.Options.Verbose || verbose
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&env.Options.Workspace, "workspace", "w", "", "Workspace root (default: current directory)")
	flags.BoolVar(&env.Options.NoWorkspace, "no-workspace", false, "Run without an open workspace")
	flags.StringVarP(&env.Options.ActiveFile, "file", "f", "", "Active file used for context and code insertion")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		commands.NewChatCommand(env),
		commands.NewAskCommand(env),
		commands.NewRunCommand(env),
		commands.NewClassifyCommand(env),
		commands.NewCheckpointCommand(env),
		commands.NewHistoryCommand(env),
		commands.NewServeCommand(env),
		commands.NewDoctorCommand(env),
		commands.NewConfigCommand(env),
		commands.NewVersionCommand(),
	)
	return root, env.Close
}
