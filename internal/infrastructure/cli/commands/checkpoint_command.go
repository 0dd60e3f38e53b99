package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anyonecancode/acc/internal/app"
	"github.com/anyonecancode/acc/internal/application/checkpoint"
	"github.com/anyonecancode/acc/internal/infrastructure/cli/console"
)

// NewCheckpointCommand creates the checkpoint command with all subcommands
func NewCheckpointCommand(env *Env) *cobra.Command {
	checkpointCmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Snapshot and restore the workspace with git",
	}

	checkpointCmd.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: "Save the working tree as the checkpoint",
			RunE: withRuntime(env, func(cmd *cobra.Command, rt *app.Runtime, _ *console.Surface) error {
				_, err := rt.Session.CreateCheckpoint(cmd.Context())
				return err
			}),
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Discard all changes and restore the checkpoint",
			RunE: withRuntime(env, func(cmd *cobra.Command, rt *app.Runtime, _ *console.Surface) error {
				return rt.Session.ResetCheckpoint(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the checkpoint tag and any unfinished create",
			RunE: withRuntime(env, func(cmd *cobra.Command, rt *app.Runtime, _ *console.Surface) error {
				status, err := rt.Checkpoints.Status(cmd.Context())
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, checkpoint.StatusLine(status, err))
				if err != nil {
					return err
				}
				if status.Exists {
					fmt.Fprintf(out, "Tag: %s -> %s\n", status.Tag, status.Commit)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "recover",
			Short: "Finish or roll back an interrupted checkpoint create",
			RunE: withRuntime(env, func(cmd *cobra.Command, rt *app.Runtime, _ *console.Surface) error {
				status, err := rt.Checkpoints.Status(cmd.Context())
				if err != nil {
					return err
				}
				cp, recovered, err := rt.Checkpoints.Recover(cmd.Context())
				if err != nil {
					return err
				}
				switch {
				case recovered:
					fmt.Fprintf(cmd.OutOrStdout(), "Checkpoint saved: %s\n", cp.Label)
				case status.Pending != nil:
					fmt.Fprintln(cmd.OutOrStdout(), "Interrupted checkpoint discarded.")
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to recover.")
				}
				return nil
			}),
		},
	)

	return checkpointCmd
}

// withRuntime builds a console-bound runtime before running fn.
func withRuntime(env *Env, fn func(*cobra.Command, *app.Runtime, *console.Surface) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		container, err := env.Container(cmd.Context())
		if err != nil {
			return err
		}
		surface := Console(cmd)
		return fn(cmd, container.NewRuntime(surface), surface)
	}
}
