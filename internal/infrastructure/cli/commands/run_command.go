package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anyonecancode/acc/internal/domain"
)

// NewRunCommand creates the run command, which executes a command through the approval gate
func NewRunCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "run -- <command>",
		Short: "Run a command the way an approved proposal runs",
		Long: "Simple commands run captured and their output is printed; anything else is sent to " +
			"the workspace terminal session.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.TrimSpace(strings.Join(args, " "))
			if command == "" {
				return errors.New(ErrCommandRequired)
			}
			container, err := env.Container(cmd.Context())
			if err != nil {
				return err
			}
			rt := container.NewRuntime(Console(cmd))

			p, _ := rt.Gate.Adopt(command)
			outcome, err := rt.Session.Resolve(cmd.Context(), p.ID, domain.Approve())
			if err != nil {
				return err
			}
			if outcome.Result != nil && outcome.Result.Mode == domain.ModeCaptured && !outcome.Result.Succeeded {
				return fmt.Errorf("command failed: %s", command)
			}
			return nil
		},
	}
}
