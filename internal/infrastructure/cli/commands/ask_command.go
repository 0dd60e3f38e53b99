package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anyonecancode/acc/internal/domain"
)

// NewAskCommand creates the one-shot ask command
func NewAskCommand(env *Env) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the assistant a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := env.Container(cmd.Context())
			if err != nil {
				return err
			}
			surface := Console(cmd)
			rt := container.NewRuntime(surface)

			reply, err := rt.Session.SendMessage(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if reply.Proposal == nil {
				return nil
			}
			switch {
			case assumeYes:
				_, err = rt.Session.Resolve(cmd.Context(), reply.Proposal.ID, domain.Approve())
				return err
			case surface.Prompter.Interactive():
				return decide(cmd.Context(), rt, surface, *reply.Proposal)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "Run it with: acc run -- %s\n", reply.Proposal.Command)
				return nil
			}
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Run the proposed command without asking")
	return cmd
}
