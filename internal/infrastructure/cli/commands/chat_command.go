package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anyonecancode/acc/internal/app"
	"github.com/anyonecancode/acc/internal/application/chat"
	"github.com/anyonecancode/acc/internal/application/checkpoint"
	"github.com/anyonecancode/acc/internal/application/execution"
	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/infrastructure/cli/console"
)

// NewChatCommand creates the interactive chat command
func NewChatCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant and run the commands it proposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := env.Container(cmd.Context())
			if err != nil {
				return err
			}
			surface := Console(cmd)
			rt := container.NewRuntime(surface, syncAutoContinue())
			return runChat(cmd.Context(), rt, surface)
		},
	}
}

// syncAutoContinue delivers autoContinue before Execute returns so the REPL sees it on its
// next turn.
func syncAutoContinue() execution.Option {
	return execution.WithAfterFunc(func(d time.Duration, fn func()) {
		time.Sleep(d)
		fn()
	})
}

func runChat(ctx context.Context, rt *app.Runtime, surface *console.Surface) error {
	if _, _, err := rt.Panels.CreateOrShow(chat.PanelKind); err != nil {
		return err
	}
	fmt.Fprintln(surface.Prompter.Out(), MsgChatHelp)

	for {
		text, ok := surface.TakeAutoContinue()
		if ok {
			text = fmt.Sprintf(autoContinueFormat, text)
		} else {
			line, more, err := surface.Prompter.Line(promptYou)
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "/") {
				if quit := runSlash(ctx, rt, surface, line); quit {
					return nil
				}
				continue
			}
			text = line
		}

		reply, err := rt.Session.SendMessage(ctx, text)
		if err != nil || reply.Proposal == nil {
			continue
		}
		_ = decide(ctx, rt, surface, *reply.Proposal)
	}
}

func runSlash(ctx context.Context, rt *app.Runtime, surface *console.Surface, line string) (quit bool) {
	switch strings.Fields(line)[0] {
	case "/quit", "/exit":
		return true
	case "/checkpoint":
		_, _ = rt.Session.CreateCheckpoint(ctx)
	case "/reset":
		_ = rt.Session.ResetCheckpoint(ctx)
	case "/status":
		_, _, _ = rt.Panels.CreateOrShow(checkpoint.PanelKind)
	default:
		fmt.Fprintln(surface.Prompter.Out(), MsgChatHelp)
	}
	return false
}

// decide asks what to do with a proposal and resolves it. Errors are already shown as notices.
func decide(ctx context.Context, rt *app.Runtime, surface *console.Surface, p domain.CommandProposal) error {
	answer, err := surface.Prompter.Choose(promptDecision)
	if err != nil {
		return err
	}
	decision := domain.Deny()
	switch answer {
	case "y", "yes":
		decision = domain.Approve()
	case "e", "edit":
		decision = domain.Edit("")
	}
	_, err = rt.Session.Resolve(ctx, p.ID, decision)
	return err
}
