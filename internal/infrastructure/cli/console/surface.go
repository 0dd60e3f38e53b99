package console

import (
	"context"

	"github.com/anyonecancode/acc/internal/domain"
)

// Surface is the terminal UI: events go to the renderer, input requests to the prompter, and
// autoContinue output is queued for the REPL's next turn.
type Surface struct {
	Renderer *Renderer
	Prompter *Prompter

	continues chan string
}

// NewSurface combines a renderer and a prompter.
func NewSurface(renderer *Renderer, prompter *Prompter) *Surface {
	return &Surface{Renderer: renderer, Prompter: prompter, continues: make(chan string, 1)}
}

// Post implements ports.EventSink.
func (s *Surface) Post(ev domain.Event) {
	if ev.Command == domain.EventAutoContinue {
		select {
		case s.continues <- ev.Output:
		default:
		}
	}
	s.Renderer.Render(ev)
}

// Input implements ports.InputPrompter.
func (s *Surface) Input(ctx context.Context, req domain.InputRequest) (string, bool, error) {
	return s.Prompter.Input(ctx, req)
}

// TakeAutoContinue returns queued command output, if any.
func (s *Surface) TakeAutoContinue() (string, bool) {
	select {
	case out := <-s.continues:
		return out, true
	default:
		return "", false
	}
}
