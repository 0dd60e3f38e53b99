package checkpoint

import (
	"context"
	"time"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// PanelKind identifies the checkpoint panel in the panel registry.
const PanelKind = "checkpoint"

// Panel shows the checkpoint status line. Its buttons arrive as createCheckpoint and
// resetCheckpoint events handled by the chat session.
type Panel struct {
	status  func(context.Context) (domain.CheckpointStatus, error)
	sink    ports.EventSink
	timeout time.Duration
}

// NewPanel creates the checkpoint panel for m.
func NewPanel(m *Manager, sink ports.EventSink) *Panel {
	return &Panel{status: m.Status, sink: sink, timeout: 5 * time.Second}
}

func (p *Panel) Kind() string { return PanelKind }
func (p *Panel) Dispose()     {}

// Reveal posts the current status line.
func (p *Panel) Reveal() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	status, err := p.status(ctx)
	p.sink.Post(domain.StatusEvent(StatusLine(status, err)))
}

// StatusLine renders a status for the panel and the CLI.
func StatusLine(status domain.CheckpointStatus, err error) string {
	switch {
	case err != nil:
		return "Checkpoint unavailable: " + err.Error()
	case status.Pending != nil:
		return "Checkpoint incomplete (" + string(status.Pending.Phase) + "), run `acc checkpoint recover`"
	case status.Exists && status.LastLabel != "":
		return "Checkpoint saved: " + status.LastLabel
	case status.Exists:
		return "Checkpoint saved"
	default:
		return "No checkpoint"
	}
}
