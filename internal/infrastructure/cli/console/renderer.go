// Package console is the terminal UI surface: it renders outbound events with color and reads
// user input from stdin.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/anyonecancode/acc/internal/domain"
)

// Renderer prints UI events to a terminal.
type Renderer struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *Spinner

	assistant *color.Color
	system    *color.Color
	status    *color.Color
	info      *color.Color
	failure   *color.Color
	command   *color.Color
	faint     *color.Color
}

// NewRenderer creates a Renderer. animate enables the thinking spinner.
func NewRenderer(out io.Writer, animate bool) *Renderer {
	r := &Renderer{
		out:       out,
		assistant: color.New(color.FgCyan, color.Bold),
		system:    color.New(color.FgYellow),
		status:    color.New(color.FgGreen),
		info:      color.New(color.FgBlue),
		failure:   color.New(color.FgRed, color.Bold),
		command:   color.New(color.FgMagenta, color.Bold),
		faint:     color.New(color.Faint),
	}
	if animate {
		r.spinner = NewSpinner(out, "thinking...")
	}
	return r
}

// Render prints one event. User messages are not echoed.
func (r *Renderer) Render(ev domain.Event) {
	if ev.Command == domain.EventShowThinking {
		r.thinking(ev.Thinking != nil && *ev.Thinking)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Command {
	case domain.EventAddMessage:
		if ev.Message == nil {
			return
		}
		r.message(*ev.Message)
		if ev.Proposal != nil {
			r.proposal(*ev.Proposal)
		}
	case domain.EventUpdateStatus:
		r.status.Fprintf(r.out, "● %s\n", ev.Status)
	case domain.EventNotify:
		if ev.Level == domain.NotifyError {
			r.failure.Fprintf(r.out, "✗ %s\n", ev.Text)
		} else {
			r.info.Fprintf(r.out, "ℹ %s\n", ev.Text)
		}
	case domain.EventAutoContinue:
		r.faint.Fprintln(r.out, "↻ sending command output back to the assistant")
	}
}

func (r *Renderer) message(msg domain.ChatMessage) {
	switch msg.Role {
	case domain.RoleAssistant:
		r.assistant.Fprint(r.out, "assistant")
		fmt.Fprintf(r.out, "\n%s\n\n", strings.TrimRight(msg.Content, "\n"))
	case domain.RoleSystem:
		r.system.Fprintf(r.out, "%s\n\n", strings.TrimRight(msg.Content, "\n"))
	}
}

func (r *Renderer) proposal(p domain.CommandProposal) {
	fmt.Fprint(r.out, "Proposed command: ")
	r.command.Fprintln(r.out, p.Command)
}

func (r *Renderer) thinking(on bool) {
	if r.spinner == nil {
		return
	}
	if on {
		r.spinner.Start()
	} else {
		r.spinner.Stop()
	}
}

// Health prints a doctor report.
func (r *Renderer) Health(report domain.HealthReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, check := range report.Checks {
		c := r.status
		switch check.Status {
		case domain.HealthWarn:
			c = r.system
		case domain.HealthError:
			c = r.failure
		}
		c.Fprintf(r.out, "[%s]", strings.ToUpper(string(check.Status)))
		fmt.Fprintf(r.out, " %s - %s\n", check.Kind, check.Details)
	}
}
