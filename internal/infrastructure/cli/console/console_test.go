package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/anyonecancode/acc/internal/domain"
)

func TestPrompterInput(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		value  string
		want   string
		wantOK bool
	}{
		{name: "replacement", input: "npm ci\n", value: "npm install", want: "npm ci", wantOK: true},
		{name: "enter keeps current", input: "\n", value: "npm install", want: "npm install", wantOK: true},
		{name: "no trailing newline", input: "ls", value: "", want: "ls", wantOK: true},
		{name: "end of input cancels", input: "", value: "npm install", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)
			got, ok, err := p.Input(context.Background(), domain.InputRequest{Prompt: "Edit the command:", Value: tt.value})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("Input = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
			if !strings.Contains(out.String(), "Edit the command:") {
				t.Fatalf("prompt not shown: %q", out.String())
			}
		})
	}
}

func TestPrompterNotInteractiveForReaders(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})
	if p.Interactive() {
		t.Fatal("a strings.Reader is not a terminal")
	}
}

func TestPrompterCancelledContext(t *testing.T) {
	p := NewPrompter(strings.NewReader("YES\n"), &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok, err := p.Input(ctx, domain.InputRequest{Prompt: "Type YES"}); err == nil || ok {
		t.Fatalf("expected context error, got ok=%v err=%v", ok, err)
	}
}

func TestRendererEvents(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	r := NewRenderer(&out, false)

	r.Render(domain.AddMessageEvent(domain.ChatMessage{Role: domain.RoleUser, Content: "hidden"}))
	r.Render(domain.AddMessageEvent(domain.ChatMessage{Role: domain.RoleAssistant, Content: "hello"}))
	r.Render(domain.StatusEvent("Checkpoint saved: now"))
	r.Render(domain.NotifyEvent(domain.NotifyError, "Please open a workspace first!"))
	r.Render(domain.ThinkingEvent(true))

	got := out.String()
	for _, want := range []string{"assistant\nhello", "● Checkpoint saved: now", "✗ Please open a workspace first!"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "hidden") {
		t.Errorf("user messages must not be echoed: %q", got)
	}
}

func TestSurfaceQueuesAutoContinue(t *testing.T) {
	color.NoColor = true
	s := NewSurface(NewRenderer(&bytes.Buffer{}, false), NewPrompter(strings.NewReader(""), &bytes.Buffer{}))
	if _, ok := s.TakeAutoContinue(); ok {
		t.Fatal("nothing queued yet")
	}
	s.Post(domain.AutoContinueEvent("hello\n"))
	out, ok := s.TakeAutoContinue()
	if !ok || out != "hello\n" {
		t.Fatalf("TakeAutoContinue = (%q, %v)", out, ok)
	}
}

func TestSpinnerRestarts(t *testing.T) {
	var out bytes.Buffer
	s := NewSpinner(&out, "thinking")
	s.Start()
	s.Start()
	s.Stop()
	if s.Running() {
		t.Fatal("spinner still running after Stop")
	}
	s.Start()
	s.Stop()
	s.Stop()
	if !strings.Contains(out.String(), "thinking") {
		t.Fatalf("spinner never drew: %q", out.String())
	}
}
