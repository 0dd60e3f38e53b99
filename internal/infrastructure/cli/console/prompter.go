package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// Prompter implements ports.InputPrompter on stdin/stdout.
type Prompter struct {
	mu          sync.Mutex
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter constructs a prompter; nil arguments mean stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &Prompter{in: bufio.NewReader(in), out: out, interactive: interactive}
}

// Interactive reports whether input comes from a terminal.
func (p *Prompter) Interactive() bool {
	return p.interactive
}

// Out is where prompts are written.
func (p *Prompter) Out() io.Writer {
	return p.out
}

// Input implements ports.InputPrompter. The current value is shown and an empty line keeps it,
// like accepting a prefilled input box. End of input cancels.
func (p *Prompter) Input(ctx context.Context, req domain.InputRequest) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, req.Prompt)
	if req.Value != "" {
		fmt.Fprintf(p.out, "  current: %s (enter keeps it, ctrl-d cancels)\n", req.Value)
	} else if req.Placeholder != "" {
		fmt.Fprintf(p.out, "  %s\n", req.Placeholder)
	}
	fmt.Fprint(p.out, "> ")

	line, ok, err := p.readLine()
	if err != nil || !ok {
		return "", false, err
	}
	if strings.TrimSpace(line) == "" {
		return req.Value, true, nil
	}
	return line, true, nil
}

// Line prints prompt and reads one line. ok is false at end of input.
func (p *Prompter) Line(prompt string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.out, prompt)
	return p.readLine()
}

// Choose asks a single-letter question and returns the lowercased answer.
func (p *Prompter) Choose(question string) (string, error) {
	line, ok, err := p.Line(question)
	if err != nil || !ok {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}

func (p *Prompter) readLine() (string, bool, error) {
	line, err := p.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if line == "" {
			fmt.Fprintln(p.out)
			return "", false, nil
		}
		err = nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

var _ ports.InputPrompter = (*Prompter)(nil)
