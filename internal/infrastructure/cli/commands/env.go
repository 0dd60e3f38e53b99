package commands

import (
	"context"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/anyonecancode/acc/internal/app"
	"github.com/anyonecancode/acc/internal/infrastructure/cli/console"
)

// Env gives commands the container. It is built on first use so that persistent flags have
// been parsed by then.
type Env struct {
	Options app.Options

	once      sync.Once
	container *app.Container
	err       error
}

// Container builds the container once.
func (e *Env) Container(ctx context.Context) (*app.Container, error) {
	e.once.Do(func() {
		e.container, e.err = app.BuildContainer(ctx, e.Options)
	})
	return e.container, e.err
}

// Close releases the container when it was built.
func (e *Env) Close() error {
	if e.container == nil {
		return nil
	}
	return e.container.Close()
}

// Console builds the terminal surface on the command's stdio.
func Console(cmd *cobra.Command) *console.Surface {
	out := cmd.OutOrStdout()
	animate := false
	if f, ok := out.(interface{ Fd() uintptr }); ok {
		animate = term.IsTerminal(int(f.Fd()))
	}
	return console.NewSurface(console.NewRenderer(out, animate), console.NewPrompter(cmd.InOrStdin(), out))
}
