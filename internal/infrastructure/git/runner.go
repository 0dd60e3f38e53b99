// Package git shells out to the git binary.
package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// Runner executes git subcommands in a working tree.
type Runner struct {
	binary  string
	timeout time.Duration
}

// NewRunner returns a Runner. A zero timeout leaves calls bounded only by the caller's context.
func NewRunner(timeout time.Duration) *Runner {
	return &Runner{binary: "git", timeout: timeout}
}

// Available reports whether the git binary can be found on PATH.
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.binary)
	return err == nil
}

// Run implements ports.GitRunner. Stdout is returned trimmed; on failure stderr is carried in
// a *domain.SubprocessError.
func (r *Runner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return strings.TrimSpace(stdout.String()), &domain.SubprocessError{
			Command:  "git " + strings.Join(args, " "),
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: exitCode,
			Err:      err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}

var _ ports.GitRunner = (*Runner)(nil)
