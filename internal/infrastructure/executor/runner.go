// Package executor runs captured commands through the host shell.
package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// ShellRunner runs commands on the host shell with stdout and stderr captured.
type ShellRunner struct {
	shell string
}

// NewShellRunner builds a runner; an empty shell picks sh, or cmd on Windows.
func NewShellRunner(shell string) *ShellRunner {
	return &ShellRunner{shell: domain.ResolveShell(shell)}
}

// Shell returns the interpreter used for every command.
func (r *ShellRunner) Shell() string {
	return r.shell
}

// Run implements ports.CommandRunner.
func (r *ShellRunner) Run(ctx context.Context, command string, dir string) (domain.ExecutionResult, error) {
	c := exec.CommandContext(ctx, r.shell, shellFlag(r.shell), command)
	c.Dir = dir
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()

	result := domain.ExecutionResult{
		Command:    command,
		Mode:       domain.ModeCaptured,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		Succeeded:  err == nil,
		StartedAt:  start,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err == nil {
		return result, nil
	}

	result.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}
	subErr := &domain.SubprocessError{
		Command:  command,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
		ExitCode: result.ExitCode,
		Err:      err,
	}
	result.Err = subErr
	return result, subErr
}

func shellFlag(shell string) string {
	switch shell {
	case "cmd", "cmd.exe":
		return "/C"
	case "powershell", "powershell.exe", "pwsh":
		return "-Command"
	default:
		return "-c"
	}
}

var _ ports.CommandRunner = (*ShellRunner)(nil)
