package domain

import (
	"runtime"
	"time"
)

// DefaultShell is the host shell for goos: cmd on Windows, sh elsewhere.
func DefaultShell(goos string) string {
	if goos == "windows" {
		return "cmd"
	}
	return "sh"
}

// ResolveShell maps an empty or "auto" shell setting to the host default. Captured runs and
// terminals both go through it so they always use the same interpreter.
func ResolveShell(shell string) string {
	if shell == "" || shell == "auto" {
		return DefaultShell(runtime.GOOS)
	}
	return shell
}

// CommandClass is the classifier's routing decision.
type CommandClass string

const (
	// ClassSimple commands run with captured output.
	ClassSimple CommandClass = "simple"
	// ClassComplex commands run in the visible terminal.
	ClassComplex CommandClass = "complex"
)

// Classification explains a routing decision.
type Classification struct {
	Class         CommandClass
	MatchedPrefix string
}

// ExecutionMode records which path ran a command.
type ExecutionMode string

const (
	ModeCaptured    ExecutionMode = "captured"
	ModeInteractive ExecutionMode = "interactive"
)

// ModeFor maps a classifier decision to the execution path it selects.
func ModeFor(class CommandClass) ExecutionMode {
	if class == ClassSimple {
		return ModeCaptured
	}
	return ModeInteractive
}

// ExecutionResult normalizes captured and interactive outcomes.
// Interactive results carry no output and Succeeded only means the text was sent.
type ExecutionResult struct {
	Command    string        `json:"command"`
	Mode       ExecutionMode `json:"mode"`
	Stdout     string        `json:"stdout"`
	Stderr     string        `json:"stderr"`
	Succeeded  bool          `json:"succeeded"`
	ExitCode   int           `json:"exitCode"`
	StartedAt  time.Time     `json:"startedAt"`
	DurationMS int64         `json:"durationMs"`
	Err        error         `json:"-"`
}

// Output returns stdout, or stderr when stdout is empty.
func (r ExecutionResult) Output() string {
	if r.Stdout != "" {
		return r.Stdout
	}
	return r.Stderr
}
