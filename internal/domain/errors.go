package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Precondition and protocol errors.
var (
	ErrNoWorkspaceOpen    = errors.New("please open a workspace first")
	ErrNotAGitRepository  = errors.New("not a git repository")
	ErrNoCheckpointExists = errors.New("no checkpoint found to reset to")
	ErrUserCancelled      = errors.New("reset cancelled by user")
	ErrMissingAPIKey      = errors.New("API key not configured, set it in the config file or environment")
	ErrCheckpointPending  = errors.New("a previous checkpoint did not finish, run `acc checkpoint recover`")
	ErrProposalNotFound   = errors.New("proposal not found")
	ErrProposalResolved   = errors.New("proposal already resolved")
	ErrNoActiveEditor     = errors.New("no active editor found")
	ErrInvalidDecision    = errors.New("unknown approval decision")
)

// SubprocessError is a failed captured command or git invocation.
type SubprocessError struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *SubprocessError) Error() string {
	msg := fmt.Sprintf("command failed: %s", e.Command)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

func (e *SubprocessError) Unwrap() error {
	return e.Err
}

// RemoteAPIError carries the completion backend's message verbatim.
type RemoteAPIError struct {
	Message    string
	StatusCode int
}

func (e *RemoteAPIError) Error() string {
	return e.Message
}

// CheckpointIncompleteError reports a create that stopped after mutating the repository.
// The journal is left in place so the operation can be recovered.
type CheckpointIncompleteError struct {
	Phase      CheckpointPhase
	BaseCommit string
	Commit     string
	Err        error
}

func (e *CheckpointIncompleteError) Error() string {
	return fmt.Sprintf("checkpoint left incomplete after %s (base %s, snapshot %s): %v",
		e.Phase, shortSHA(e.BaseCommit), shortSHA(e.Commit), e.Err)
}

func (e *CheckpointIncompleteError) Unwrap() error {
	return e.Err
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	if sha == "" {
		return "-"
	}
	return sha
}
