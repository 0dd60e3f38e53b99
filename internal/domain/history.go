package domain

import "time"

// ExecutionAttempt is one entry of the append-only execution log. Success stays nil until the
// attempt completes, and for interactive runs where the exit status is never observed.
type ExecutionAttempt struct {
	ID         string        `json:"id"`
	Command    string        `json:"command"`
	Workspace  string        `json:"workspace"`
	Mode       ExecutionMode `json:"mode"`
	StartedAt  time.Time     `json:"started_at"`
	Completed  bool          `json:"completed"`
	Success    *bool         `json:"success"`
	ExitCode   int           `json:"exit_code"`
	DurationMS int64         `json:"duration_ms"`
}

// SessionCacheEntry is the per-command view of the log, looked up by exact command string.
type SessionCacheEntry struct {
	Executed bool
	Success  *bool
	Attempts int
}
