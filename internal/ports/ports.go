// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core (the command gate,
// execution adapter, checkpoint manager and chat session) and the external adapters that
// talk to git, shells, terminals, the completion API and the UI surface.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., CommandRunner, GitRunner)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/anyonecancode/acc/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.acc/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Workspace exposes the currently open root path. There is zero or one root.
type Workspace interface {
	Root() (string, bool)
}

// CommandClassifier decides whether a command may run with captured output.
// This is a routing heuristic, not a security boundary.
type CommandClassifier interface {
	Classify(command string) domain.CommandClass
}

// CommandRunner runs a command through a captured subprocess in dir.
// A failed command returns a *domain.SubprocessError alongside the partial result.
type CommandRunner interface {
	Run(ctx context.Context, command string, dir string) (domain.ExecutionResult, error)
}

// Terminal is a named, user-visible terminal that owns its own I/O.
type Terminal interface {
	Name() string
	Show()
	SendText(text string) error
}

// TerminalProvider opens a terminal by name or reuses the live one with that name.
type TerminalProvider interface {
	Open(name string, dir string) (Terminal, error)
}

// CommandExecutor is the execution adapter as seen by the command gate.
type CommandExecutor interface {
	Execute(ctx context.Context, command string, root string) domain.ExecutionResult
}

// SessionCache remembers which exact command strings ran during the current session.
type SessionCache interface {
	Begin(command string, workspace string, mode domain.ExecutionMode) domain.ExecutionAttempt
	Complete(id string, result domain.ExecutionResult)
	Lookup(command string) (domain.SessionCacheEntry, bool)
	Attempts() []domain.ExecutionAttempt
}

// HistoryRepository persists completed execution attempts beyond the session.
type HistoryRepository interface {
	Save(domain.ExecutionAttempt) error
	Records(limit int, search string) ([]domain.ExecutionAttempt, error)
	Clear() error
}

// StateStore is a workspace-scoped key-value store.
type StateStore interface {
	Get(workspace string, key string) (string, bool, error)
	Set(workspace string, key string, value string) error
	Delete(workspace string, key string) error
}

// GitRunner runs git in a working tree and returns trimmed stdout.
type GitRunner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// CompletionBackend produces one assistant message per request.
type CompletionBackend interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

// ContextBuilder produces the codebase context blob. It never fails; sections that cannot be
// collected degrade to fixed placeholders.
type ContextBuilder interface {
	Build(ctx context.Context, root string, active *domain.ActiveFile) string
}

// Conversation is the chat history the gate and adapter append to.
type Conversation interface {
	Append(role domain.Role, content string) domain.ChatMessage
	Window(n int) []domain.ChatMessage
}

// EventSink receives outbound UI events.
type EventSink interface {
	Post(domain.Event)
}

// InputPrompter asks the user for a line of text. ok is false when the user cancelled.
type InputPrompter interface {
	Input(ctx context.Context, req domain.InputRequest) (value string, ok bool, err error)
}

// Clipboard provides cross-platform clipboard integration for copying code.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// Editor inserts code into the active file.
type Editor interface {
	Insert(code string) error
}

// Metrics records gate, execution and checkpoint activity.
type Metrics interface {
	ObserveDecision(kind domain.DecisionKind)
	ObserveExecution(mode domain.ExecutionMode, succeeded bool, seconds float64)
	ObserveCheckpoint(op string, err error)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
