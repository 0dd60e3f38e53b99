package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Completion defaults
const (
	DefaultCompletionEndpoint = "https://openrouter.ai/api/v1"
	DefaultCompletionModel    = "openai/gpt-3.5-turbo"
	DefaultAuthEnvVar         = "OPENROUTER_API_KEY"
	DefaultMaxTokens          = 2000
	// DefaultHistoryWindow is the number of recent chat messages sent with each request
	DefaultHistoryWindow     = 10
	DefaultCompletionTimeout = 120 * time.Second
	DefaultReferer           = "https://github.com/Maqsood32595/AnyOneCanCode"
	DefaultTitle             = "AnyoneCanCode"
)

// Context defaults
const (
	DefaultTreeDepth = 2
	// DefaultGitTimeout bounds each git call made while building context
	DefaultGitTimeout = 5 * time.Second
)

// DefaultContextExtensions lists the source files shown in the workspace tree.
var DefaultContextExtensions = []string{".ts", ".js", ".py", ".java", ".c", ".cpp", ".html", ".css", ".json", ".xml", ".go"}

// Execution defaults
const (
	DefaultTerminalName      = "AnyoneCanCode Terminal"
	DefaultAutoContinueDelay = time.Second
)

// Checkpoint defaults
const (
	DefaultCheckpointTag     = "anyonecancode-checkpoint"
	DefaultCheckpointMessage = "anyonecancode-temp-checkpoint"
	DefaultConfirmToken      = "YES"
)

// Workspace state keys
const (
	StateKeyLastCheckpoint    = "lastCheckpoint"
	StateKeyCheckpointJournal = "checkpointJournal"
)

// Server defaults
const (
	DefaultServerAddr = "127.0.0.1:7331"
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// MaxConversationMessages bounds the in-memory transcript
	MaxConversationMessages = 200
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
	// CheckpointLabelFormat renders checkpoint times for display, e.g. "Sun, Oct 18, 2026, 02:17 PM"
	CheckpointLabelFormat = "Mon, Jan 2, 2006, 03:04 PM"
)
