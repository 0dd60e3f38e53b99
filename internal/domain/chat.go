package domain

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is one entry of the conversation shown in the UI.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// CompletionRequest is what the completion backend receives for one assistant turn.
type CompletionRequest struct {
	SystemPrompt string
	Context      string
	Messages     []ChatMessage
}

// Conversation messages posted by the gate and the execution adapter.
const (
	MsgCommandCancelled = "Command execution cancelled by user."
	MsgExecutingFormat  = "✅ Executing command: `%s`"
	MsgOutputFormat     = "📋 Command output:\n```\n%s\n```"
	MsgCommandFailed    = "❌ Command failed: %s"
	MsgExecutionFailed  = "❌ Command execution failed: %s"
	MsgChatErrorFormat  = "Error: %s"
)
