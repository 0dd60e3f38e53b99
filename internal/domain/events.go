package domain

// EventType names a message exchanged with the UI surface.
type EventType string

// Outbound events (host -> UI).
const (
	EventAddMessage   EventType = "addMessage"
	EventShowThinking EventType = "showThinking"
	EventUpdateStatus EventType = "updateStatus"
	EventAutoContinue EventType = "autoContinue"
	EventNotify       EventType = "notify"
	EventRequestInput EventType = "requestInput"
)

// Inbound events (UI -> host).
const (
	EventSendMessage      EventType = "sendMessage"
	EventApproveCommand   EventType = "approveCommand"
	EventEditCommand      EventType = "editCommand"
	EventDenyCommand      EventType = "denyCommand"
	EventCopyCode         EventType = "copyCode"
	EventInsertCode       EventType = "insertCode"
	EventCreateCheckpoint EventType = "createCheckpoint"
	EventResetCheckpoint  EventType = "resetCheckpoint"
	EventInputResponse    EventType = "inputResponse"
)

// NotifyLevel mirrors the editor's information/error notices.
type NotifyLevel string

const (
	NotifyInfo  NotifyLevel = "info"
	NotifyError NotifyLevel = "error"
)

// Event is the JSON envelope exchanged with the UI. Only the fields relevant to Command are set.
type Event struct {
	Command     EventType        `json:"command"`
	Message     *ChatMessage     `json:"message,omitempty"`
	Thinking    *bool            `json:"thinking,omitempty"`
	Status      string           `json:"status,omitempty"`
	Output      string           `json:"output,omitempty"`
	Content     string           `json:"content,omitempty"`
	Code        string           `json:"code,omitempty"`
	CommandText string           `json:"commandText,omitempty"`
	ProposalID  string           `json:"proposalId,omitempty"`
	Proposal    *CommandProposal `json:"proposal,omitempty"`
	RequestID   string           `json:"requestId,omitempty"`
	Prompt      string           `json:"prompt,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
	Value       string           `json:"value,omitempty"`
	Cancelled   bool             `json:"cancelled,omitempty"`
	Level       NotifyLevel      `json:"level,omitempty"`
	Text        string           `json:"text,omitempty"`
}

// InputRequest asks the user for a line of text, like an editor input box.
type InputRequest struct {
	Prompt      string
	Placeholder string
	Value       string
}

// AddMessageEvent wraps a chat message.
func AddMessageEvent(msg ChatMessage) Event {
	return Event{Command: EventAddMessage, Message: &msg}
}

// ThinkingEvent toggles the thinking indicator.
func ThinkingEvent(thinking bool) Event {
	return Event{Command: EventShowThinking, Thinking: &thinking}
}

// StatusEvent updates the checkpoint status line.
func StatusEvent(status string) Event {
	return Event{Command: EventUpdateStatus, Status: status}
}

// AutoContinueEvent hands captured output back to the UI for the next turn.
func AutoContinueEvent(output string) Event {
	return Event{Command: EventAutoContinue, Output: output}
}

// NotifyEvent is a user-facing notice outside the conversation.
func NotifyEvent(level NotifyLevel, text string) Event {
	return Event{Command: EventNotify, Level: level, Text: text}
}
