package chat

import (
	"sync"
	"time"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// Conversation is the bounded in-memory transcript. Every appended message is also posted to
// the UI as an addMessage event.
type Conversation struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
	limit    int
	sink     ports.EventSink
	now      func() time.Time
}

// NewConversation creates an empty transcript that keeps at most limit messages.
func NewConversation(sink ports.EventSink, limit int) *Conversation {
	if limit <= 0 {
		limit = domain.MaxConversationMessages
	}
	return &Conversation{sink: sink, limit: limit, now: time.Now}
}

// Append implements ports.Conversation.
func (c *Conversation) Append(role domain.Role, content string) domain.ChatMessage {
	return c.append(role, content, nil)
}

// AppendProposal appends an assistant reply and attaches the proposal it carries to the event.
func (c *Conversation) AppendProposal(content string, proposal domain.CommandProposal) domain.ChatMessage {
	return c.append(domain.RoleAssistant, content, &proposal)
}

func (c *Conversation) append(role domain.Role, content string, proposal *domain.CommandProposal) domain.ChatMessage {
	msg := domain.ChatMessage{Role: role, Content: content, Timestamp: c.now()}

	c.mu.Lock()
	c.messages = append(c.messages, msg)
	if over := len(c.messages) - c.limit; over > 0 {
		c.messages = append([]domain.ChatMessage(nil), c.messages[over:]...)
	}
	c.mu.Unlock()

	ev := domain.AddMessageEvent(msg)
	if proposal != nil {
		ev.Proposal = proposal
		ev.ProposalID = proposal.ID
	}
	c.sink.Post(ev)
	return msg
}

// Window implements ports.Conversation and returns a copy of the last n messages.
func (c *Conversation) Window(n int) []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := 0
	if n > 0 && len(c.messages) > n {
		start = len(c.messages) - n
	}
	return append([]domain.ChatMessage(nil), c.messages[start:]...)
}

// Len returns the number of retained messages.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

var _ ports.Conversation = (*Conversation)(nil)
