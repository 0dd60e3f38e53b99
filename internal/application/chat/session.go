// Package chat drives one assistant conversation: it relays user messages to the completion
// backend, registers proposed commands with the gate and dispatches UI events.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anyonecancode/acc/internal/application/gate"
	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// PanelKind identifies the chat panel in the panel registry.
const PanelKind = "chat"

// Checkpoints is the part of the checkpoint manager the session drives.
type Checkpoints interface {
	Create(ctx context.Context) (domain.Checkpoint, error)
	Reset(ctx context.Context) error
}

// Editor is the active file: insertion target and context source.
type Editor interface {
	ports.Editor
	Active() *domain.ActiveFile
}

// Session is the chat panel's controller.
type Session struct {
	conversation *Conversation
	gate         *gate.Gate
	backend      ports.CompletionBackend
	contextBlob  ports.ContextBuilder
	workspace    ports.Workspace
	checkpoints  Checkpoints
	clipboard    ports.Clipboard
	editor       Editor
	sink         ports.EventSink
	logger       ports.Logger
	window       int
}

// Dependencies wires the session to its collaborators.
type Dependencies struct {
	Conversation *Conversation
	Gate         *gate.Gate
	Backend      ports.CompletionBackend
	Context      ports.ContextBuilder
	Workspace    ports.Workspace
	Checkpoints  Checkpoints
	Clipboard    ports.Clipboard
	Editor       Editor
	Sink         ports.EventSink
	Logger       ports.Logger
}

// NewSession creates a Session; the history window comes from the completion settings.
func NewSession(cfg domain.Config, deps Dependencies) *Session {
	return &Session{
		conversation: deps.Conversation,
		gate:         deps.Gate,
		backend:      deps.Backend,
		contextBlob:  deps.Context,
		workspace:    deps.Workspace,
		checkpoints:  deps.Checkpoints,
		clipboard:    deps.Clipboard,
		editor:       deps.Editor,
		sink:         deps.Sink,
		logger:       deps.Logger,
		window:       cfg.GetHistoryWindow(),
	}
}

// Kind implements panel.Panel.
func (s *Session) Kind() string {
	return PanelKind
}

// Reveal implements panel.Panel by replaying the retained transcript to the UI.
func (s *Session) Reveal() {
	for _, msg := range s.conversation.Window(0) {
		s.sink.Post(domain.AddMessageEvent(msg))
	}
}

// Dispose implements panel.Panel.
func (s *Session) Dispose() {}

// Conversation exposes the transcript.
func (s *Session) Conversation() *Conversation {
	return s.conversation
}

// Reply is the result of one assistant turn.
type Reply struct {
	Message  domain.ChatMessage
	Proposal *domain.CommandProposal
}

// SendMessage appends the user's message, asks the backend for a reply and registers any
// proposed command. Backend failures are shown in the conversation as "Error: <msg>" and
// also returned.
func (s *Session) SendMessage(ctx context.Context, text string) (Reply, error) {
	s.conversation.Append(domain.RoleUser, text)
	s.sink.Post(domain.ThinkingEvent(true))
	defer s.sink.Post(domain.ThinkingEvent(false))

	root, _ := s.workspace.Root()
	var active *domain.ActiveFile
	if s.editor != nil {
		active = s.editor.Active()
	}
	req := domain.CompletionRequest{
		Context:  s.contextBlob.Build(ctx, root, active),
		Messages: s.conversation.Window(s.window),
	}

	content, err := s.backend.Complete(ctx, req)
	if err != nil {
		s.logger.Warn("completion failed", map[string]interface{}{"error": err.Error()})
		msg := s.conversation.Append(domain.RoleAssistant, fmt.Sprintf(domain.MsgChatErrorFormat, err.Error()))
		return Reply{Message: msg}, err
	}

	if proposal, ok := s.gate.Register(content); ok {
		msg := s.conversation.AppendProposal(content, proposal)
		return Reply{Message: msg, Proposal: &proposal}, nil
	}
	return Reply{Message: s.conversation.Append(domain.RoleAssistant, content)}, nil
}

// Resolve applies a decision to a proposal and reports precondition failures as notices.
func (s *Session) Resolve(ctx context.Context, id string, decision domain.ApprovalDecision) (domain.ProposalOutcome, error) {
	outcome, err := s.gate.Resolve(ctx, id, decision)
	if err != nil {
		s.notifyError(err)
	}
	return outcome, err
}

// CreateCheckpoint snapshots the workspace and updates the status line.
func (s *Session) CreateCheckpoint(ctx context.Context) (domain.Checkpoint, error) {
	cp, err := s.checkpoints.Create(ctx)
	if err != nil {
		s.notifyError(err)
		return cp, err
	}
	s.sink.Post(domain.StatusEvent("Checkpoint saved: " + cp.Label))
	s.sink.Post(domain.NotifyEvent(domain.NotifyInfo, "Checkpoint created: "+cp.Label))
	return cp, nil
}

// ResetCheckpoint restores the checkpoint after the user confirms.
func (s *Session) ResetCheckpoint(ctx context.Context) error {
	err := s.checkpoints.Reset(ctx)
	switch {
	case errors.Is(err, domain.ErrUserCancelled):
		s.sink.Post(domain.NotifyEvent(domain.NotifyInfo, "Reset cancelled by user"))
	case err != nil:
		s.notifyError(err)
	default:
		s.sink.Post(domain.StatusEvent("Reset to checkpoint"))
		s.sink.Post(domain.NotifyEvent(domain.NotifyInfo, "Workspace reset to checkpoint"))
	}
	return err
}

// HandleEvent dispatches one inbound UI event.
func (s *Session) HandleEvent(ctx context.Context, ev domain.Event) error {
	switch ev.Command {
	case domain.EventSendMessage:
		text := strings.TrimSpace(ev.Content)
		if text == "" {
			return nil
		}
		_, err := s.SendMessage(ctx, text)
		return err
	case domain.EventApproveCommand:
		return s.decide(ctx, ev, domain.Approve())
	case domain.EventEditCommand:
		return s.decide(ctx, ev, domain.Edit(ev.Value))
	case domain.EventDenyCommand:
		return s.decide(ctx, ev, domain.Deny())
	case domain.EventCopyCode:
		return s.copyCode(ev.Code)
	case domain.EventInsertCode:
		return s.insertCode(ev.Code)
	case domain.EventCreateCheckpoint:
		_, err := s.CreateCheckpoint(ctx)
		return err
	case domain.EventResetCheckpoint:
		return s.ResetCheckpoint(ctx)
	default:
		s.logger.Debug("ignoring event", map[string]interface{}{"command": string(ev.Command)})
		return nil
	}
}

// decide resolves by proposal id, or adopts the command text for clients that only send that.
func (s *Session) decide(ctx context.Context, ev domain.Event, decision domain.ApprovalDecision) error {
	id := ev.ProposalID
	if id == "" {
		p, ok := s.gate.Adopt(ev.CommandText)
		if !ok {
			return domain.ErrProposalNotFound
		}
		id = p.ID
	}
	_, err := s.Resolve(ctx, id, decision)
	return err
}

func (s *Session) copyCode(code string) error {
	if err := s.clipboard.Copy(code); err != nil {
		s.notifyError(err)
		return err
	}
	s.sink.Post(domain.NotifyEvent(domain.NotifyInfo, "Code copied to clipboard!"))
	return nil
}

func (s *Session) insertCode(code string) error {
	if s.editor == nil {
		s.notifyError(domain.ErrNoActiveEditor)
		return domain.ErrNoActiveEditor
	}
	if err := s.editor.Insert(code); err != nil {
		s.notifyError(err)
		return err
	}
	s.sink.Post(domain.NotifyEvent(domain.NotifyInfo, "Code inserted successfully!"))
	return nil
}

func (s *Session) notifyError(err error) {
	s.sink.Post(domain.NotifyEvent(domain.NotifyError, UserMessage(err)))
}

// UserMessage renders an error the way notices show it.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoWorkspaceOpen):
		return "Please open a workspace first!"
	case errors.Is(err, domain.ErrNoActiveEditor):
		return "No active editor found!"
	case errors.Is(err, domain.ErrNoCheckpointExists):
		return "No checkpoint found to reset to"
	default:
		return err.Error()
	}
}
