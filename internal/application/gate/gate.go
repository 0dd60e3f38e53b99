// Package gate holds assistant-proposed commands until the user approves, edits or denies
// them, and hands approved commands to the execution adapter.
package gate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// EditPrompt is shown when the user edits a proposal without supplying the new text.
const EditPrompt = "Edit the command:"

// Gate tracks open proposals. A proposal receives at most one decision that leads to
// execution or denial; a cancelled edit leaves it open.
type Gate struct {
	mu        sync.Mutex
	proposals map[string]*tracked

	workspace    ports.Workspace
	classifier   ports.CommandClassifier
	executor     ports.CommandExecutor
	cache        ports.SessionCache
	conversation ports.Conversation
	prompter     ports.InputPrompter
	metrics      ports.Metrics
	logger       ports.Logger
	now          func() time.Time
}

type tracked struct {
	proposal domain.CommandProposal
	state    domain.ProposalState
}

// Dependencies wires the gate to its collaborators.
type Dependencies struct {
	Workspace    ports.Workspace
	Classifier   ports.CommandClassifier
	Executor     ports.CommandExecutor
	Cache        ports.SessionCache
	Conversation ports.Conversation
	Prompter     ports.InputPrompter
	Metrics      ports.Metrics
	Logger       ports.Logger
}

// New creates a Gate.
func New(deps Dependencies) *Gate {
	return &Gate{
		proposals:    make(map[string]*tracked),
		workspace:    deps.Workspace,
		classifier:   deps.Classifier,
		executor:     deps.Executor,
		cache:        deps.Cache,
		conversation: deps.Conversation,
		prompter:     deps.Prompter,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		now:          time.Now,
	}
}

// Register parses an assistant reply and opens a proposal when it carries one.
func (g *Gate) Register(text string) (domain.CommandProposal, bool) {
	description, command, ok := ParseProposal(text)
	if !ok {
		return domain.CommandProposal{}, false
	}
	return g.open(text, description, command), true
}

// Adopt returns the newest pending proposal for command, or opens one, for clients that send
// the command text instead of a proposal id.
func (g *Gate) Adopt(command string) (domain.CommandProposal, bool) {
	command = strings.TrimSpace(command)
	if command == "" {
		return domain.CommandProposal{}, false
	}

	g.mu.Lock()
	var found *domain.CommandProposal
	for _, t := range g.proposals {
		if t.state != domain.ProposalProposed || t.proposal.Command != command {
			continue
		}
		if found == nil || t.proposal.CreatedAt.After(found.CreatedAt) {
			p := t.proposal
			found = &p
		}
	}
	g.mu.Unlock()
	if found != nil {
		return *found, true
	}
	return g.open(command, "", command), true
}

func (g *Gate) open(raw, description, command string) domain.CommandProposal {
	p := domain.CommandProposal{
		ID:          uuid.NewString(),
		RawText:     raw,
		Description: description,
		Command:     command,
		CreatedAt:   g.now(),
	}
	g.mu.Lock()
	g.proposals[p.ID] = &tracked{proposal: p, state: domain.ProposalProposed}
	g.mu.Unlock()
	g.logger.Debug("proposal registered", map[string]interface{}{"id": p.ID, "command": command})
	return p
}

// Get returns a proposal and its current state.
func (g *Gate) Get(id string) (domain.CommandProposal, domain.ProposalState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.proposals[id]
	if !ok {
		return domain.CommandProposal{}, "", false
	}
	return t.proposal, t.state, true
}

// Resolve applies the user's decision to a proposal.
func (g *Gate) Resolve(ctx context.Context, id string, decision domain.ApprovalDecision) (domain.ProposalOutcome, error) {
	proposal, err := g.pending(id)
	if err != nil {
		return domain.ProposalOutcome{}, err
	}

	switch decision.Kind {
	case domain.DecisionDeny:
		return g.deny(id, proposal)
	case domain.DecisionEdit:
		command := strings.TrimSpace(decision.NewCommand)
		if command == "" {
			value, ok, err := g.prompter.Input(ctx, domain.InputRequest{Prompt: EditPrompt, Value: proposal.Command})
			if err != nil {
				return domain.ProposalOutcome{}, err
			}
			command = strings.TrimSpace(value)
			if !ok || command == "" {
				g.logger.Debug("edit cancelled", map[string]interface{}{"id": id})
				return domain.ProposalOutcome{Proposal: proposal, State: domain.ProposalAborted}, nil
			}
		}
		return g.execute(ctx, id, proposal, command, decision.Kind)
	case domain.DecisionApprove:
		return g.execute(ctx, id, proposal, proposal.Command, domain.DecisionApprove)
	default:
		return domain.ProposalOutcome{}, fmt.Errorf("%w: %q", domain.ErrInvalidDecision, decision.Kind)
	}
}

func (g *Gate) pending(id string) (domain.CommandProposal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.proposals[id]
	if !ok {
		return domain.CommandProposal{}, domain.ErrProposalNotFound
	}
	if t.state != domain.ProposalProposed {
		return domain.CommandProposal{}, domain.ErrProposalResolved
	}
	return t.proposal, nil
}

// claim moves a proposal out of the proposed state, failing if another decision got there first.
func (g *Gate) claim(id string, next domain.ProposalState) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	t := g.proposals[id]
	if t.state != domain.ProposalProposed {
		return domain.ErrProposalResolved
	}
	t.state = next
	return nil
}

func (g *Gate) setState(id string, state domain.ProposalState) {
	g.mu.Lock()
	g.proposals[id].state = state
	g.mu.Unlock()
}

func (g *Gate) deny(id string, proposal domain.CommandProposal) (domain.ProposalOutcome, error) {
	if err := g.claim(id, domain.ProposalDenied); err != nil {
		return domain.ProposalOutcome{}, err
	}
	g.metrics.ObserveDecision(domain.DecisionDeny)
	g.conversation.Append(domain.RoleSystem, domain.MsgCommandCancelled)
	return domain.ProposalOutcome{Proposal: proposal, State: domain.ProposalDenied, Command: proposal.Command}, nil
}

func (g *Gate) execute(ctx context.Context, id string, proposal domain.CommandProposal, command string, kind domain.DecisionKind) (domain.ProposalOutcome, error) {
	root, ok := g.workspace.Root()
	if !ok {
		return domain.ProposalOutcome{}, domain.ErrNoWorkspaceOpen
	}
	if err := g.claim(id, domain.ProposalExecuting); err != nil {
		return domain.ProposalOutcome{}, err
	}
	g.metrics.ObserveDecision(kind)

	mode := domain.ModeFor(g.classifier.Classify(command))
	attempt := g.cache.Begin(command, root, mode)
	g.logger.Info("executing approved command", map[string]interface{}{
		"id":      id,
		"command": command,
		"mode":    string(mode),
	})

	result := g.executor.Execute(ctx, command, root)
	g.cache.Complete(attempt.ID, result)
	g.setState(id, domain.ProposalResolved)

	return domain.ProposalOutcome{
		Proposal: proposal,
		State:    domain.ProposalResolved,
		Command:  command,
		Result:   &result,
	}, nil
}
