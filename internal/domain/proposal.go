package domain

import "time"

// CommandProposal is an assistant-suggested shell command pending user approval.
type CommandProposal struct {
	ID          string    `json:"id"`
	RawText     string    `json:"rawText"`
	Description string    `json:"description"`
	Command     string    `json:"command"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DecisionKind enumerates the user's possible answers to a proposal.
type DecisionKind string

const (
	DecisionApprove DecisionKind = "approve"
	DecisionEdit    DecisionKind = "edit"
	DecisionDeny    DecisionKind = "deny"
)

// ApprovalDecision is the user's answer to a proposal. NewCommand is only meaningful for Edit;
// an empty NewCommand on Edit asks the gate to prompt for the replacement text.
type ApprovalDecision struct {
	Kind       DecisionKind
	NewCommand string
}

// Approve runs the proposed command as-is.
func Approve() ApprovalDecision {
	return ApprovalDecision{Kind: DecisionApprove}
}

// Edit runs newCommand instead of the proposed command.
func Edit(newCommand string) ApprovalDecision {
	return ApprovalDecision{Kind: DecisionEdit, NewCommand: newCommand}
}

// Deny rejects the proposal.
func Deny() ApprovalDecision {
	return ApprovalDecision{Kind: DecisionDeny}
}

// ProposalState tracks a proposal through the approval gate.
type ProposalState string

const (
	ProposalProposed  ProposalState = "proposed"
	ProposalExecuting ProposalState = "executing"
	ProposalResolved  ProposalState = "resolved"
	ProposalDenied    ProposalState = "denied"
	// ProposalAborted is reported for a cancelled edit; the proposal itself stays open.
	ProposalAborted ProposalState = "aborted"
)

// IsTerminal reports whether no further decision can be applied.
func (s ProposalState) IsTerminal() bool {
	return s == ProposalResolved || s == ProposalDenied
}

// ProposalOutcome is what the gate reports after applying a decision.
type ProposalOutcome struct {
	Proposal CommandProposal
	State    ProposalState
	Command  string
	Result   *ExecutionResult
}

// Succeeded reports whether the proposal ran and the adapter reported success.
func (o ProposalOutcome) Succeeded() bool {
	return o.State == ProposalResolved && o.Result != nil && o.Result.Succeeded
}
