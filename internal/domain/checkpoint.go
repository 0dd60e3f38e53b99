package domain

import "time"

// RollbackMode is the git reset mode used to step the branch back after tagging.
type RollbackMode string

const (
	// RollbackMixed moves the branch and index back but keeps the working tree.
	RollbackMixed RollbackMode = "mixed"
	// RollbackHard also discards working tree changes (they remain reachable through the tag).
	RollbackHard RollbackMode = "hard"
)

// Checkpoint is a git tag pointing at a snapshot commit that is never left checked out.
type Checkpoint struct {
	Tag        string    `json:"tag"`
	Commit     string    `json:"commit"`
	BaseCommit string    `json:"base_commit"`
	CreatedAt  time.Time `json:"created_at"`
	Label      string    `json:"label"`
}

// CheckpointPhase is the last step a checkpoint create completed.
type CheckpointPhase string

const (
	PhaseCommitting CheckpointPhase = "committing"
	PhaseCommitted  CheckpointPhase = "committed"
	PhaseTagged     CheckpointPhase = "tagged"
)

// CheckpointJournal is persisted while a create is in flight so an interrupted run is detectable.
type CheckpointJournal struct {
	Phase      CheckpointPhase `json:"phase"`
	Tag        string          `json:"tag"`
	BaseCommit string          `json:"base_commit"`
	Commit     string          `json:"commit,omitempty"`
	IndexTree  string          `json:"index_tree,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
}

// CheckpointStatus is what `checkpoint status` and the UI display.
type CheckpointStatus struct {
	Workspace string
	Tag       string
	Commit    string
	Exists    bool
	LastLabel string
	Pending   *CheckpointJournal
}

// CheckpointLabel renders t the way checkpoints are displayed to users.
func CheckpointLabel(t time.Time) string {
	return t.Format(CheckpointLabelFormat)
}
