// Package checkpoint snapshots the workspace into a tagged commit that is never left checked
// out, and restores the working tree to it on explicit confirmation.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/pkg/workqueue"
	"github.com/anyonecancode/acc/internal/ports"
)

// ResetPrompt is shown before a reset discards uncommitted work.
const ResetPrompt = `This will revert all uncommitted work to the checkpoint. This cannot be undone. Type "YES" to confirm.`

// ErrNoCommits is returned when the repository has no HEAD to snapshot against.
var ErrNoCommits = errors.New("repository has no commits yet")

// Manager implements create, reset, status and recover against the open workspace.
type Manager struct {
	workspace ports.Workspace
	git       ports.GitRunner
	state     ports.StateStore
	prompter  ports.InputPrompter
	queue     *workqueue.Queue
	metrics   ports.Metrics
	logger    ports.Logger

	tag          string
	message      string
	confirmToken string
	rollback     domain.RollbackMode
	now          func() time.Time
}

// Dependencies wires the manager to its collaborators.
type Dependencies struct {
	Workspace ports.Workspace
	Git       ports.GitRunner
	State     ports.StateStore
	Prompter  ports.InputPrompter
	Queue     *workqueue.Queue
	Metrics   ports.Metrics
	Logger    ports.Logger
}

// NewManager creates a Manager configured from the checkpoint section of cfg.
func NewManager(cfg domain.Config, deps Dependencies) *Manager {
	m := &Manager{
		workspace:    deps.Workspace,
		git:          deps.Git,
		state:        deps.State,
		prompter:     deps.Prompter,
		queue:        deps.Queue,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		tag:          cfg.GetCheckpointTag(),
		message:      cfg.GetCheckpointMessage(),
		confirmToken: cfg.GetConfirmToken(),
		rollback:     cfg.GetRollbackMode(),
		now:          time.Now,
	}
	if m.queue == nil {
		m.queue = workqueue.New()
	}
	return m
}

// Create snapshots the working tree into a tagged commit and moves the branch back to where it
// was. With the default mixed rollback the working tree is left exactly as it was found.
func (m *Manager) Create(ctx context.Context) (domain.Checkpoint, error) {
	root, ok := m.workspace.Root()
	if !ok {
		return domain.Checkpoint{}, domain.ErrNoWorkspaceOpen
	}

	var cp domain.Checkpoint
	err := m.queue.Do(ctx, root, func(ctx context.Context) error {
		var err error
		cp, err = m.create(ctx, root)
		return err
	})
	m.metrics.ObserveCheckpoint("create", err)
	if err != nil {
		m.logger.Error("checkpoint create failed", err, map[string]interface{}{"workspace": root})
		return domain.Checkpoint{}, err
	}
	m.logger.Info("checkpoint created", map[string]interface{}{"workspace": root, "commit": cp.Commit, "tag": cp.Tag})
	return cp, nil
}

func (m *Manager) create(ctx context.Context, root string) (domain.Checkpoint, error) {
	if err := m.ensureRepository(ctx, root); err != nil {
		return domain.Checkpoint{}, err
	}
	pending, err := m.loadJournal(root)
	if err != nil {
		return domain.Checkpoint{}, err
	}
	if pending != nil {
		return domain.Checkpoint{}, domain.ErrCheckpointPending
	}

	base, err := m.git.Run(ctx, root, "rev-parse", "--verify", "HEAD")
	if err != nil {
		return domain.Checkpoint{}, fmt.Errorf("checkpoint failed: %w", ErrNoCommits)
	}
	// The staged state is restored after rollback; unmerged indexes cannot be saved.
	index, err := m.git.Run(ctx, root, "write-tree")
	if err != nil {
		m.logger.Warn("index not saved, staging will not be restored", map[string]interface{}{"error": err.Error()})
		index = ""
	}
	if _, err := m.git.Run(ctx, root, "add", "-A"); err != nil {
		return domain.Checkpoint{}, fmt.Errorf("checkpoint failed: %w", err)
	}

	journal := domain.CheckpointJournal{
		Phase:      domain.PhaseCommitting,
		Tag:        m.tag,
		BaseCommit: base,
		IndexTree:  index,
		StartedAt:  m.now(),
	}
	if err := m.saveJournal(root, journal); err != nil {
		m.unstage(ctx, root, index)
		return domain.Checkpoint{}, fmt.Errorf("checkpoint failed: %w", err)
	}

	if _, err := m.git.Run(ctx, root, "commit", "--no-verify", "--allow-empty", "-q", "-m", m.message); err != nil {
		head, headErr := m.git.Run(ctx, root, "rev-parse", "--verify", "HEAD")
		if headErr != nil || head == base {
			m.unstage(ctx, root, index)
			_ = m.clearJournal(root)
			return domain.Checkpoint{}, fmt.Errorf("checkpoint failed: %w", err)
		}
		// The commit landed even though git reported an error.
	}

	commit, err := m.git.Run(ctx, root, "rev-parse", "--verify", "HEAD")
	if err != nil {
		return domain.Checkpoint{}, m.incomplete(journal, err)
	}
	journal.Phase = domain.PhaseCommitted
	journal.Commit = commit
	if err := m.saveJournal(root, journal); err != nil {
		return domain.Checkpoint{}, m.incomplete(journal, err)
	}

	return m.finish(ctx, root, journal)
}

// finish tags the snapshot (if needed), rolls the branch back to the base and clears the journal.
func (m *Manager) finish(ctx context.Context, root string, journal domain.CheckpointJournal) (domain.Checkpoint, error) {
	if journal.Phase == domain.PhaseCommitted {
		if _, err := m.git.Run(ctx, root, "tag", "-f", journal.Tag, journal.Commit); err != nil {
			return domain.Checkpoint{}, m.incomplete(journal, err)
		}
		journal.Phase = domain.PhaseTagged
		if err := m.saveJournal(root, journal); err != nil {
			return domain.Checkpoint{}, m.incomplete(journal, err)
		}
	}

	if _, err := m.git.Run(ctx, root, "reset", "-q", "--"+string(m.rollback), journal.BaseCommit); err != nil {
		return domain.Checkpoint{}, m.incomplete(journal, err)
	}
	head, err := m.git.Run(ctx, root, "rev-parse", "--verify", "HEAD")
	if err != nil {
		return domain.Checkpoint{}, m.incomplete(journal, err)
	}
	if head != journal.BaseCommit {
		return domain.Checkpoint{}, m.incomplete(journal, fmt.Errorf("HEAD is %s after rollback", head))
	}
	if m.rollback == domain.RollbackMixed && journal.IndexTree != "" {
		if _, err := m.git.Run(ctx, root, "read-tree", journal.IndexTree); err != nil {
			m.logger.Warn("failed to restore staged changes", map[string]interface{}{"error": err.Error()})
		}
	}
	if err := m.clearJournal(root); err != nil {
		return domain.Checkpoint{}, m.incomplete(journal, err)
	}

	cp := domain.Checkpoint{
		Tag:        journal.Tag,
		Commit:     journal.Commit,
		BaseCommit: journal.BaseCommit,
		CreatedAt:  journal.StartedAt,
		Label:      domain.CheckpointLabel(journal.StartedAt),
	}
	if err := m.state.Set(root, domain.StateKeyLastCheckpoint, cp.Label); err != nil {
		m.logger.Warn("failed to persist checkpoint label", map[string]interface{}{"error": err.Error()})
	}
	return cp, nil
}

// Recover completes a create that stopped part-way. It reports false when nothing was pending.
func (m *Manager) Recover(ctx context.Context) (domain.Checkpoint, bool, error) {
	root, ok := m.workspace.Root()
	if !ok {
		return domain.Checkpoint{}, false, domain.ErrNoWorkspaceOpen
	}

	var (
		cp        domain.Checkpoint
		recovered bool
	)
	err := m.queue.Do(ctx, root, func(ctx context.Context) error {
		if err := m.ensureRepository(ctx, root); err != nil {
			return err
		}
		journal, err := m.loadJournal(root)
		if err != nil || journal == nil {
			return err
		}
		cp, recovered, err = m.recover(ctx, root, *journal)
		return err
	})
	m.metrics.ObserveCheckpoint("recover", err)
	return cp, recovered, err
}

func (m *Manager) recover(ctx context.Context, root string, journal domain.CheckpointJournal) (domain.Checkpoint, bool, error) {
	m.logger.Info("recovering checkpoint", map[string]interface{}{"phase": string(journal.Phase), "base": journal.BaseCommit})

	if journal.Phase == domain.PhaseCommitting {
		head, err := m.git.Run(ctx, root, "rev-parse", "--verify", "HEAD")
		if err != nil {
			return domain.Checkpoint{}, false, err
		}
		subject, _ := m.git.Run(ctx, root, "log", "-1", "--format=%s")
		if head == journal.BaseCommit || subject != m.message {
			// The snapshot commit never landed; only the staging needs undoing.
			m.unstage(ctx, root, journal.IndexTree)
			return domain.Checkpoint{}, false, m.clearJournal(root)
		}
		journal.Phase = domain.PhaseCommitted
		journal.Commit = head
	}

	cp, err := m.finish(ctx, root, journal)
	if err != nil {
		return domain.Checkpoint{}, false, err
	}
	return cp, true, nil
}

// Reset hard-resets the working tree to the checkpoint after the user types the confirmation
// token. Nothing destructive runs unless the tag exists and the token matches. The prompt is
// answered before the workspace slot is taken, so a slow or abandoned answer never holds up
// other commands.
func (m *Manager) Reset(ctx context.Context) error {
	root, ok := m.workspace.Root()
	if !ok {
		return domain.ErrNoWorkspaceOpen
	}

	err := m.confirmReset(ctx, root)
	if err == nil {
		err = m.queue.Do(ctx, root, func(ctx context.Context) error {
			if _, err := m.resolveTag(ctx, root); err != nil {
				return err
			}
			if _, err := m.git.Run(ctx, root, "reset", "-q", "--hard", m.tag); err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}
			return nil
		})
	}
	m.metrics.ObserveCheckpoint("reset", err)
	if err != nil && !errors.Is(err, domain.ErrUserCancelled) {
		m.logger.Error("checkpoint reset failed", err, map[string]interface{}{"workspace": root})
	}
	return err
}

func (m *Manager) confirmReset(ctx context.Context, root string) error {
	if err := m.ensureRepository(ctx, root); err != nil {
		return err
	}
	if _, err := m.resolveTag(ctx, root); err != nil {
		return err
	}
	value, ok, err := m.prompter.Input(ctx, domain.InputRequest{Prompt: ResetPrompt, Placeholder: m.confirmToken})
	if err != nil {
		return err
	}
	if !ok || value != m.confirmToken {
		return domain.ErrUserCancelled
	}
	return nil
}

// Status reports the checkpoint tag, the last label and any pending journal.
func (m *Manager) Status(ctx context.Context) (domain.CheckpointStatus, error) {
	root, ok := m.workspace.Root()
	if !ok {
		return domain.CheckpointStatus{}, domain.ErrNoWorkspaceOpen
	}
	if err := m.ensureRepository(ctx, root); err != nil {
		return domain.CheckpointStatus{}, err
	}

	status := domain.CheckpointStatus{Workspace: root, Tag: m.tag}
	if commit, err := m.resolveTag(ctx, root); err == nil {
		status.Commit = commit
		status.Exists = true
	}
	label, _, err := m.state.Get(root, domain.StateKeyLastCheckpoint)
	if err != nil {
		return status, err
	}
	status.LastLabel = label
	status.Pending, err = m.loadJournal(root)
	return status, err
}

func (m *Manager) ensureRepository(ctx context.Context, root string) error {
	out, err := m.git.Run(ctx, root, "rev-parse", "--is-inside-work-tree")
	if err != nil || out != "true" {
		return domain.ErrNotAGitRepository
	}
	return nil
}

func (m *Manager) resolveTag(ctx context.Context, root string) (string, error) {
	commit, err := m.git.Run(ctx, root, "rev-parse", "--verify", "--quiet", m.tag+"^{commit}")
	if err != nil || commit == "" {
		return "", domain.ErrNoCheckpointExists
	}
	return commit, nil
}

// unstage puts the index back to the saved tree, or to HEAD when none was saved.
func (m *Manager) unstage(ctx context.Context, root string, index string) {
	args := []string{"reset", "-q"}
	if index != "" {
		args = []string{"read-tree", index}
	}
	if _, err := m.git.Run(ctx, root, args...); err != nil {
		m.logger.Warn("failed to unstage after aborted checkpoint", map[string]interface{}{"error": err.Error()})
	}
}

func (m *Manager) incomplete(journal domain.CheckpointJournal, err error) error {
	return &domain.CheckpointIncompleteError{
		Phase:      journal.Phase,
		BaseCommit: journal.BaseCommit,
		Commit:     journal.Commit,
		Err:        err,
	}
}

func (m *Manager) loadJournal(root string) (*domain.CheckpointJournal, error) {
	raw, ok, err := m.state.Get(root, domain.StateKeyCheckpointJournal)
	if err != nil || !ok {
		return nil, err
	}
	var journal domain.CheckpointJournal
	if err := json.Unmarshal([]byte(raw), &journal); err != nil {
		return nil, fmt.Errorf("decode checkpoint journal: %w", err)
	}
	return &journal, nil
}

func (m *Manager) saveJournal(root string, journal domain.CheckpointJournal) error {
	raw, err := json.Marshal(journal)
	if err != nil {
		return err
	}
	return m.state.Set(root, domain.StateKeyCheckpointJournal, string(raw))
}

func (m *Manager) clearJournal(root string) error {
	return m.state.Delete(root, domain.StateKeyCheckpointJournal)
}
