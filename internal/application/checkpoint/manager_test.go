package checkpoint

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/infrastructure/git"
	"github.com/anyonecancode/acc/internal/infrastructure/metrics"
	"github.com/anyonecancode/acc/internal/infrastructure/state"
	"github.com/anyonecancode/acc/internal/infrastructure/workspace"
	"github.com/anyonecancode/acc/internal/pkg/logger"
	"github.com/anyonecancode/acc/internal/ports"
)

// recordingGit forwards to real git, remembers every invocation and can fail chosen subcommands.
type recordingGit struct {
	inner ports.GitRunner
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (r *recordingGit) Run(ctx context.Context, dir string, args ...string) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, strings.Join(args, " "))
	failErr := r.fail[args[0]]
	r.mu.Unlock()
	if failErr != nil {
		return "", failErr
	}
	return r.inner.Run(ctx, dir, args...)
}

func (r *recordingGit) ran(prefix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

type answer struct {
	value string
	ok    bool
	asked int
}

func (a *answer) Input(_ context.Context, req domain.InputRequest) (string, bool, error) {
	a.asked++
	return a.value, a.ok, nil
}

type repo struct {
	root     string
	base     string
	git      *recordingGit
	prompter *answer
	store    *state.FileStore
	manager  *Manager
}

func newRepo(t *testing.T, cfg domain.Config) *repo {
	t.Helper()
	runner := git.NewRunner(10 * time.Second)
	if !runner.Available() {
		t.Skip("git not installed")
	}
	root := t.TempDir()
	ctx := context.Background()
	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.email", "dev@example.com"},
		{"config", "user.name", "Dev"},
		{"config", "commit.gpgsign", "false"},
	} {
		_, err := runner.Run(ctx, root, args...)
		require.NoError(t, err)
	}
	writeFile(t, root, "main.go", "package main\n")
	_, err := runner.Run(ctx, root, "add", "-A")
	require.NoError(t, err)
	_, err = runner.Run(ctx, root, "commit", "-q", "-m", "initial")
	require.NoError(t, err)
	base, err := runner.Run(ctx, root, "rev-parse", "HEAD")
	require.NoError(t, err)

	r := &repo{
		root:     root,
		base:     base,
		git:      &recordingGit{inner: runner, fail: map[string]error{}},
		prompter: &answer{},
		store:    state.NewFileStore(t.TempDir()),
	}
	ws, err := workspace.Open(root)
	require.NoError(t, err)
	r.manager = NewManager(cfg, Dependencies{
		Workspace: ws,
		Git:       r.git,
		State:     r.store,
		Prompter:  r.prompter,
		Metrics:   metrics.Nop{},
		Logger:    logger.Discard(),
	})
	return r
}

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
}

func readFile(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, name))
	require.NoError(t, err)
	return string(data)
}

func (r *repo) git1(t *testing.T, args ...string) string {
	t.Helper()
	out, err := r.git.inner.Run(context.Background(), r.root, args...)
	require.NoError(t, err)
	return out
}

func TestCreateOnCleanRepo(t *testing.T) {
	r := newRepo(t, domain.Config{})

	cp, err := r.manager.Create(context.Background())
	require.NoError(t, err)

	assert.Equal(t, r.base, r.git1(t, "rev-parse", "HEAD"), "HEAD must stay at the base commit")
	assert.Equal(t, cp.Commit, r.git1(t, "rev-parse", domain.DefaultCheckpointTag+"^{commit}"))
	assert.NotEqual(t, r.base, cp.Commit)
	assert.Equal(t, r.base, r.git1(t, "rev-parse", domain.DefaultCheckpointTag+"^"), "snapshot parent must be the base")
	assert.Equal(t, domain.DefaultCheckpointMessage, r.git1(t, "log", "-1", "--format=%s", domain.DefaultCheckpointTag))

	label, ok, err := r.store.Get(r.root, domain.StateKeyLastCheckpoint)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, cp.Label, label)

	status, err := r.manager.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Exists)
	assert.Nil(t, status.Pending)
}

func TestCreateKeepsUncommittedWork(t *testing.T) {
	r := newRepo(t, domain.Config{})
	writeFile(t, r.root, "main.go", "package main\n\nfunc main() {}\n")
	writeFile(t, r.root, "notes.txt", "draft\n")

	_, err := r.manager.Create(context.Background())
	require.NoError(t, err)

	assert.Equal(t, r.base, r.git1(t, "rev-parse", "HEAD"))
	assert.Equal(t, "package main\n\nfunc main() {}\n", readFile(t, r.root, "main.go"))
	assert.Equal(t, "draft\n", readFile(t, r.root, "notes.txt"))
	assert.Equal(t, "draft", r.git1(t, "show", domain.DefaultCheckpointTag+":notes.txt"))
	assert.Contains(t, r.git1(t, "status", "--short"), "?? notes.txt", "untracked files stay untracked")
}

func TestCreateHardRollbackDiscardsWork(t *testing.T) {
	r := newRepo(t, domain.Config{Checkpoint: domain.CheckpointSettings{RollbackMode: "hard"}})
	writeFile(t, r.root, "main.go", "package main // edited\n")

	_, err := r.manager.Create(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "package main\n", readFile(t, r.root, "main.go"))
	assert.Equal(t, "package main // edited", r.git1(t, "show", domain.DefaultCheckpointTag+":main.go"))
}

func TestResetWithoutCheckpoint(t *testing.T) {
	r := newRepo(t, domain.Config{})
	writeFile(t, r.root, "main.go", "package main // wip\n")

	err := r.manager.Reset(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoCheckpointExists)
	assert.Zero(t, r.prompter.asked)
	assert.False(t, r.git.ran("reset"))
	assert.Equal(t, "package main // wip\n", readFile(t, r.root, "main.go"))
}

func TestResetRequiresConfirmation(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{name: "wrong token", value: "yes", ok: true},
		{name: "empty", value: "", ok: true},
		{name: "dismissed", value: "YES", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRepo(t, domain.Config{})
			_, err := r.manager.Create(context.Background())
			require.NoError(t, err)
			writeFile(t, r.root, "main.go", "package main // after checkpoint\n")

			r.prompter.value, r.prompter.ok = tt.value, tt.ok
			err = r.manager.Reset(context.Background())
			assert.ErrorIs(t, err, domain.ErrUserCancelled)
			assert.Equal(t, 1, r.prompter.asked)
			assert.False(t, r.git.ran("reset -q --hard"))
			assert.Equal(t, "package main // after checkpoint\n", readFile(t, r.root, "main.go"))
		})
	}
}

func TestResetRestoresSnapshot(t *testing.T) {
	r := newRepo(t, domain.Config{})
	writeFile(t, r.root, "main.go", "package main // snapshot\n")
	_, err := r.manager.Create(context.Background())
	require.NoError(t, err)

	writeFile(t, r.root, "main.go", "package main // broken\n")
	r.prompter.value, r.prompter.ok = "YES", true
	require.NoError(t, r.manager.Reset(context.Background()))

	assert.Equal(t, "package main // snapshot\n", readFile(t, r.root, "main.go"))
}

// heldPrompt blocks until the test supplies an answer.
type heldPrompt struct {
	asked chan struct{}
	reply chan string
}

func (h *heldPrompt) Input(ctx context.Context, _ domain.InputRequest) (string, bool, error) {
	h.asked <- struct{}{}
	select {
	case v := <-h.reply:
		return v, true, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

func TestResetConfirmationDoesNotHoldWorkspace(t *testing.T) {
	r := newRepo(t, domain.Config{})
	writeFile(t, r.root, "main.go", "package main // snapshot\n")
	_, err := r.manager.Create(context.Background())
	require.NoError(t, err)
	writeFile(t, r.root, "main.go", "package main // broken\n")

	held := &heldPrompt{asked: make(chan struct{}, 1), reply: make(chan string)}
	r.manager.prompter = held
	done := make(chan error, 1)
	go func() { done <- r.manager.Reset(context.Background()) }()

	select {
	case <-held.asked:
	case <-time.After(5 * time.Second):
		t.Fatal("reset never asked for confirmation")
	}
	assert.False(t, r.manager.queue.Busy(r.root), "workspace must stay free while the user decides")

	ran := false
	require.NoError(t, r.manager.queue.Do(context.Background(), r.root, func(context.Context) error {
		ran = true
		return nil
	}))
	assert.True(t, ran)

	held.reply <- "YES"
	require.NoError(t, <-done)
	assert.Equal(t, "package main // snapshot\n", readFile(t, r.root, "main.go"))
}

func TestResetChecksTagAgainAfterConfirmation(t *testing.T) {
	r := newRepo(t, domain.Config{})
	_, err := r.manager.Create(context.Background())
	require.NoError(t, err)
	writeFile(t, r.root, "main.go", "package main // keep\n")

	held := &heldPrompt{asked: make(chan struct{}, 1), reply: make(chan string)}
	r.manager.prompter = held
	done := make(chan error, 1)
	go func() { done <- r.manager.Reset(context.Background()) }()

	<-held.asked
	r.git1(t, "tag", "-d", domain.DefaultCheckpointTag)
	held.reply <- "YES"

	assert.ErrorIs(t, <-done, domain.ErrNoCheckpointExists)
	assert.False(t, r.git.ran("reset -q --hard"))
	assert.Equal(t, "package main // keep\n", readFile(t, r.root, "main.go"))
}

func TestCreateKeepsStagedChanges(t *testing.T) {
	r := newRepo(t, domain.Config{})
	writeFile(t, r.root, "main.go", "package main // staged\n")
	r.git1(t, "add", "main.go")
	writeFile(t, r.root, "notes.txt", "draft\n")

	_, err := r.manager.Create(context.Background())
	require.NoError(t, err)

	status := r.git1(t, "status", "--short")
	assert.Contains(t, status, "M  main.go", "staged edits stay staged")
	assert.Contains(t, status, "?? notes.txt")
	assert.Equal(t, r.base, r.git1(t, "rev-parse", "HEAD"))
	assert.Equal(t, "package main // staged", r.git1(t, "show", domain.DefaultCheckpointTag+":main.go"))
}

func TestPreconditions(t *testing.T) {
	gitRunner := git.NewRunner(5 * time.Second)
	if !gitRunner.Available() {
		t.Skip("git not installed")
	}
	rec := &recordingGit{inner: gitRunner}

	noWorkspace := NewManager(domain.Config{}, Dependencies{
		Workspace: workspace.None(),
		Git:       rec,
		State:     state.NewFileStore(t.TempDir()),
		Prompter:  &answer{},
		Metrics:   metrics.Nop{},
		Logger:    logger.Discard(),
	})
	_, err := noWorkspace.Create(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoWorkspaceOpen)
	assert.ErrorIs(t, noWorkspace.Reset(context.Background()), domain.ErrNoWorkspaceOpen)
	assert.Empty(t, rec.calls)

	ws, err := workspace.Open(t.TempDir())
	require.NoError(t, err)
	plainDir := NewManager(domain.Config{}, Dependencies{
		Workspace: ws,
		Git:       rec,
		State:     state.NewFileStore(t.TempDir()),
		Prompter:  &answer{},
		Metrics:   metrics.Nop{},
		Logger:    logger.Discard(),
	})
	_, err = plainDir.Create(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotAGitRepository)
	assert.ErrorIs(t, plainDir.Reset(context.Background()), domain.ErrNotAGitRepository)
}

func TestFailureAfterCommitIsRecoverable(t *testing.T) {
	r := newRepo(t, domain.Config{})
	writeFile(t, r.root, "main.go", "package main // wip\n")
	r.git.fail["tag"] = errors.New("cannot lock ref")

	_, err := r.manager.Create(context.Background())
	var incomplete *domain.CheckpointIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, domain.PhaseCommitted, incomplete.Phase)
	assert.Equal(t, r.base, incomplete.BaseCommit)
	assert.NotEmpty(t, incomplete.Commit)

	_, err = r.manager.Create(context.Background())
	assert.ErrorIs(t, err, domain.ErrCheckpointPending)

	status, err := r.manager.Status(context.Background())
	require.NoError(t, err)
	require.NotNil(t, status.Pending)
	assert.False(t, status.Exists)

	delete(r.git.fail, "tag")
	cp, recovered, err := r.manager.Recover(context.Background())
	require.NoError(t, err)
	assert.True(t, recovered)
	assert.Equal(t, incomplete.Commit, cp.Commit)
	assert.Equal(t, r.base, r.git1(t, "rev-parse", "HEAD"))
	assert.Equal(t, cp.Commit, r.git1(t, "rev-parse", domain.DefaultCheckpointTag+"^{commit}"))
	assert.Equal(t, "package main // wip\n", readFile(t, r.root, "main.go"))

	_, recovered, err = r.manager.Recover(context.Background())
	require.NoError(t, err)
	assert.False(t, recovered)
}

func TestRecoverBeforeCommitOnlyUnstages(t *testing.T) {
	r := newRepo(t, domain.Config{})
	writeFile(t, r.root, "new.txt", "x\n")
	r.git.fail["commit"] = errors.New("killed")

	_, err := r.manager.Create(context.Background())
	require.Error(t, err)
	var incomplete *domain.CheckpointIncompleteError
	assert.False(t, errors.As(err, &incomplete), "nothing was committed")
	assert.Contains(t, r.git1(t, "status", "--short"), "?? new.txt")

	// Simulate a crash that left the journal behind.
	require.NoError(t, r.store.Set(r.root, domain.StateKeyCheckpointJournal,
		`{"phase":"committing","tag":"anyonecancode-checkpoint","base_commit":"`+r.base+`"}`))
	delete(r.git.fail, "commit")
	_, recovered, err := r.manager.Recover(context.Background())
	require.NoError(t, err)
	assert.False(t, recovered)

	_, ok, _ := r.store.Get(r.root, domain.StateKeyCheckpointJournal)
	assert.False(t, ok)
}
