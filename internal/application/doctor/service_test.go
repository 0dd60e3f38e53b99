package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/infrastructure/state"
	"github.com/anyonecancode/acc/internal/infrastructure/workspace"
)

type staticConfig struct {
	cfg domain.Config
	err error
}

func (s staticConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

type scriptedGit map[string]string

func (g scriptedGit) Run(_ context.Context, _ string, args ...string) (string, error) {
	out, ok := g[args[0]]
	if !ok {
		return "", errors.New("git: " + args[0] + " failed")
	}
	return out, nil
}

type namedRules string

func (n namedRules) Source() string { return string(n) }

func statusOf(report domain.HealthReport, kind domain.HealthCheckKind) domain.HealthStatus {
	c, _ := report.Check(kind)
	return c.Status
}

func validConfig() domain.Config {
	var cfg domain.Config
	cfg.ConfigFormatVersion = "1"
	cfg.Completion.Endpoint = "https://openrouter.ai/api/v1"
	cfg.Completion.AuthEnvVar = "ACC_TEST_KEY"
	return cfg
}

func TestRunHealthyWorkspace(t *testing.T) {
	t.Setenv("ACC_TEST_KEY", "sk-test")
	ws, err := workspace.Open(t.TempDir())
	require.NoError(t, err)

	s := &Service{
		ConfigProvider: staticConfig{cfg: validConfig()},
		Workspace:      ws,
		Git:            scriptedGit{"--version": "git version 2.45.0", "rev-parse": "true"},
		Classifier:     namedRules("defaults"),
	}
	report, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.HealthOK, statusOf(report, domain.CheckConfig))
	assert.Equal(t, domain.HealthOK, statusOf(report, domain.CheckClassifier))
	assert.Equal(t, domain.HealthOK, statusOf(report, domain.CheckGit))
	assert.Equal(t, domain.HealthOK, statusOf(report, domain.CheckWorkspace))
	assert.Equal(t, domain.HealthOK, statusOf(report, domain.CheckAPIKey))
	assert.Equal(t, domain.HealthOK, statusOf(report, domain.CheckHistory))
	assert.Equal(t, domain.HealthOK, statusOf(report, domain.CheckCheckpoint))
	assert.True(t, report.CanCheckpoint())
}

func TestRunFlagsInterruptedCheckpoint(t *testing.T) {
	t.Setenv("ACC_TEST_KEY", "sk-test")
	dir := t.TempDir()
	ws, err := workspace.Open(dir)
	require.NoError(t, err)
	store := state.NewFileStore(t.TempDir())
	root, _ := ws.Root()
	require.NoError(t, store.Set(root, domain.StateKeyCheckpointJournal, `{"phase":"committed"}`))

	s := &Service{
		ConfigProvider: staticConfig{cfg: validConfig()},
		Workspace:      ws,
		Git:            scriptedGit{"--version": "git version 2.45.0", "rev-parse": "true"},
		Classifier:     namedRules("defaults"),
		State:          store,
	}
	report, err := s.Run(context.Background())
	require.NoError(t, err)

	check, ok := report.Check(domain.CheckCheckpoint)
	require.True(t, ok)
	assert.Equal(t, domain.HealthWarn, check.Status)
	assert.Contains(t, check.Details, "acc checkpoint recover")
	assert.Equal(t, domain.HealthWarn, report.Worst())
}

func TestRunDegraded(t *testing.T) {
	t.Setenv("ACC_TEST_KEY", "")
	s := &Service{
		ConfigProvider: staticConfig{cfg: validConfig()},
		Workspace:      workspace.None(),
		Git:            scriptedGit{},
	}
	report, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.HealthError, statusOf(report, domain.CheckGit))
	assert.Equal(t, domain.HealthWarn, statusOf(report, domain.CheckWorkspace))
	assert.Equal(t, domain.HealthWarn, statusOf(report, domain.CheckAPIKey))
	assert.Equal(t, domain.HealthWarn, statusOf(report, domain.CheckClassifier))
	assert.Equal(t, domain.HealthError, report.Worst())
	assert.False(t, report.CanCheckpoint())
}

func TestRunConfigLoadFailure(t *testing.T) {
	boom := errors.New("bad yaml")
	s := &Service{ConfigProvider: staticConfig{err: boom}}
	report, err := s.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, domain.HealthError, report.Checks[0].Status)
}
