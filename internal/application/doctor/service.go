package doctor

import (
	"context"
	"fmt"
	"os"

	appconfig "github.com/anyonecancode/acc/internal/application/config"
	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// RulesSource reports where the classifier allow-list was loaded from.
type RulesSource interface {
	Source() string
}

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Workspace      ports.Workspace
	Git            ports.GitRunner
	Classifier     RulesSource
	History        ports.HistoryRepository
	State          ports.StateStore
}

// Run executes checks and returns a report. Only a config that cannot be loaded is an error;
// every other problem is reported as a check.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail(domain.CheckConfig, fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail(domain.CheckConfig, err.Error()))
	} else {
		checks = append(checks, ok(domain.CheckConfig, fmt.Sprintf("loaded %s", cfg.ConfigFormatVersion)))
	}

	if s.Classifier != nil {
		checks = append(checks, ok(domain.CheckClassifier, "rules from "+s.Classifier.Source()))
	} else {
		checks = append(checks, warn(domain.CheckClassifier, "classifier not initialized"))
	}

	checks = append(checks, s.gitChecks(ctx, cfg)...)
	checks = append(checks, apiCheck(cfg.GetAuthEnvVar()))
	checks = append(checks, s.historyCheck(cfg))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) gitChecks(ctx context.Context, cfg domain.Config) []domain.HealthCheck {
	version, err := s.Git.Run(ctx, "", "--version")
	if err != nil {
		return []domain.HealthCheck{
			fail(domain.CheckGit, err.Error()),
			warn(domain.CheckWorkspace, "checkpoints need git"),
		}
	}
	checks := []domain.HealthCheck{ok(domain.CheckGit, version)}

	root, open := s.Workspace.Root()
	switch {
	case !open:
		checks = append(checks, warn(domain.CheckWorkspace, "no workspace open"))
	case !s.insideRepository(ctx, root):
		checks = append(checks, warn(domain.CheckWorkspace, root+" is not a git repository, checkpoints unavailable"))
	default:
		checks = append(checks, ok(domain.CheckWorkspace, root), s.checkpointCheck(ctx, cfg, root))
	}
	return checks
}

// checkpointCheck flags an interrupted create before the user runs into ErrCheckpointPending.
func (s *Service) checkpointCheck(ctx context.Context, cfg domain.Config, root string) domain.HealthCheck {
	if s.State != nil {
		_, pending, err := s.State.Get(root, domain.StateKeyCheckpointJournal)
		if err != nil {
			return fail(domain.CheckCheckpoint, err.Error())
		}
		if pending {
			return warn(domain.CheckCheckpoint, "interrupted checkpoint, run `acc checkpoint recover`")
		}
	}
	tag := cfg.GetCheckpointTag()
	if _, err := s.Git.Run(ctx, root, "rev-parse", "--verify", "--quiet", tag+"^{commit}"); err != nil {
		return ok(domain.CheckCheckpoint, "no checkpoint yet")
	}
	return ok(domain.CheckCheckpoint, "tag "+tag)
}

func (s *Service) insideRepository(ctx context.Context, root string) bool {
	out, err := s.Git.Run(ctx, root, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

func (s *Service) historyCheck(cfg domain.Config) domain.HealthCheck {
	if !cfg.IsHistoryEnabled() {
		return ok(domain.CheckHistory, "disabled")
	}
	if s.History == nil {
		return warn(domain.CheckHistory, "repository not initialized")
	}
	records, err := s.History.Records(0, "")
	if err != nil {
		return fail(domain.CheckHistory, err.Error())
	}
	return ok(domain.CheckHistory, fmt.Sprintf("%d recorded executions", len(records)))
}

func apiCheck(envVar string) domain.HealthCheck {
	if os.Getenv(envVar) == "" {
		return warn(domain.CheckAPIKey, envVar+" missing")
	}
	return ok(domain.CheckAPIKey, envVar+" set")
}

func ok(kind domain.HealthCheckKind, details string) domain.HealthCheck {
	return domain.HealthCheck{Kind: kind, Status: domain.HealthOK, Details: details}
}

func warn(kind domain.HealthCheckKind, details string) domain.HealthCheck {
	return domain.HealthCheck{Kind: kind, Status: domain.HealthWarn, Details: details}
}

func fail(kind domain.HealthCheckKind, details string) domain.HealthCheck {
	return domain.HealthCheck{Kind: kind, Status: domain.HealthError, Details: details}
}
