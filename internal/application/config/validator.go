package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/anyonecancode/acc/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateCompletion(cfg.Completion); err != nil {
		return err
	}
	if err := validateContext(cfg.Context); err != nil {
		return err
	}
	if err := validateExecution(cfg.Execution); err != nil {
		return err
	}
	if err := validateHistory(cfg.History); err != nil {
		return err
	}
	return cfg.ValidateConsistency()
}

func validateCompletion(c domain.CompletionSettings) error {
	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("completion.endpoint must be an absolute URL, got %q", c.Endpoint)
		}
	}
	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("completion.timeout invalid: %w", err)
		}
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("completion.history_window must be >= 0")
	}
	return nil
}

func validateContext(ctx domain.ContextSettings) error {
	switch strings.ToLower(ctx.IncludeGit) {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("context.include_git must be auto|always|never, got %s", ctx.IncludeGit)
	}
	if ctx.TreeDepth < 0 {
		return fmt.Errorf("context.tree_depth must be >= 0")
	}
	return nil
}

func validateExecution(exec domain.ExecutionSettings) error {
	if exec.AutoContinueDelay != "" {
		d, err := time.ParseDuration(exec.AutoContinueDelay)
		if err != nil {
			return fmt.Errorf("execution.auto_continue_delay invalid: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("execution.auto_continue_delay must be >= 0")
		}
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	switch history.Backend {
	case "", "sqlite", "jsonl":
		return nil
	default:
		return fmt.Errorf("history.backend must be sqlite|jsonl, got %s", history.Backend)
	}
}
