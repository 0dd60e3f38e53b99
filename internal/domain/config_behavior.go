package domain

import (
	"fmt"
	"strings"
	"time"
)

// Rich domain model: defaults and derived values live next to the config struct.

// GetCompletionEndpoint returns the OpenAI-compatible base URL.
func (c *Config) GetCompletionEndpoint() string {
	if c.Completion.Endpoint == "" {
		return DefaultCompletionEndpoint
	}
	return c.Completion.Endpoint
}

// GetModel returns the completion model identifier.
func (c *Config) GetModel() string {
	if c.Completion.Model == "" {
		return DefaultCompletionModel
	}
	return c.Completion.Model
}

// GetAuthEnvVar returns the environment variable holding the API key.
func (c *Config) GetAuthEnvVar() string {
	if c.Completion.AuthEnvVar == "" {
		return DefaultAuthEnvVar
	}
	return c.Completion.AuthEnvVar
}

// GetMaxTokens returns the completion token limit.
func (c *Config) GetMaxTokens() int {
	if c.Completion.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return c.Completion.MaxTokens
}

// GetHistoryWindow returns how many recent chat messages are sent with each request.
func (c *Config) GetHistoryWindow() int {
	if c.Completion.HistoryWindow <= 0 {
		return DefaultHistoryWindow
	}
	return c.Completion.HistoryWindow
}

// GetCompletionTimeout parses completion.timeout, falling back to the default on error.
func (c *Config) GetCompletionTimeout() time.Duration {
	if c.Completion.Timeout == "" {
		return DefaultCompletionTimeout
	}
	d, err := time.ParseDuration(c.Completion.Timeout)
	if err != nil || d <= 0 {
		return DefaultCompletionTimeout
	}
	return d
}

// GetTreeDepth returns the maximum directory depth for the workspace tree.
func (c *Config) GetTreeDepth() int {
	if c.Context.TreeDepth <= 0 {
		return DefaultTreeDepth
	}
	return c.Context.TreeDepth
}

// IsGitContextEnabled checks if git context collection is enabled.
func (c *Config) IsGitContextEnabled() bool {
	switch strings.ToLower(c.Context.IncludeGit) {
	case "never":
		return false
	default:
		return true
	}
}

// GetContextExtensions returns the file extensions listed in the workspace tree.
func (c *Config) GetContextExtensions() []string {
	if len(c.Context.Extensions) == 0 {
		return append([]string(nil), DefaultContextExtensions...)
	}
	return c.Context.Extensions
}

// GetExecutionShell returns the shell used for captured execution and terminals.
func (c *Config) GetExecutionShell() string {
	return ResolveShell(c.Execution.Shell)
}

// GetTerminalName returns the name of the reusable interactive terminal.
func (c *Config) GetTerminalName() string {
	if c.Execution.TerminalName == "" {
		return DefaultTerminalName
	}
	return c.Execution.TerminalName
}

// GetAutoContinueDelay returns the pause before captured output is handed back to the UI.
func (c *Config) GetAutoContinueDelay() time.Duration {
	if c.Execution.AutoContinueDelay == "" {
		return DefaultAutoContinueDelay
	}
	d, err := time.ParseDuration(c.Execution.AutoContinueDelay)
	if err != nil || d < 0 {
		return DefaultAutoContinueDelay
	}
	return d
}

// GetCheckpointTag returns the git tag used as the restore point.
func (c *Config) GetCheckpointTag() string {
	if c.Checkpoint.Tag == "" {
		return DefaultCheckpointTag
	}
	return c.Checkpoint.Tag
}

// GetCheckpointMessage returns the commit message of snapshot commits.
func (c *Config) GetCheckpointMessage() string {
	if c.Checkpoint.CommitMessage == "" {
		return DefaultCheckpointMessage
	}
	return c.Checkpoint.CommitMessage
}

// GetConfirmToken returns the literal the user must type to confirm a reset.
func (c *Config) GetConfirmToken() string {
	if c.Checkpoint.ConfirmToken == "" {
		return DefaultConfirmToken
	}
	return c.Checkpoint.ConfirmToken
}

// GetRollbackMode returns the git reset mode used after tagging a checkpoint.
func (c *Config) GetRollbackMode() RollbackMode {
	switch RollbackMode(strings.ToLower(c.Checkpoint.RollbackMode)) {
	case RollbackHard:
		return RollbackHard
	default:
		return RollbackMixed
	}
}

// IsHistoryEnabled checks if executions are persisted beyond the session.
func (c *Config) IsHistoryEnabled() bool {
	return c.History.Enabled
}

// GetServerAddr returns the listen address for the UI bridge.
func (c *Config) GetServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultServerAddr
	}
	return c.Server.Addr
}

// GetAllowedOrigins returns the origins accepted by the UI bridge.
func (c *Config) GetAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return []string{"localhost:*", "127.0.0.1:*"}
	}
	return c.Server.AllowedOrigins
}

// ValidateConsistency checks the internal consistency of the configuration.
func (c *Config) ValidateConsistency() error {
	switch strings.ToLower(c.Checkpoint.RollbackMode) {
	case "", string(RollbackMixed), string(RollbackHard):
	default:
		return fmt.Errorf("checkpoint.rollback_mode must be mixed|hard, got %s", c.Checkpoint.RollbackMode)
	}

	if c.Checkpoint.Tag != "" && strings.ContainsAny(c.Checkpoint.Tag, " ~^:?*[\\") {
		return fmt.Errorf("checkpoint.tag %q is not a valid git ref name", c.Checkpoint.Tag)
	}

	if c.Completion.MaxTokens < 0 {
		return fmt.Errorf("completion.max_tokens must be >= 0")
	}

	return nil
}
