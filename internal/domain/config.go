package domain

// Config mirrors ~/.acc/config.yaml.
type Config struct {
	ConfigFormatVersion string             `yaml:"config_format_version"`
	Completion          CompletionSettings `yaml:"completion"`
	Context             ContextSettings    `yaml:"context"`
	Classifier          ClassifierSettings `yaml:"classifier"`
	Execution           ExecutionSettings  `yaml:"execution"`
	Checkpoint          CheckpointSettings `yaml:"checkpoint"`
	History             HistorySettings    `yaml:"history"`
	Server              ServerSettings     `yaml:"server"`
}

// CompletionSettings configures the remote chat-completion backend.
type CompletionSettings struct {
	Endpoint      string `yaml:"endpoint"`
	Model         string `yaml:"model"`
	AuthEnvVar    string `yaml:"auth_env_var"`
	MaxTokens     int    `yaml:"max_tokens"`
	HistoryWindow int    `yaml:"history_window"`
	Timeout       string `yaml:"timeout"`
	Referer       string `yaml:"referer"`
	Title         string `yaml:"title"`
}

// ContextSettings configures the codebase context blob.
type ContextSettings struct {
	IncludeActiveFile bool     `yaml:"include_active_file"`
	TreeDepth         int      `yaml:"tree_depth"`
	IncludeGit        string   `yaml:"include_git"`
	Extensions        []string `yaml:"extensions"`
}

// ClassifierSettings points at the allow-list rules file.
type ClassifierSettings struct {
	RulesFile string `yaml:"rules_file"`
}

// ExecutionSettings controls how approved commands run.
type ExecutionSettings struct {
	Shell             string `yaml:"shell"`
	TerminalName      string `yaml:"terminal_name"`
	AutoContinue      bool   `yaml:"auto_continue"`
	AutoContinueDelay string `yaml:"auto_continue_delay"`
}

// CheckpointSettings controls the git snapshot protocol.
type CheckpointSettings struct {
	Tag           string `yaml:"tag"`
	CommitMessage string `yaml:"commit_message"`
	ConfirmToken  string `yaml:"confirm_token"`
	RollbackMode  string `yaml:"rollback_mode"`
}

// HistorySettings controls the execution history repository.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Backend string `yaml:"backend"`
}

// ServerSettings configures `acc serve`.
type ServerSettings struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}
