package commands

// CLI-specific constants
const (
	// DefaultEditorCommand is the default editor command
	DefaultEditorCommand = "vi"
	// DefaultHistoryLimit is the default number of history records listed
	DefaultHistoryLimit = 20
)

// REPL prompts
const (
	promptYou      = "you> "
	promptDecision = "Run it? [y]es / [e]dit / [N]o: "
	// autoContinueFormat turns captured output into the next user turn
	autoContinueFormat = "Command output:\n```\n%s\n```"
)

// Error messages
const (
	ErrHistoryStoreUnavailable = "history is disabled in the config"
	ErrCommandRequired         = "a command is required"
)

// Success messages
const (
	MsgConfigurationValid = "Configuration valid"
	MsgNoHistoryRecorded  = "No history recorded yet."
	MsgHistoryCleared     = "History cleared."
	MsgChatHelp           = "Commands: /checkpoint, /reset, /status, /help, /quit"
)
