package domain

// ActiveFile is the file the user is editing, included verbatim in the context blob.
type ActiveFile struct {
	Path     string
	Language string
	Content  string
}

// GitContext captures branch, short status and remotes for the prompt.
type GitContext struct {
	Branch  string
	Status  string
	Remotes string
}

// Context blob placeholders used when a section cannot be collected.
const (
	PlaceholderTree = "Workspace structure: Unable to scan directory\n\n"
	PlaceholderGit  = "Git repository: Not a git repository or git not available\n\n"
)
