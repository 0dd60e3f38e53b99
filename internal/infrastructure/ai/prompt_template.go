package ai

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/anyonecancode/acc/internal/domain"
)

const systemPreamble = `You are a helpful AI coding assistant. You have access to the user's codebase context including:

1. Current file being edited
2. Workspace structure and file hierarchy
3. Git repository status (branch, changes, remotes)

IMPORTANT: You can propose terminal commands to help the user. When suggesting terminal commands:

1. ALWAYS format commands in ` + "```bash" + ` code blocks
2. Start with "💻 Proposed command:"
3. Explain what the command will do
4. Only suggest safe, non-destructive commands
5. Wait for user approval before execution

Example format:
💻 Proposed command: This will install dependencies
` + "```bash\nnpm install\n```" + `

DANGEROUS COMMANDS TO AVOID:
- rm -rf / or rm -rf ~/ or any recursive delete
- Any command with > /dev/null or similar redirection that hides output
- Commands that modify system files outside the project
- Commands that could cause data loss

Safe commands include:
- npm install, yarn install, pip install
- git commands (status, add, commit, push, pull)
- build commands (npm run build, make)
- test commands (npm test, pytest)
- file operations within project directory

Codebase Context:
{{.Context}}`

var preambleTemplate = template.Must(template.New("system").Parse(systemPreamble))

type templateData struct {
	Context string
}

// renderSystemMessage expands the preamble (or a caller-supplied override) with the codebase context.
func renderSystemMessage(req domain.CompletionRequest) (string, error) {
	tmpl := preambleTemplate
	if strings.TrimSpace(req.SystemPrompt) != "" {
		parsed, err := template.New("override").Parse(req.SystemPrompt)
		if err != nil {
			return "", err
		}
		tmpl = parsed
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData{Context: req.Context}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
