package gate

import (
	"regexp"
	"strings"
)

// ProposalMarker introduces a proposed command in an assistant reply.
const ProposalMarker = "💻 Proposed command:"

var fencedCommand = regexp.MustCompile("(?s)```(?:bash|sh|shell|zsh)[ \t]*\r?\n(.*?)\r?\n?```")

// ParseProposal extracts the description and command from an assistant reply. It reports
// false unless the reply carries both the marker and a non-empty shell code block.
func ParseProposal(text string) (description string, command string, ok bool) {
	idx := strings.Index(text, ProposalMarker)
	if idx < 0 {
		return "", "", false
	}
	m := fencedCommand.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	command = strings.TrimSpace(m[1])
	if command == "" {
		return "", "", false
	}

	rest := text[idx+len(ProposalMarker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest), command, true
}
