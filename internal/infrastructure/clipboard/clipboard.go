// Package clipboard copies code blocks to the system clipboard through the platform's
// clipboard utility.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/anyonecancode/acc/internal/ports"
)

// Clipboard implements ports.Clipboard.
type Clipboard struct {
	goos     string
	lookPath func(string) (string, error)
}

// New builds the clipboard for the running platform.
func New() *Clipboard {
	return &Clipboard{goos: runtime.GOOS, lookPath: exec.LookPath}
}

// Enabled reports whether a clipboard utility is available.
func (c *Clipboard) Enabled() bool {
	_, err := c.command()
	return err == nil
}

// Copy writes text to the system clipboard.
func (c *Clipboard) Copy(text string) error {
	argv, err := c.command()
	if err != nil {
		return err
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", argv[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// command picks the utility: pbcopy on macOS, clip on Windows, then wl-copy, xclip or xsel
// elsewhere.
func (c *Clipboard) command() ([]string, error) {
	var candidates [][]string
	switch c.goos {
	case "darwin":
		candidates = [][]string{{"pbcopy"}}
	case "windows":
		candidates = [][]string{{"clip"}}
	default:
		candidates = [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
	}
	for _, argv := range candidates {
		if _, err := c.lookPath(argv[0]); err == nil {
			return argv, nil
		}
	}
	return nil, fmt.Errorf("no clipboard utility found on %s", c.goos)
}

var _ ports.Clipboard = (*Clipboard)(nil)
