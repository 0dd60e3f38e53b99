// Package workspace resolves the single workspace root a session operates on.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/anyonecancode/acc/internal/ports"
)

// Static is a fixed workspace root, or none.
type Static struct {
	root string
	open bool
}

// Open returns a workspace rooted at dir, or the current directory when dir is empty.
func Open(dir string) (*Static, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open workspace: %s is not a directory", abs)
	}
	return &Static{root: abs, open: true}, nil
}

// None returns a workspace accessor with no folder open.
func None() *Static {
	return &Static{}
}

// Root implements ports.Workspace.
func (s *Static) Root() (string, bool) {
	if s == nil || !s.open {
		return "", false
	}
	return s.root, true
}

var _ ports.Workspace = (*Static)(nil)
