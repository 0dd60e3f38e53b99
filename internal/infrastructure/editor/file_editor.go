// Package editor writes code snippets into the file the user is working on.
package editor

import (
	"os"
	"strings"
	"sync"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// FileEditor treats one file on disk as the active editor.
type FileEditor struct {
	mu   sync.Mutex
	path string
}

// NewFileEditor returns an editor for path. An empty path means no editor is active.
func NewFileEditor(path string) *FileEditor {
	return &FileEditor{path: path}
}

// Path returns the active file, if any.
func (e *FileEditor) Path() string {
	return e.path
}

// Active returns the active file's content for the context blob, or nil.
func (e *FileEditor) Active() *domain.ActiveFile {
	if e.path == "" {
		return nil
	}
	data, err := os.ReadFile(e.path)
	if err != nil {
		return nil
	}
	return &domain.ActiveFile{Path: e.path, Content: string(data)}
}

// Insert implements ports.Editor by appending code at the end of the file.
func (e *FileEditor) Insert(code string) error {
	if e.path == "" {
		return domain.ErrNoActiveEditor
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	existing, err := os.ReadFile(e.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	f, err := os.OpenFile(e.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		code = "\n" + code
	}
	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	_, err = f.WriteString(code)
	return err
}

var _ ports.Editor = (*FileEditor)(nil)
