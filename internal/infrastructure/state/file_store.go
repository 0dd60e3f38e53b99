// Package state persists small per-workspace values such as the last checkpoint label and
// the checkpoint journal.
package state

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// FileStore keeps one JSON object per workspace under dir, addressed by a hash of the root.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

type workspaceFile struct {
	Workspace string            `json:"workspace"`
	Values    map[string]string `json:"values"`
}

// NewFileStore returns a store rooted at dir (typically ~/.acc/state).
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir exposes the storage directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Get implements ports.StateStore.
func (s *FileStore) Get(workspace string, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.read(workspace)
	if err != nil {
		return "", false, err
	}
	v, ok := file.Values[key]
	return v, ok, nil
}

// Set implements ports.StateStore.
func (s *FileStore) Set(workspace string, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.read(workspace)
	if err != nil {
		return err
	}
	file.Values[key] = value
	return s.write(file)
}

// Delete implements ports.StateStore. Deleting a missing key is not an error.
func (s *FileStore) Delete(workspace string, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := s.read(workspace)
	if err != nil {
		return err
	}
	if _, ok := file.Values[key]; !ok {
		return nil
	}
	delete(file.Values, key)
	return s.write(file)
}

func (s *FileStore) read(workspace string) (workspaceFile, error) {
	file := workspaceFile{Workspace: filepath.Clean(workspace), Values: map[string]string{}}
	data, err := os.ReadFile(s.pathFor(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return file, nil
		}
		return file, err
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("decode workspace state: %w", err)
	}
	if file.Values == nil {
		file.Values = map[string]string{}
	}
	return file, nil
}

func (s *FileStore) write(file workspaceFile) error {
	if err := os.MkdirAll(s.dir, domain.DirectoryPermissions); err != nil {
		return err
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	path := s.pathFor(file.Workspace)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, domain.SecureFilePermissions); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) pathFor(workspace string) string {
	sum := sha1.Sum([]byte(filepath.Clean(workspace)))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

var _ ports.StateStore = (*FileStore)(nil)
