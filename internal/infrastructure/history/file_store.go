package history

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// FileStore appends execution attempts to a jsonl file. A later line with the same ID
// supersedes an earlier one.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store at <dir>/history.jsonl.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, "history.jsonl")}
}

// Save implements ports.HistoryRepository.
func (f *FileStore) Save(attempt domain.ExecutionAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.SecureFilePermissions)
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := json.Marshal(attempt)
	if err != nil {
		return err
	}
	_, err = file.Write(append(data, '\n'))
	return err
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Clear removes the history file.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Records loads attempts newest first (best-effort; malformed lines are skipped).
func (f *FileStore) Records(limit int, search string) ([]domain.ExecutionAttempt, error) {
	f.mu.Lock()
	data, err := os.ReadFile(f.path)
	f.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	byID := map[string]int{}
	var records []domain.ExecutionAttempt
	for _, line := range bytes.Split(bytes.TrimSpace(data), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var rec domain.ExecutionAttempt
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if i, ok := byID[rec.ID]; ok && rec.ID != "" {
			records[i] = rec
			continue
		}
		byID[rec.ID] = len(records)
		records = append(records, rec)
	}

	if search != "" {
		filtered := records[:0]
		for _, rec := range records {
			if strings.Contains(rec.Command, search) || strings.Contains(rec.Workspace, search) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].StartedAt.After(records[j].StartedAt) })
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

var _ ports.HistoryRepository = (*FileStore)(nil)
