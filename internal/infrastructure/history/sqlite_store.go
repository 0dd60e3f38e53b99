package history

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// SQLiteStore persists execution attempts in a SQLite database.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	fallback *FileStore
	mu       sync.Mutex
}

// NewSQLiteStore creates (or opens) <dir>/history.db. When the database cannot be opened the
// store degrades to the jsonl FileStore in the same directory.
func NewSQLiteStore(dir string) *SQLiteStore {
	path := filepath.Join(dir, "history.db")
	fallback := NewFileStore(dir)
	_ = os.MkdirAll(dir, domain.DirectoryPermissions)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path, fallback: fallback}
	}
	store := &SQLiteStore{db: db, path: path, fallback: fallback}
	if err := store.init(); err != nil {
		_ = db.Close()
		return &SQLiteStore{path: path, fallback: fallback}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS executions (
		id TEXT PRIMARY KEY,
		started_at TEXT,
		command TEXT,
		workspace TEXT,
		mode TEXT,
		completed INTEGER,
		success INTEGER,
		exit_code INTEGER,
		duration_ms INTEGER
	);`)
	return err
}

// Save upserts an attempt by ID.
func (s *SQLiteStore) Save(attempt domain.ExecutionAttempt) error {
	if s.db == nil {
		return s.fallback.Save(attempt)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT OR REPLACE INTO executions
		(id, started_at, command, workspace, mode, completed, success, exit_code, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.ID,
		attempt.StartedAt.UTC().Format(time.RFC3339Nano),
		attempt.Command,
		attempt.Workspace,
		string(attempt.Mode),
		boolToInt(attempt.Completed),
		nullableBool(attempt.Success),
		attempt.ExitCode,
		attempt.DurationMS,
	)
	return err
}

// Records returns attempts newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.ExecutionAttempt, error) {
	if s.db == nil {
		return s.fallback.Records(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT id, started_at, command, workspace, mode, completed, success, exit_code, duration_ms FROM executions")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE command LIKE ? OR workspace LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY started_at DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ExecutionAttempt
	for rows.Next() {
		var rec domain.ExecutionAttempt
		var ts, mode string
		var completed int
		var success sql.NullInt64
		if err := rows.Scan(&rec.ID, &ts, &rec.Command, &rec.Workspace, &mode, &completed, &success, &rec.ExitCode, &rec.DurationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.StartedAt = t
		}
		rec.Mode = domain.ExecutionMode(mode)
		rec.Completed = completed == 1
		if success.Valid {
			ok := success.Int64 == 1
			rec.Success = &ok
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback.Clear()
	}
	_, err := s.db.Exec("DELETE FROM executions")
	return err
}

// ExportJSON writes the executions table to a jsonl file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the sqlite database path, or the jsonl path when degraded.
func (s *SQLiteStore) Path() string {
	if s.db == nil {
		return s.fallback.Path()
	}
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableBool(b *bool) interface{} {
	if b == nil {
		return nil
	}
	return boolToInt(*b)
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
