package history

import (
	"testing"
	"time"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

func attempt(id, command string, at time.Time, success *bool) domain.ExecutionAttempt {
	return domain.ExecutionAttempt{
		ID:        id,
		Command:   command,
		Workspace: "/work",
		Mode:      domain.ModeCaptured,
		StartedAt: at,
		Completed: success != nil,
		Success:   success,
	}
}

func TestStores(t *testing.T) {
	stores := map[string]func(dir string) ports.HistoryRepository{
		"sqlite": func(dir string) ports.HistoryRepository { return NewSQLiteStore(dir) },
		"jsonl":  func(dir string) ports.HistoryRepository { return NewFileStore(dir) },
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			store := open(t.TempDir())
			base := time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)
			ok := true

			if err := store.Save(attempt("a", "git status", base, nil)); err != nil {
				t.Fatalf("Save error: %v", err)
			}
			if err := store.Save(attempt("b", "npm test", base.Add(time.Minute), nil)); err != nil {
				t.Fatalf("Save error: %v", err)
			}
			// Completing "a" rewrites its record.
			if err := store.Save(attempt("a", "git status", base, &ok)); err != nil {
				t.Fatalf("Save error: %v", err)
			}

			records, err := store.Records(0, "")
			if err != nil {
				t.Fatalf("Records error: %v", err)
			}
			if len(records) != 2 {
				t.Fatalf("expected 2 records, got %d", len(records))
			}
			if records[0].ID != "b" {
				t.Fatalf("expected newest first, got %s", records[0].ID)
			}
			if records[1].Success == nil || !*records[1].Success || !records[1].Completed {
				t.Fatalf("expected completed success for a, got %+v", records[1])
			}
			if records[0].Success != nil {
				t.Fatal("pending attempt must have nil success")
			}

			found, err := store.Records(1, "npm")
			if err != nil || len(found) != 1 || found[0].Command != "npm test" {
				t.Fatalf("search = %+v, %v", found, err)
			}

			if err := store.Clear(); err != nil {
				t.Fatalf("Clear error: %v", err)
			}
			records, _ = store.Records(0, "")
			if len(records) != 0 {
				t.Fatalf("expected empty history, got %d", len(records))
			}
		})
	}
}
