package state

import (
	"testing"
)

func TestFileStoreScopesByWorkspace(t *testing.T) {
	store := NewFileStore(t.TempDir())

	if err := store.Set("/work/a", "lastCheckpoint", "Sun, Oct 18, 2026, 02:17 PM"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, ok, err := store.Get("/work/a/", "lastCheckpoint")
	if err != nil || !ok || got != "Sun, Oct 18, 2026, 02:17 PM" {
		t.Fatalf("Get = %q, %v, %v", got, ok, err)
	}
	if _, ok, _ := store.Get("/work/b", "lastCheckpoint"); ok {
		t.Fatal("value leaked into another workspace")
	}
}

func TestFileStoreDelete(t *testing.T) {
	store := NewFileStore(t.TempDir())
	if err := store.Delete("/work/a", "missing"); err != nil {
		t.Fatalf("Delete of missing key: %v", err)
	}
	if err := store.Set("/work/a", "k", "v"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("/work/a", "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get("/work/a", "k"); ok {
		t.Fatal("expected key to be gone")
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	if err := NewFileStore(dir).Set("/work/a", "k", "v"); err != nil {
		t.Fatal(err)
	}
	got, ok, err := NewFileStore(dir).Get("/work/a", "k")
	if err != nil || !ok || got != "v" {
		t.Fatalf("Get after reopen = %q, %v, %v", got, ok, err)
	}
}
