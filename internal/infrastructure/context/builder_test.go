package contextcollector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/pkg/logger"
)

type fakeGit struct {
	outputs map[string]string
	fail    bool
}

func (f fakeGit) Run(_ context.Context, _ string, args ...string) (string, error) {
	if f.fail {
		return "", errors.New("fatal: not a git repository")
	}
	return f.outputs[strings.Join(args, " ")], nil
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuilderTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, ".env"))
	writeFile(t, filepath.Join(root, "node_modules", "dep", "index.js"))
	writeFile(t, filepath.Join(root, "out", "bundle.js"))
	writeFile(t, filepath.Join(root, "src", "app", "deep", "too_deep.ts"))
	writeFile(t, filepath.Join(root, "src", "app", "index.ts"))

	cfg := domain.Config{Context: domain.ContextSettings{IncludeGit: "never"}}
	got := NewBuilder(cfg, nil, logger.Discard()).Build(context.Background(), root, nil)

	want := "Workspace structure:\n```\n" +
		"📄 main.go\n" +
		"📁 src/\n" +
		"  📁 app/\n" +
		"    📁 deep/\n" +
		"    📄 index.ts\n" +
		"\n```\n\n"
	if got != want {
		t.Fatalf("unexpected tree:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuilderSections(t *testing.T) {
	root := t.TempDir()
	active := &domain.ActiveFile{Path: "main.go", Content: "package main"}

	tests := []struct {
		name     string
		root     string
		git      fakeGit
		contains []string
		excludes []string
	}{
		{
			name: "git available",
			root: root,
			git: fakeGit{outputs: map[string]string{
				"status --short":        " M main.go",
				"branch --show-current": "main",
				"remote -v":             "",
			}},
			contains: []string{
				"Current file context:\n```go\npackage main\n```\n\n",
				"Git repository status:\nCurrent branch: main\nChanges:\n```\n M main.go\n```\n\n",
			},
			excludes: []string{"Remotes:"},
		},
		{
			name:     "git failure degrades to placeholder",
			root:     root,
			git:      fakeGit{fail: true},
			contains: []string{domain.PlaceholderGit},
		},
		{
			name:     "no workspace",
			root:     "",
			git:      fakeGit{},
			contains: []string{"Current file context:"},
			excludes: []string{"Workspace structure", "Git repository"},
		},
		{
			name:     "unreadable root",
			root:     filepath.Join(root, "missing"),
			git:      fakeGit{fail: true},
			contains: []string{domain.PlaceholderTree},
		},
	}

	cfg := domain.Config{Context: domain.ContextSettings{IncludeActiveFile: true}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBuilder(cfg, tt.git, logger.Discard()).Build(context.Background(), tt.root, active)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Fatalf("expected %q in:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Fatalf("did not expect %q in:\n%s", s, got)
				}
			}
		})
	}
}
