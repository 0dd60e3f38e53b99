package contextcollector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// Builder renders the codebase context blob sent with every completion request.
type Builder struct {
	git        ports.GitRunner
	depth      int
	extensions map[string]bool
	withGit    bool
	withActive bool
	logger     ports.Logger
}

// NewBuilder creates a Builder from the context section of cfg.
func NewBuilder(cfg domain.Config, git ports.GitRunner, logger ports.Logger) *Builder {
	exts := map[string]bool{}
	for _, ext := range cfg.GetContextExtensions() {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[strings.ToLower(ext)] = true
	}
	return &Builder{
		git:        git,
		depth:      cfg.GetTreeDepth(),
		extensions: exts,
		withGit:    cfg.IsGitContextEnabled() && git != nil,
		withActive: cfg.Context.IncludeActiveFile,
		logger:     logger,
	}
}

// Build implements ports.ContextBuilder. An empty root skips the tree and git sections.
func (b *Builder) Build(ctx context.Context, root string, active *domain.ActiveFile) string {
	var sb strings.Builder
	if active != nil && b.withActive {
		sb.WriteString(activeFileSection(*active))
	}
	if root == "" {
		return sb.String()
	}

	sb.WriteString(b.treeSection(root))
	if b.withGit {
		sb.WriteString(b.gitSection(ctx, root))
	}
	return sb.String()
}

func activeFileSection(file domain.ActiveFile) string {
	lang := file.Language
	if lang == "" {
		lang = LanguageFor(file.Path)
	}
	return fmt.Sprintf("Current file context:\n```%s\n%s\n```\n\n", lang, file.Content)
}

func (b *Builder) treeSection(root string) string {
	if _, err := os.ReadDir(root); err != nil {
		b.logger.Debug("workspace scan failed", map[string]interface{}{"root": root, "error": err.Error()})
		return domain.PlaceholderTree
	}
	var sb strings.Builder
	b.scan(&sb, root, 0)
	return fmt.Sprintf("Workspace structure:\n```\n%s\n```\n\n", sb.String())
}

func (b *Builder) scan(sb *strings.Builder, dir string, depth int) {
	if depth > b.depth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || name == "node_modules" || name == "out" {
			continue
		}
		if entry.IsDir() {
			fmt.Fprintf(sb, "%s📁 %s/\n", indent, name)
			if depth < b.depth {
				b.scan(sb, filepath.Join(dir, name), depth+1)
			}
			continue
		}
		if b.extensions[strings.ToLower(filepath.Ext(name))] {
			fmt.Fprintf(sb, "%s📄 %s\n", indent, name)
		}
	}
}

func (b *Builder) gitSection(ctx context.Context, root string) string {
	gctx, cancel := context.WithTimeout(ctx, domain.DefaultGitTimeout)
	defer cancel()

	var info domain.GitContext
	g, gctx := errgroup.WithContext(gctx)
	g.Go(func() (err error) {
		info.Status, err = b.git.Run(gctx, root, "status", "--short")
		return err
	})
	g.Go(func() (err error) {
		info.Branch, err = b.git.Run(gctx, root, "branch", "--show-current")
		return err
	})
	g.Go(func() (err error) {
		info.Remotes, err = b.git.Run(gctx, root, "remote", "-v")
		return err
	})
	if err := g.Wait(); err != nil {
		b.logger.Debug("git context unavailable", map[string]interface{}{"root": root, "error": err.Error()})
		return domain.PlaceholderGit
	}
	return FormatGitContext(info)
}

// FormatGitContext renders the git section; empty parts are omitted.
func FormatGitContext(info domain.GitContext) string {
	var sb strings.Builder
	sb.WriteString("Git repository status:\n")
	if info.Branch != "" {
		fmt.Fprintf(&sb, "Current branch: %s\n", info.Branch)
	}
	if info.Status != "" {
		fmt.Fprintf(&sb, "Changes:\n```\n%s\n```\n", info.Status)
	}
	if info.Remotes != "" {
		fmt.Fprintf(&sb, "Remotes:\n```\n%s\n```\n", info.Remotes)
	}
	sb.WriteString("\n")
	return sb.String()
}

var languages = map[string]string{
	".go":   "go",
	".ts":   "typescript",
	".tsx":  "typescriptreact",
	".js":   "javascript",
	".jsx":  "javascriptreact",
	".py":   "python",
	".java": "java",
	".c":    "c",
	".cpp":  "cpp",
	".h":    "c",
	".html": "html",
	".css":  "css",
	".json": "json",
	".xml":  "xml",
	".yaml": "yaml",
	".yml":  "yaml",
	".md":   "markdown",
	".sh":   "shellscript",
	".rs":   "rust",
}

// LanguageFor guesses an editor language id from a file extension.
func LanguageFor(path string) string {
	if lang, ok := languages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "plaintext"
}

var _ ports.ContextBuilder = (*Builder)(nil)
