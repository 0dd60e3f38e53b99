package app

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/anyonecancode/acc/internal/application/chat"
	"github.com/anyonecancode/acc/internal/application/checkpoint"
	appconfig "github.com/anyonecancode/acc/internal/application/config"
	"github.com/anyonecancode/acc/internal/application/doctor"
	"github.com/anyonecancode/acc/internal/application/execution"
	"github.com/anyonecancode/acc/internal/application/gate"
	"github.com/anyonecancode/acc/internal/application/panel"
	"github.com/anyonecancode/acc/internal/application/session"
	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/infrastructure/ai"
	"github.com/anyonecancode/acc/internal/infrastructure/classifier"
	"github.com/anyonecancode/acc/internal/infrastructure/clipboard"
	"github.com/anyonecancode/acc/internal/infrastructure/config"
	contextcollector "github.com/anyonecancode/acc/internal/infrastructure/context"
	"github.com/anyonecancode/acc/internal/infrastructure/editor"
	"github.com/anyonecancode/acc/internal/infrastructure/executor"
	"github.com/anyonecancode/acc/internal/infrastructure/git"
	"github.com/anyonecancode/acc/internal/infrastructure/history"
	"github.com/anyonecancode/acc/internal/infrastructure/metrics"
	"github.com/anyonecancode/acc/internal/infrastructure/state"
	"github.com/anyonecancode/acc/internal/infrastructure/terminal"
	"github.com/anyonecancode/acc/internal/infrastructure/workspace"
	"github.com/anyonecancode/acc/internal/pkg/filesystem"
	"github.com/anyonecancode/acc/internal/pkg/logger"
	"github.com/anyonecancode/acc/internal/pkg/workqueue"
	"github.com/anyonecancode/acc/internal/ports"
)

// Options selects the workspace and active file for a run.
type Options struct {
	Verbose     bool
	Workspace   string
	NoWorkspace bool
	ActiveFile  string
	Out         io.Writer
}

// Surface is where a runtime shows events and asks for input: the terminal or a web panel.
type Surface interface {
	ports.EventSink
	ports.InputPrompter
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config       domain.Config
	ConfigLoader *config.FileLoader
	Logger       *logger.Logger
	Workspace    *workspace.Static
	Classifier   *classifier.PrefixClassifier
	Runner       *executor.ShellRunner
	Terminals    *terminal.Manager
	Git          *git.Runner
	State        *state.FileStore
	HistoryStore ports.HistoryRepository
	Cache        *session.Cache
	Backend      *ai.OpenRouterClient
	Context      *contextcollector.Builder
	Editor       *editor.FileEditor
	Clipboard    *clipboard.Clipboard
	Metrics      *metrics.Recorder
	Queue        *workqueue.Queue

	DoctorService *doctor.Service
}

// BuildContainer loads configuration and constructs the shared adapters.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	log := logger.New(opts.Verbose)

	ws := workspace.None()
	if !opts.NoWorkspace {
		var err error
		if ws, err = workspace.Open(opts.Workspace); err != nil {
			return nil, err
		}
	}
	root, _ := ws.Root()
	if err := config.LoadEnv(config.EnvFiles(root)...); err != nil {
		log.Warn("could not load .env", map[string]interface{}{"error": err.Error()})
	}

	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		log.Warn("config validation failed", map[string]interface{}{"error": err.Error(), "path": cfgLoader.Path()})
	}

	rules, err := classifier.New(cfg.Classifier.RulesFile)
	if err != nil {
		log.Warn("falling back to default classifier rules", map[string]interface{}{"error": err.Error()})
		if rules, err = classifier.New(""); err != nil {
			return nil, err
		}
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	appDir := filesystem.AppDir()
	gitRunner := git.NewRunner(0)
	historyStore := newHistoryStore(cfg, appDir)
	activeFile := opts.ActiveFile
	if activeFile != "" && !filepath.IsAbs(activeFile) && root != "" {
		activeFile = filepath.Join(root, activeFile)
	}

	c := &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Logger:       log,
		Workspace:    ws,
		Classifier:   rules,
		Runner:       executor.NewShellRunner(cfg.GetExecutionShell()),
		Terminals:    terminal.NewManager(cfg.GetExecutionShell(), out),
		Git:          gitRunner,
		State:        state.NewFileStore(filepath.Join(appDir, "state")),
		HistoryStore: historyStore,
		Cache:        session.NewCache(historyStore, log),
		Backend:      ai.NewOpenRouterClient(cfg),
		Context:      contextcollector.NewBuilder(cfg, gitRunner, log),
		Editor:       editor.NewFileEditor(activeFile),
		Clipboard:    clipboard.New(),
		Metrics:      metrics.NewRecorder(),
		Queue:        workqueue.New(),
	}
	c.DoctorService = &doctor.Service{
		ConfigProvider: cfgLoader,
		Workspace:      ws,
		Git:            gitRunner,
		Classifier:     rules,
		History:        historyStore,
		State:          c.State,
	}
	return c, nil
}

func newHistoryStore(cfg domain.Config, dir string) ports.HistoryRepository {
	if !cfg.IsHistoryEnabled() {
		return nil
	}
	if cfg.History.Backend == "jsonl" {
		return history.NewFileStore(dir)
	}
	return history.NewSQLiteStore(dir)
}

// Runtime is the interactive stack bound to one surface.
type Runtime struct {
	Conversation *chat.Conversation
	Gate         *gate.Gate
	Executor     *execution.Adapter
	Checkpoints  *checkpoint.Manager
	Session      *chat.Session
	Panels       *panel.Registry
}

// NewRuntime wires the gate, execution adapter, checkpoint manager and chat session to surface.
func (c *Container) NewRuntime(surface Surface, opts ...execution.Option) *Runtime {
	conv := chat.NewConversation(surface, domain.MaxConversationMessages)

	adapter := execution.NewAdapter(c.Config, execution.Dependencies{
		Classifier:   c.Classifier,
		Runner:       c.Runner,
		Terminals:    c.Terminals,
		Queue:        c.Queue,
		Conversation: conv,
		Sink:         surface,
		Metrics:      c.Metrics,
		Logger:       c.Logger,
	}, opts...)

	g := gate.New(gate.Dependencies{
		Workspace:    c.Workspace,
		Classifier:   c.Classifier,
		Executor:     adapter,
		Cache:        c.Cache,
		Conversation: conv,
		Prompter:     surface,
		Metrics:      c.Metrics,
		Logger:       c.Logger,
	})

	checkpoints := checkpoint.NewManager(c.Config, checkpoint.Dependencies{
		Workspace: c.Workspace,
		Git:       c.Git,
		State:     c.State,
		Prompter:  surface,
		Queue:     c.Queue,
		Metrics:   c.Metrics,
		Logger:    c.Logger,
	})

	sess := chat.NewSession(c.Config, chat.Dependencies{
		Conversation: conv,
		Gate:         g,
		Backend:      c.Backend,
		Context:      c.Context,
		Workspace:    c.Workspace,
		Checkpoints:  checkpoints,
		Clipboard:    c.Clipboard,
		Editor:       c.Editor,
		Sink:         surface,
		Logger:       c.Logger,
	})

	panels := panel.NewRegistry()
	panels.Register(chat.PanelKind, func() (panel.Panel, error) { return sess, nil })
	panels.Register(checkpoint.PanelKind, func() (panel.Panel, error) {
		return checkpoint.NewPanel(checkpoints, surface), nil
	})

	return &Runtime{
		Conversation: conv,
		Gate:         g,
		Executor:     adapter,
		Checkpoints:  checkpoints,
		Session:      sess,
		Panels:       panels,
	}
}

// Close releases the terminals and the history database.
func (c *Container) Close() error {
	_ = c.Terminals.CloseAll()
	if closer, ok := c.HistoryStore.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
