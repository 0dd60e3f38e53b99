// Package terminal hosts the named, user-visible shell sessions that interactive commands are
// sent to. A session owns its own I/O; nothing it prints is captured for the assistant.
package terminal

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// Manager opens terminals by name and reuses live ones.
type Manager struct {
	mu       sync.Mutex
	shell    string
	out      io.Writer
	sessions map[string]*Session
}

// NewManager creates a Manager whose sessions run shell and print to out. An empty shell picks
// the host default.
func NewManager(shell string, out io.Writer) *Manager {
	if out == nil {
		out = os.Stdout
	}
	return &Manager{shell: domain.ResolveShell(shell), out: out, sessions: make(map[string]*Session)}
}

// Shell returns the interpreter new sessions start.
func (m *Manager) Shell() string {
	return m.shell
}

// Open implements ports.TerminalProvider. A live session with the same name is reused as-is,
// whatever directory it was started in.
func (m *Manager) Open(name string, dir string) (ports.Terminal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[name]; ok && s.Alive() {
		return s, nil
	}
	s, err := startSession(name, m.shell, dir, m.out)
	if err != nil {
		return nil, fmt.Errorf("open terminal %q: %w", name, err)
	}
	m.sessions[name] = s
	return s, nil
}

// Lookup returns the live session with the given name.
func (m *Manager) Lookup(name string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[name]
	if !ok || !s.Alive() {
		return nil, false
	}
	return s, true
}

// CloseAll ends every session and waits for the shells to exit.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	var firstErr error
	for _, s := range sessions {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Session is one shell process fed through its stdin.
type Session struct {
	name  string
	dir   string
	out   io.Writer
	cmd   *exec.Cmd
	stdin io.WriteCloser

	mu   sync.Mutex
	done chan struct{}
	err  error
}

func startSession(name, shell, dir string, out io.Writer) (*Session, error) {
	cmd := exec.Command(shell)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	s := &Session{name: name, dir: dir, out: out, cmd: cmd, stdin: stdin, done: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.done)
	}()
	return s, nil
}

// Name implements ports.Terminal.
func (s *Session) Name() string {
	return s.name
}

// Dir is the directory the shell was started in.
func (s *Session) Dir() string {
	return s.dir
}

// Show implements ports.Terminal by printing a banner that marks where the session's output begins.
func (s *Session) Show() {
	fmt.Fprintf(s.out, "── %s (%s) ──\n", s.name, s.dir)
}

// SendText implements ports.Terminal. The text is submitted as one line.
func (s *Session) SendText(text string) error {
	if !s.Alive() {
		return fmt.Errorf("terminal %q has exited", s.name)
	}
	if _, err := io.WriteString(s.stdin, text+"\n"); err != nil {
		return fmt.Errorf("send to terminal %q: %w", s.name, err)
	}
	return nil
}

// Alive reports whether the shell is still running.
func (s *Session) Alive() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Close ends the shell's input and waits for it to exit.
func (s *Session) Close() error {
	_ = s.stdin.Close()
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

var (
	_ ports.TerminalProvider = (*Manager)(nil)
	_ ports.Terminal         = (*Session)(nil)
)
