package execution

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/infrastructure/classifier"
	"github.com/anyonecancode/acc/internal/infrastructure/executor"
	"github.com/anyonecancode/acc/internal/infrastructure/metrics"
	"github.com/anyonecancode/acc/internal/pkg/logger"
	"github.com/anyonecancode/acc/internal/ports"
)

type fakeTerminal struct {
	name    string
	shown   int
	sent    []string
	sendErr error
}

func (f *fakeTerminal) Name() string { return f.name }
func (f *fakeTerminal) Show()        { f.shown++ }
func (f *fakeTerminal) SendText(text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, text)
	return nil
}

type fakeTerminals struct {
	term    *fakeTerminal
	openErr error
	opened  []string
}

func (f *fakeTerminals) Open(name, dir string) (ports.Terminal, error) {
	f.opened = append(f.opened, name+"@"+dir)
	if f.openErr != nil {
		return nil, f.openErr
	}
	if f.term == nil {
		f.term = &fakeTerminal{name: name}
	}
	return f.term, nil
}

type memConversation struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
}

func (m *memConversation) Append(role domain.Role, content string) domain.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := domain.ChatMessage{Role: role, Content: content}
	m.messages = append(m.messages, msg)
	return msg
}

func (m *memConversation) Window(int) []domain.ChatMessage { return m.messages }

type memSink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (m *memSink) Post(e domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *memSink) ofType(t domain.EventType) []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Event
	for _, e := range m.events {
		if e.Command == t {
			out = append(out, e)
		}
	}
	return out
}

type stubRunner struct {
	result domain.ExecutionResult
	err    error
	calls  int
}

func (s *stubRunner) Run(_ context.Context, command, dir string) (domain.ExecutionResult, error) {
	s.calls++
	r := s.result
	r.Command = command
	r.Mode = domain.ModeCaptured
	return r, s.err
}

type fixture struct {
	adapter      *Adapter
	terminals    *fakeTerminals
	conversation *memConversation
	sink         *memSink
	delays       []time.Duration
}

func newFixture(t *testing.T, runner ports.CommandRunner) *fixture {
	t.Helper()
	f := &fixture{terminals: &fakeTerminals{}, conversation: &memConversation{}, sink: &memSink{}}
	cfg := domain.Config{Execution: domain.ExecutionSettings{AutoContinue: true}}
	f.adapter = NewAdapter(cfg, Dependencies{
		Classifier:   classifier.NewWithPrefixes("echo", "ls", "npm test"),
		Runner:       runner,
		Terminals:    f.terminals,
		Conversation: f.conversation,
		Sink:         f.sink,
		Metrics:      metrics.Nop{},
		Logger:       logger.Discard(),
	}, WithAfterFunc(func(d time.Duration, fn func()) {
		f.delays = append(f.delays, d)
		fn()
	}))
	return f
}

func TestCapturedEchoHello(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix shell required")
	}
	root := t.TempDir()
	f := newFixture(t, executor.NewShellRunner("sh"))

	result := f.adapter.Execute(context.Background(), "echo hello", root)
	assert.Equal(t, domain.ModeCaptured, result.Mode)
	assert.True(t, result.Succeeded)
	assert.Contains(t, result.Stdout, "hello")

	require.Len(t, f.conversation.messages, 2)
	assert.Equal(t, "✅ Executing command: `echo hello`", f.conversation.messages[0].Content)
	assert.Equal(t, "📋 Command output:\n```\nhello\n\n```", f.conversation.messages[1].Content)

	auto := f.sink.ofType(domain.EventAutoContinue)
	require.Len(t, auto, 1)
	assert.Equal(t, "hello\n", auto[0].Output)
	assert.Equal(t, []time.Duration{domain.DefaultAutoContinueDelay}, f.delays)

	// The terminal is prepared even for captured commands, but never receives them.
	assert.Equal(t, []string{ChangeDirCommand(root)}, f.terminals.term.sent)
	assert.Equal(t, 1, f.terminals.term.shown)
}

func TestCapturedFallsBackToStderr(t *testing.T) {
	f := newFixture(t, &stubRunner{result: domain.ExecutionResult{Stderr: "warning: only stderr", Succeeded: true}})
	result := f.adapter.Execute(context.Background(), "npm test", "/work")
	assert.Equal(t, "warning: only stderr", result.Output())
	assert.Contains(t, f.conversation.messages[1].Content, "warning: only stderr")
}

func TestCapturedFailure(t *testing.T) {
	subErr := &domain.SubprocessError{Command: "ls missing", Stderr: "ls: missing: No such file", ExitCode: 2, Err: errors.New("exit status 2")}
	f := newFixture(t, &stubRunner{result: domain.ExecutionResult{ExitCode: 2}, err: subErr})

	result := f.adapter.Execute(context.Background(), "ls missing", "/work")
	assert.False(t, result.Succeeded)
	var got *domain.SubprocessError
	require.ErrorAs(t, result.Err, &got)
	assert.Equal(t, 2, result.ExitCode)

	last := f.conversation.messages[len(f.conversation.messages)-1]
	assert.True(t, strings.HasPrefix(last.Content, "❌ Command failed: command failed: ls missing"))
	assert.Empty(t, f.sink.ofType(domain.EventAutoContinue))
}

func TestInteractiveSendsToTerminal(t *testing.T) {
	runner := &stubRunner{}
	f := newFixture(t, runner)

	result := f.adapter.Execute(context.Background(), "python manage.py runserver", "/work")
	assert.Equal(t, domain.ModeInteractive, result.Mode)
	assert.True(t, result.Succeeded)
	assert.Zero(t, runner.calls)
	assert.Equal(t, []string{`cd "/work"`, "python manage.py runserver"}, f.terminals.term.sent)
	assert.Equal(t, []string{domain.DefaultTerminalName + "@/work"}, f.terminals.opened)
	assert.Empty(t, f.sink.ofType(domain.EventAutoContinue))
	require.Len(t, f.conversation.messages, 1)
}

func TestTerminalFailure(t *testing.T) {
	f := newFixture(t, &stubRunner{})
	f.terminals.openErr = errors.New("no terminal available")

	result := f.adapter.Execute(context.Background(), "make", "/work")
	assert.False(t, result.Succeeded)
	require.Len(t, f.conversation.messages, 1)
	assert.Equal(t, "❌ Command execution failed: no terminal available", f.conversation.messages[0].Content)

	notices := f.sink.ofType(domain.EventNotify)
	require.Len(t, notices, 1)
	assert.Equal(t, domain.NotifyError, notices[0].Level)
}

func TestChangeDirCommandQuotes(t *testing.T) {
	assert.Equal(t, `cd "/tmp/my \"proj\""`, ChangeDirCommand(`/tmp/my "proj"`))
}
