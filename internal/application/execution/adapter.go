// Package execution runs approved commands either captured (output fed back to the
// assistant) or in the visible terminal.
package execution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/pkg/workqueue"
	"github.com/anyonecancode/acc/internal/ports"
)

// Adapter implements ports.CommandExecutor.
type Adapter struct {
	classifier   ports.CommandClassifier
	runner       ports.CommandRunner
	terminals    ports.TerminalProvider
	queue        *workqueue.Queue
	conversation ports.Conversation
	sink         ports.EventSink
	metrics      ports.Metrics
	logger       ports.Logger

	terminalName string
	autoContinue bool
	delay        time.Duration
	afterFunc    func(time.Duration, func())
}

// Dependencies wires the adapter to its collaborators.
type Dependencies struct {
	Classifier   ports.CommandClassifier
	Runner       ports.CommandRunner
	Terminals    ports.TerminalProvider
	Queue        *workqueue.Queue
	Conversation ports.Conversation
	Sink         ports.EventSink
	Metrics      ports.Metrics
	Logger       ports.Logger
}

// Option customizes an Adapter.
type Option func(*Adapter)

// WithAfterFunc replaces the timer used to schedule autoContinue events.
func WithAfterFunc(fn func(time.Duration, func())) Option {
	return func(a *Adapter) { a.afterFunc = fn }
}

// NewAdapter creates an Adapter configured from the execution section of cfg.
func NewAdapter(cfg domain.Config, deps Dependencies, opts ...Option) *Adapter {
	a := &Adapter{
		classifier:   deps.Classifier,
		runner:       deps.Runner,
		terminals:    deps.Terminals,
		queue:        deps.Queue,
		conversation: deps.Conversation,
		sink:         deps.Sink,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		terminalName: cfg.GetTerminalName(),
		autoContinue: cfg.Execution.AutoContinue,
		delay:        cfg.GetAutoContinueDelay(),
		afterFunc:    func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
	if a.queue == nil {
		a.queue = workqueue.New()
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Execute implements ports.CommandExecutor. Failures are reported through the conversation
// and the returned result; they are never returned as errors.
func (a *Adapter) Execute(ctx context.Context, command string, root string) domain.ExecutionResult {
	mode := domain.ModeFor(a.classifier.Classify(command))
	start := time.Now()
	result := domain.ExecutionResult{Command: command, Mode: mode, StartedAt: start}

	term, err := a.prepareTerminal(root)
	if err != nil {
		return a.fail(result, err)
	}

	a.conversation.Append(domain.RoleSystem, fmt.Sprintf(domain.MsgExecutingFormat, command))
	a.sink.Post(domain.NotifyEvent(domain.NotifyInfo, "Executing command: "+command))

	if mode == domain.ModeCaptured {
		return a.runCaptured(ctx, command, root, result)
	}

	if err := term.SendText(command); err != nil {
		return a.fail(result, err)
	}
	result.Succeeded = true
	result.DurationMS = time.Since(start).Milliseconds()
	a.metrics.ObserveExecution(mode, true, time.Since(start).Seconds())
	return result
}

func (a *Adapter) prepareTerminal(root string) (ports.Terminal, error) {
	term, err := a.terminals.Open(a.terminalName, root)
	if err != nil {
		return nil, err
	}
	term.Show()
	if err := term.SendText(ChangeDirCommand(root)); err != nil {
		return nil, err
	}
	return term, nil
}

func (a *Adapter) runCaptured(ctx context.Context, command, root string, result domain.ExecutionResult) domain.ExecutionResult {
	var runErr error
	err := a.queue.Do(ctx, root, func(ctx context.Context) error {
		var run domain.ExecutionResult
		run, runErr = a.runner.Run(ctx, command, root)
		run.StartedAt = result.StartedAt
		result = run
		return nil
	})
	if err != nil {
		runErr = err
		result.Err = err
	}
	result.DurationMS = time.Since(result.StartedAt).Milliseconds()
	a.metrics.ObserveExecution(domain.ModeCaptured, runErr == nil, time.Since(result.StartedAt).Seconds())

	if runErr != nil {
		result.Succeeded = false
		if result.Err == nil {
			result.Err = runErr
		}
		a.logger.Debug("captured command failed", map[string]interface{}{"command": command, "error": runErr.Error()})
		a.conversation.Append(domain.RoleSystem, fmt.Sprintf(domain.MsgCommandFailed, runErr.Error()))
		return result
	}

	output := result.Output()
	a.conversation.Append(domain.RoleSystem, fmt.Sprintf(domain.MsgOutputFormat, output))
	if a.autoContinue {
		a.afterFunc(a.delay, func() {
			a.sink.Post(domain.AutoContinueEvent(output))
		})
	}
	return result
}

func (a *Adapter) fail(result domain.ExecutionResult, err error) domain.ExecutionResult {
	result.Succeeded = false
	result.Err = err
	result.DurationMS = time.Since(result.StartedAt).Milliseconds()
	a.metrics.ObserveExecution(result.Mode, false, time.Since(result.StartedAt).Seconds())
	a.logger.Warn("command execution failed", map[string]interface{}{"command": result.Command, "error": err.Error()})
	a.conversation.Append(domain.RoleSystem, fmt.Sprintf(domain.MsgExecutionFailed, err.Error()))
	a.sink.Post(domain.NotifyEvent(domain.NotifyError, "Command execution failed: "+err.Error()))
	return result
}

// ChangeDirCommand renders the cd line sent to the terminal before every command.
func ChangeDirCommand(root string) string {
	return fmt.Sprintf(`cd "%s"`, strings.ReplaceAll(root, `"`, `\"`))
}

var _ ports.CommandExecutor = (*Adapter)(nil)
