package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/pkg/logger"
)

type memHistory struct {
	saved []domain.ExecutionAttempt
}

func (m *memHistory) Save(a domain.ExecutionAttempt) error {
	m.saved = append(m.saved, a)
	return nil
}

func (m *memHistory) Records(int, string) ([]domain.ExecutionAttempt, error) { return m.saved, nil }
func (m *memHistory) Clear() error                                           { m.saved = nil; return nil }

func TestBeginMarksExecutedWithUnknownOutcome(t *testing.T) {
	c := NewCache(nil, logger.Discard())
	c.Begin("npm test", "/work", domain.ModeCaptured)

	entry, ok := c.Lookup("npm test")
	require.True(t, ok)
	assert.True(t, entry.Executed)
	assert.Nil(t, entry.Success)

	_, ok = c.Lookup("npm test ")
	assert.False(t, ok, "lookup is by exact string")
}

func TestCompleteRecordsOutcome(t *testing.T) {
	history := &memHistory{}
	c := NewCache(history, logger.Discard())

	first := c.Begin("npm test", "/work", domain.ModeCaptured)
	c.Complete(first.ID, domain.ExecutionResult{Mode: domain.ModeCaptured, Succeeded: false, ExitCode: 1})
	second := c.Begin("npm test", "/work", domain.ModeCaptured)
	c.Complete(second.ID, domain.ExecutionResult{Mode: domain.ModeCaptured, Succeeded: true})

	entry, ok := c.Lookup("npm test")
	require.True(t, ok)
	require.NotNil(t, entry.Success)
	assert.True(t, *entry.Success)
	assert.Equal(t, 2, entry.Attempts)

	attempts := c.Attempts()
	require.Len(t, attempts, 2)
	assert.False(t, *attempts[0].Success)
	assert.Equal(t, 1, attempts[0].ExitCode)

	// Begin and Complete each forward a record.
	assert.Len(t, history.saved, 4)
	assert.True(t, history.saved[3].Completed)
}

func TestCompleteInteractiveKeepsUnknownSuccess(t *testing.T) {
	c := NewCache(nil, logger.Discard())
	a := c.Begin("python app.py", "/work", domain.ModeInteractive)
	c.Complete(a.ID, domain.ExecutionResult{Mode: domain.ModeInteractive, Succeeded: true})

	attempts := c.Attempts()
	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].Completed)
	assert.Nil(t, attempts[0].Success)
}

func TestCompleteIsIdempotent(t *testing.T) {
	c := NewCache(nil, logger.Discard())
	a := c.Begin("ls", "/work", domain.ModeCaptured)
	c.Complete(a.ID, domain.ExecutionResult{Mode: domain.ModeCaptured, Succeeded: true})
	c.Complete(a.ID, domain.ExecutionResult{Mode: domain.ModeCaptured, Succeeded: false})
	c.Complete("unknown", domain.ExecutionResult{})

	entry, _ := c.Lookup("ls")
	require.NotNil(t, entry.Success)
	assert.True(t, *entry.Success)
}
