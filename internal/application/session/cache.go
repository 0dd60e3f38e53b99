// Package session keeps the per-session record of executed commands.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

// Cache is an append-only log of execution attempts with a per-command index.
// Completed attempts are forwarded to the history repository when one is configured.
type Cache struct {
	mu        sync.Mutex
	attempts  []domain.ExecutionAttempt
	byID      map[string]int
	byCommand map[string][]int

	history ports.HistoryRepository
	logger  ports.Logger
	now     func() time.Time
}

// NewCache creates an empty cache. history may be nil.
func NewCache(history ports.HistoryRepository, logger ports.Logger) *Cache {
	return &Cache{
		byID:      make(map[string]int),
		byCommand: make(map[string][]int),
		history:   history,
		logger:    logger,
		now:       time.Now,
	}
}

// Begin implements ports.SessionCache. The command counts as executed from this point on,
// with an unknown outcome.
func (c *Cache) Begin(command string, workspace string, mode domain.ExecutionMode) domain.ExecutionAttempt {
	attempt := domain.ExecutionAttempt{
		ID:        uuid.NewString(),
		Command:   command,
		Workspace: workspace,
		Mode:      mode,
		StartedAt: c.now(),
	}

	c.mu.Lock()
	idx := len(c.attempts)
	c.attempts = append(c.attempts, attempt)
	c.byID[attempt.ID] = idx
	c.byCommand[command] = append(c.byCommand[command], idx)
	c.mu.Unlock()

	c.persist(attempt)
	return attempt
}

// Complete implements ports.SessionCache. Interactive results keep a nil Success because
// the exit status is never observed. Completing an unknown or finished attempt is a no-op.
func (c *Cache) Complete(id string, result domain.ExecutionResult) {
	c.mu.Lock()
	idx, ok := c.byID[id]
	if !ok || c.attempts[idx].Completed {
		c.mu.Unlock()
		return
	}
	attempt := c.attempts[idx]
	attempt.Completed = true
	attempt.DurationMS = result.DurationMS
	if result.Mode != "" {
		attempt.Mode = result.Mode
	}
	if attempt.Mode == domain.ModeCaptured {
		ok := result.Succeeded
		attempt.Success = &ok
		attempt.ExitCode = result.ExitCode
	}
	c.attempts[idx] = attempt
	c.mu.Unlock()

	c.persist(attempt)
}

// Lookup implements ports.SessionCache. The entry reflects the most recent attempt.
func (c *Cache) Lookup(command string) (domain.SessionCacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idxs := c.byCommand[command]
	if len(idxs) == 0 {
		return domain.SessionCacheEntry{}, false
	}
	last := c.attempts[idxs[len(idxs)-1]]
	entry := domain.SessionCacheEntry{Executed: true, Attempts: len(idxs)}
	if last.Success != nil {
		v := *last.Success
		entry.Success = &v
	}
	return entry, true
}

// Attempts implements ports.SessionCache and returns a copy of the log in order.
func (c *Cache) Attempts() []domain.ExecutionAttempt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ExecutionAttempt(nil), c.attempts...)
}

func (c *Cache) persist(attempt domain.ExecutionAttempt) {
	if c.history == nil {
		return
	}
	if err := c.history.Save(attempt); err != nil {
		c.logger.Warn("history save failed", map[string]interface{}{"command": attempt.Command, "error": err.Error()})
	}
}

var _ ports.SessionCache = (*Cache)(nil)
