// Package workqueue serializes work per key (a workspace root) so that captured commands and
// checkpoint operations never interleave against the same working tree.
package workqueue

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Queue runs at most one function per key at a time, in arrival order of acquisition.
type Queue struct {
	mu    sync.Mutex
	slots map[string]*semaphore.Weighted
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{slots: make(map[string]*semaphore.Weighted)}
}

// Do waits for the key's slot, runs fn and releases the slot. It returns ctx.Err() if the
// context is cancelled while waiting; fn itself is never interrupted.
func (q *Queue) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	sem := q.slot(key)
	if err := sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer sem.Release(1)
	return fn(ctx)
}

// Busy reports whether work is currently running for key.
func (q *Queue) Busy(key string) bool {
	sem := q.slot(key)
	if sem.TryAcquire(1) {
		sem.Release(1)
		return false
	}
	return true
}

func (q *Queue) slot(key string) *semaphore.Weighted {
	key = filepath.Clean(key)
	q.mu.Lock()
	defer q.mu.Unlock()
	sem, ok := q.slots[key]
	if !ok {
		sem = semaphore.NewWeighted(1)
		q.slots[key] = sem
	}
	return sem
}
