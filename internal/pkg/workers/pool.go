// Package workers provides a bounded slot pool limiting concurrent run execution.
package workers

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Pool caps the number of runs executing at once. Acquire blocks until a
// slot frees up or the caller's context expires, so a request deadline
// bounds queue waiting as well as execution.
type Pool struct {
	slots *semaphore.Weighted
	size  int
}

// NewPool creates a Pool with the given number of slots.
func NewPool(size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("pool size must be at least 1, got %d", size)
	}
	return &Pool{
		slots: semaphore.NewWeighted(int64(size)),
		size:  size,
	}, nil
}

// Size returns the configured slot count.
func (p *Pool) Size() int {
	return p.size
}

// Acquire claims a run slot, blocking until one is available.
func (p *Pool) Acquire(ctx context.Context) error {
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("failed to acquire run slot: %w", err)
	}
	return nil
}

// Release returns a previously acquired slot.
func (p *Pool) Release() {
	p.slots.Release(1)
}
