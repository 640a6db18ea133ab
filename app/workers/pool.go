package workers

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/semaphore"
)

var ErrPoolClosed = errors.New("worker pool is closed")

// Pool caps how many inference calls run at once so a burst of requests
// cannot pile up unbounded model calls.
type Pool struct {
	mu     sync.RWMutex
	sem    *semaphore.Weighted
	size   int64
	closed bool
}

func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: int64(size)}
}

func (p *Pool) acquire(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	return p.sem.Acquire(ctx, 1)
}

// Close stops admitting calls and waits for in-flight ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	// Holding every slot means nothing is running.
	_ = p.sem.Acquire(context.Background(), p.size)
	log.Println("✅ Worker pool drained")
}

// Run waits for a free slot, then executes fn. A nil pool runs fn inline.
// When ctx ends while waiting the caller gets ctx.Err() and fn never runs.
func Run[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}
	if err := p.acquire(ctx); err != nil {
		var zero T
		return zero, err
	}
	defer p.sem.Release(1)
	return fn(ctx)
}
