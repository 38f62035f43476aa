package pipeline

import (
	"context"
	"errors"
	"fmt"
)

var errInvalidConcurrency = errors.New("concurrency must be at least 1")

// Limiter is a permit semaphore bounding simultaneous assessments.
// The permit count is fixed for the lifetime of one pipeline run.
type Limiter struct {
	permits chan struct{}
}

// NewLimiter creates a limiter with n permits. n < 1 is a construction error.
func NewLimiter(n int) (*Limiter, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", errInvalidConcurrency, n)
	}

	return &Limiter{permits: make(chan struct{}, n)}, nil
}

// Acquire blocks until a permit is available or the context finishes.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.permits <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("acquire permit: %w", ctx.Err())
	}
}

// Release returns a permit, unblocking one waiter if any.
func (l *Limiter) Release() {
	select {
	case <-l.permits:
	default:
		panic("pipeline: Release without matching Acquire")
	}
}

// InUse returns the number of permits currently held.
func (l *Limiter) InUse() int {
	return len(l.permits)
}

// Cap returns the total permit count.
func (l *Limiter) Cap() int {
	return cap(l.permits)
}
