// Package oneshot provides a value that can be written once and awaited by
// any number of readers.
package oneshot

import (
	"context"
	"sync"
)

// Cell holds a value that moves from pending to settled exactly once.
// Settle may be called from any goroutine; only the first call has effect.
type Cell[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
}

// New returns a pending cell.
func New[T any]() *Cell[T] {
	return &Cell[T]{done: make(chan struct{})}
}

// Settle stores v if the cell is still pending and reports whether it did.
func (c *Cell[T]) Settle(v T) bool {
	settled := false
	c.once.Do(func() {
		c.value = v
		close(c.done)
		settled = true
	})
	return settled
}

// Done is closed once the cell settles.
func (c *Cell[T]) Done() <-chan struct{} {
	return c.done
}

// Peek returns the settled value without blocking.
func (c *Cell[T]) Peek() (T, bool) {
	select {
	case <-c.done:
		return c.value, true
	default:
		var zero T
		return zero, false
	}
}

// Wait blocks until the cell settles or ctx is done.
func (c *Cell[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		return c.value, nil
	case <-ctx.Done():
		// Prefer a value that raced with cancellation.
		if v, ok := c.Peek(); ok {
			return v, nil
		}
		var zero T
		return zero, ctx.Err()
	}
}
