// Package async provides the deferred inputs and completion signals used by
// the registry's non-blocking operations.
//
// A Deferred produces its value only when the operation consuming it runs,
// so callers can hand over work whose input is not known yet. A Completion
// reports the eventual outcome of an operation that was started without
// blocking the caller.
package async

import (
	"context"
	"sync"
)

// Deferred lazily produces a value. It is invoked at most once per
// operation that consumes it.
type Deferred[T any] func(ctx context.Context) (T, error)

// Just returns a Deferred that yields v.
func Just[T any](v T) Deferred[T] {
	return func(context.Context) (T, error) {
		return v, nil
	}
}

// Fail returns a Deferred that always fails with err.
func Fail[T any](err error) Deferred[T] {
	return func(context.Context) (T, error) {
		var zero T
		return zero, err
	}
}

// Resolve invokes d, treating a nil Deferred as a zero value.
func (d Deferred[T]) Resolve(ctx context.Context) (T, error) {
	if d == nil {
		var zero T
		return zero, nil
	}
	return d(ctx)
}

// Completion signals that an asynchronous operation finished, successfully
// or not. It carries no payload.
type Completion struct {
	done chan struct{}
	once sync.Once
	err  error
}

// NewCompletion returns a pending completion.
func NewCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Completed returns a completion that has already finished with err.
func Completed(err error) *Completion {
	c := NewCompletion()
	c.Complete(err)
	return c
}

// Go runs fn on its own goroutine and completes with its result.
func Go(ctx context.Context, fn func(ctx context.Context) error) *Completion {
	c := NewCompletion()
	go func() {
		c.Complete(fn(ctx))
	}()
	return c
}

// Complete finishes the completion. Only the first call has an effect.
func (c *Completion) Complete(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// Done is closed once the operation has finished.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Err returns the operation's error. It returns nil while the operation is
// still pending; check Done first.
func (c *Completion) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Wait blocks until the operation finishes or ctx is done. Giving up on ctx
// does not cancel the operation itself.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
