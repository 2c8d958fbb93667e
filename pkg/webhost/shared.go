package webhost

import (
	"context"
)

// Shared is a handle to a dependency used by many requests at once. Every
// access happens under the handle's lock; a request waiting for the lock
// gives up when its context is done.
//
// The same *Shared is held by the code that registered it and by every
// request that retrieves it, for as long as the host runs.
type Shared[T any] struct {
	sem   chan struct{}
	value T
}

// NewShared wraps v.
func NewShared[T any](v T) *Shared[T] {
	return &Shared[T]{sem: make(chan struct{}, 1), value: v}
}

// Lock waits for exclusive access and returns the value. The caller must
// call Unlock exactly once after a nil error.
func (s *Shared[T]) Lock(ctx context.Context) (T, error) {
	select {
	case s.sem <- struct{}{}:
		return s.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Unlock releases the lock taken by Lock.
func (s *Shared[T]) Unlock() {
	select {
	case <-s.sem:
	default:
		panic("programming error: webhost.Shared unlocked while not locked")
	}
}

// With runs fn with the value under the lock.
func (s *Shared[T]) With(ctx context.Context, fn func(T) error) error {
	v, err := s.Lock(ctx)
	if err != nil {
		return err
	}
	defer s.Unlock()
	return fn(v)
}

// Update replaces the value with the result of fn under the lock. The value
// is left unchanged when fn fails.
func (s *Shared[T]) Update(ctx context.Context, fn func(T) (T, error)) error {
	if _, err := s.Lock(ctx); err != nil {
		return err
	}
	defer s.Unlock()

	next, err := fn(s.value)
	if err != nil {
		return err
	}
	s.value = next
	return nil
}
