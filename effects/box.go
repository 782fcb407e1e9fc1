package effects

import "sync"

// Box is a shared mutable cell. It gives a closure-captured value a
// single identity across effect boundaries: every closure holding the
// same Box observes every update, regardless of which side of a handler
// frame the update happened on.
type Box[T any] struct {
	mu sync.Mutex
	v  T
}

// NewBox returns a Box holding v.
func NewBox[T any](v T) *Box[T] {
	return &Box[T]{v: v}
}

// Get returns the current value.
func (b *Box[T]) Get() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.v
}

// Set replaces the current value.
func (b *Box[T]) Set(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.v = v
}

// Update applies fn to the current value under the lock and returns the
// new value.
func (b *Box[T]) Update(fn func(T) T) T {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.v = fn(b.v)
	return b.v
}
