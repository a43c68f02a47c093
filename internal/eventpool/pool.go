// Package eventpool provides a generic, type-safe allocation pool used
// to recycle the scheduler's internal event-queue nodes.
package eventpool

import "sync"

// Pool recycles values of a single type T via sync.Pool.
type Pool[T any] struct {
	pool sync.Pool
}

// New constructs a Pool whose elements are produced by newFn when the
// pool is empty.
func New[T any](newFn func() T) *Pool[T] {
	return &Pool[T]{pool: sync.Pool{New: func() any { return newFn() }}}
}

// Get returns a recycled or freshly allocated value.
func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put returns v to the pool for reuse. Callers must clear any references
// held by v before returning it.
func (p *Pool[T]) Put(v T) {
	p.pool.Put(v)
}
