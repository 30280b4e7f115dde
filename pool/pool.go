// Package pool provides a grow-on-demand free-list for reusing
// allocations such as manifolds, contacts, and constraints, avoiding
// per-step garbage for the common case of a stable pair count across
// frames. The other packages of this module do not use it.
package pool

// Pool is a trivial free-list of *T. It is not safe for concurrent
// use from multiple goroutines without external locking — the same
// single-threaded-access assumption the source's UnsafeResourcePool
// makes; callers that dispatch pool access across a parallel-for must
// give each worker its own Pool or serialize access themselves.
type Pool[T any] struct {
	new   func() *T
	reset func(*T)
	free  []*T
}

// New creates a Pool. newFn allocates a fresh *T when the free list is
// empty; resetFn (may be nil) clears a *T's fields before it is
// handed back out by Get.
func New[T any](newFn func() *T, resetFn func(*T)) *Pool[T] {

	return &Pool[T]{new: newFn, reset: resetFn}
}

// Get returns an item from the free list, allocating a new one if the
// list is empty. The pool grows on demand and is never bounded; out
// of memory is an allocator-layer failure, not this package's concern.
func (p *Pool[T]) Get() *T {

	n := len(p.free)
	if n == 0 {
		return p.new()
	}
	item := p.free[n-1]
	p.free = p.free[:n-1]
	if p.reset != nil {
		p.reset(item)
	}
	return item
}

// Put returns an item to the free list for reuse.
func (p *Pool[T]) Put(item *T) {

	p.free = append(p.free, item)
}

// Len returns the number of items currently held in reserve.
func (p *Pool[T]) Len() int {

	return len(p.free)
}
