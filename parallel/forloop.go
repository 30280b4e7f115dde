// Package parallel provides the parallel-for abstraction the kernel
// dispatches broad-phase and solver-island work through. Callers that
// already run their own worker pool can substitute a ForLoop of their
// own; WorkStealingPool is the default used when none is supplied.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// ForLoop runs body(i) for every i in [start, end), not necessarily in
// order, and returns only once every call has completed.
type ForLoop func(start, end int, body func(i int))

// Sequential runs the loop on the calling goroutine. Useful for tests
// that need deterministic single-threaded ordering.
func Sequential(start, end int, body func(i int)) {

	for i := start; i < end; i++ {
		body(i)
	}
}

// WorkStealingPool is a ForLoop backed by a fixed set of worker
// goroutines that pull indices from a shared counter, avoiding the
// fixed even split a naive chunked split would impose on uneven
// per-index cost (a cell with many entries vs. an empty one).
type WorkStealingPool struct {
	workers int
}

// NewWorkStealingPool creates a pool with the given worker count. A
// workers value <= 0 defaults to runtime.GOMAXPROCS(0).
func NewWorkStealingPool(workers int) *WorkStealingPool {

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &WorkStealingPool{workers: workers}
}

// Run implements ForLoop.
func (p *WorkStealingPool) Run(start, end int, body func(i int)) {

	n := end - start
	if n <= 0 {
		return
	}
	workers := p.workers
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		Sequential(start, end, body)
		return
	}

	next := int64(start)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := atomic.AddInt64(&next, 1) - 1
				if i >= int64(end) {
					return
				}
				body(int(i))
			}
		}()
	}
	wg.Wait()
}
