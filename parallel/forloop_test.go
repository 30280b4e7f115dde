package parallel

import (
	"sort"
	"sync"
	"testing"
)

func TestSequentialRunsEveryIndexInOrder(t *testing.T) {

	var got []int
	Sequential(3, 8, func(i int) { got = append(got, i) })

	want := []int{3, 4, 5, 6, 7}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSequentialEmptyRangeIsNoOp(t *testing.T) {

	calls := 0
	Sequential(5, 5, func(i int) { calls++ })
	if calls != 0 {
		t.Errorf("calls = %d, want 0 for an empty range", calls)
	}
}

// WorkStealingPool.Run visits every index in [start, end) exactly once,
// regardless of worker count or scheduling order.
func TestWorkStealingPoolVisitsEveryIndexExactlyOnce(t *testing.T) {

	pool := NewWorkStealingPool(4)

	var mu sync.Mutex
	var got []int
	pool.Run(10, 30, func(i int) {
		mu.Lock()
		got = append(got, i)
		mu.Unlock()
	})

	if len(got) != 20 {
		t.Fatalf("visited %d indices, want 20", len(got))
	}
	sort.Ints(got)
	for i, v := range got {
		if v != 10+i {
			t.Fatalf("got[%d] = %d, want %d (missing or duplicate index)", i, v, 10+i)
		}
	}
}

func TestWorkStealingPoolEmptyRangeIsNoOp(t *testing.T) {

	pool := NewWorkStealingPool(4)
	calls := 0
	pool.Run(5, 5, func(i int) { calls++ })
	if calls != 0 {
		t.Errorf("calls = %d, want 0 for an empty range", calls)
	}
}

// A non-positive worker count falls back to GOMAXPROCS rather than
// leaving the pool unable to run anything.
func TestNewWorkStealingPoolDefaultsNonPositiveWorkers(t *testing.T) {

	pool := NewWorkStealingPool(0)
	if pool.workers <= 0 {
		t.Errorf("workers = %d, want a positive default", pool.workers)
	}
}
