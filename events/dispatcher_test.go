package events

import "testing"

func TestDispatchDeliversToSubscribersInOrder(t *testing.T) {

	d := NewDispatcher()
	var order []int

	d.Subscribe(BeforeSolver, func(name Name, payload interface{}) { order = append(order, 1) })
	d.Subscribe(BeforeSolver, func(name Name, payload interface{}) { order = append(order, 2) })
	d.Subscribe(BeforeSolver, func(name Name, payload interface{}) { order = append(order, 3) })

	d.Dispatch(BeforeSolver, nil)

	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
}

// Dispatch to a name with no subscribers is a no-op that reports no
// cancellation.
func TestDispatchWithNoSubscribersIsNoOp(t *testing.T) {

	d := NewDispatcher()
	if cancelled := d.Dispatch(BeforeSolver, nil); cancelled {
		t.Errorf("Dispatch with no subscribers reported cancelled = true")
	}
}

// CancelDispatch stops delivery to any remaining subscribers this
// dispatch round, but later Dispatch calls are unaffected.
func TestCancelDispatchStopsRemainingSubscribers(t *testing.T) {

	d := NewDispatcher()
	var calls []int

	d.Subscribe(BeforeSolver, func(name Name, payload interface{}) {
		calls = append(calls, 1)
		d.CancelDispatch()
	})
	d.Subscribe(BeforeSolver, func(name Name, payload interface{}) { calls = append(calls, 2) })

	cancelled := d.Dispatch(BeforeSolver, nil)
	if !cancelled {
		t.Errorf("Dispatch returned cancelled = false, want true")
	}
	if len(calls) != 1 || calls[0] != 1 {
		t.Errorf("calls = %v, want only the first subscriber to run", calls)
	}

	// A later round starts fresh and is not cancelled by the stale flag.
	calls = nil
	d.Subscribe(BeforePositionUpdate, func(name Name, payload interface{}) { calls = append(calls, 9) })
	cancelled = d.Dispatch(BeforePositionUpdate, nil)
	if cancelled {
		t.Errorf("second round falsely reported cancelled = true")
	}
	if len(calls) != 1 {
		t.Errorf("calls = %v, want the BeforePositionUpdate subscriber to run", calls)
	}
}

// UnsubscribeID removes only the subscriptions registered under that
// id for that name, leaving others (including the same id under a
// different name) untouched.
func TestUnsubscribeIDRemovesOnlyMatchingName(t *testing.T) {

	d := NewDispatcher()
	id := "body-1"
	calls := 0

	d.SubscribeID(BeforeSolver, id, func(name Name, payload interface{}) { calls++ })
	d.SubscribeID(BeforePositionUpdate, id, func(name Name, payload interface{}) { calls++ })

	removed := d.UnsubscribeID(BeforeSolver, id)
	if removed != 1 {
		t.Fatalf("UnsubscribeID removed %d, want 1", removed)
	}

	d.Dispatch(BeforeSolver, nil)
	d.Dispatch(BeforePositionUpdate, nil)

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (only the BeforePositionUpdate subscription should remain)", calls)
	}
}

// UnsubscribeAllID removes every subscription under id across every
// event name.
func TestUnsubscribeAllIDRemovesAcrossNames(t *testing.T) {

	d := NewDispatcher()
	id := "body-1"
	calls := 0

	d.SubscribeID(BeforeSolver, id, func(name Name, payload interface{}) { calls++ })
	d.SubscribeID(BeforePositionUpdate, id, func(name Name, payload interface{}) { calls++ })
	d.SubscribeID(EndOfTimeStep, "other", func(name Name, payload interface{}) { calls++ })

	removed := d.UnsubscribeAllID(id)
	if removed != 2 {
		t.Fatalf("UnsubscribeAllID removed %d, want 2", removed)
	}

	d.Dispatch(BeforeSolver, nil)
	d.Dispatch(BeforePositionUpdate, nil)
	d.Dispatch(EndOfTimeStep, nil)

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (only the unrelated \"other\" subscription should remain)", calls)
	}
}

func TestClearSubscriptionsRemovesEverything(t *testing.T) {

	d := NewDispatcher()
	calls := 0
	d.Subscribe(BeforeSolver, func(name Name, payload interface{}) { calls++ })

	d.ClearSubscriptions()
	d.Dispatch(BeforeSolver, nil)

	if calls != 0 {
		t.Errorf("calls = %d, want 0 after ClearSubscriptions", calls)
	}
}
