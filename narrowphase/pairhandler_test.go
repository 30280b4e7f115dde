package narrowphase

import (
	"testing"

	"github.com/anomalousmedical/rigidphysics/events"
	"github.com/anomalousmedical/rigidphysics/math32"
)

// Pair lifecycle: Unassigned -> Touching on first overlap ->
// Separated on loss of contact, firing InitialCollisionDetected and
// CollisionEnded exactly once each (spec section 4.C-D).
func TestPairLifecycleEvents(t *testing.T) {

	d := events.NewDispatcher()
	var detected, ended, updated int
	d.Subscribe(events.InitialCollisionDetected, func(name events.Name, payload interface{}) { detected++ })
	d.Subscribe(events.CollisionEnded, func(name events.Name, payload interface{}) { ended++ })
	d.Subscribe(events.PairUpdated, func(name events.Name, payload interface{}) { updated++ })

	a := &Sphere{Radius: 1}
	b := &Sphere{Radius: 1}
	pair := NewPair(1, 2, a, b, d)

	if pair.State != Unassigned {
		t.Fatalf("new pair should start Unassigned, got %v", pair.State)
	}

	overlapping := identityPose(math32.Vector3{X: 1.5})
	pair.UpdateCollision(identityPose(math32.Vector3{}), overlapping)
	if pair.State != Touching {
		t.Errorf("state after overlap = %v, want Touching", pair.State)
	}
	if detected != 1 {
		t.Errorf("InitialCollisionDetected fired %d times, want 1", detected)
	}
	if updated != 1 {
		t.Errorf("PairUpdated fired %d times, want 1", updated)
	}

	// Still overlapping next tick: no second InitialCollisionDetected.
	pair.UpdateCollision(identityPose(math32.Vector3{}), overlapping)
	if detected != 1 {
		t.Errorf("InitialCollisionDetected re-fired on a still-touching pair: count=%d", detected)
	}

	separated := identityPose(math32.Vector3{X: 50})
	pair.UpdateCollision(identityPose(math32.Vector3{}), separated)
	if pair.State != Separated {
		t.Errorf("state after separating = %v, want Separated", pair.State)
	}
	if ended != 1 {
		t.Errorf("CollisionEnded fired %d times, want 1", ended)
	}
}

func TestPairCleanUpFiresCollisionEndedIfTouching(t *testing.T) {

	d := events.NewDispatcher()
	var ended int
	d.Subscribe(events.CollisionEnded, func(name events.Name, payload interface{}) { ended++ })

	a := &Sphere{Radius: 1}
	b := &Sphere{Radius: 1}
	pair := NewPair(1, 2, a, b, d)
	pair.UpdateCollision(identityPose(math32.Vector3{}), identityPose(math32.Vector3{X: 1.5}))

	pair.CleanUp()
	if ended != 1 {
		t.Errorf("CleanUp on a touching pair should fire CollisionEnded once, got %d", ended)
	}
	if pair.State != Cleaning {
		t.Errorf("state after CleanUp = %v, want Cleaning", pair.State)
	}
}
