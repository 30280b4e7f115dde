package events

// Updateable describes a type with one method per ordered per-step
// phase. No type in this module implements it: the Space pump
// announces each phase through Dispatcher subscriptions instead, which
// is how the character controller hooks BeforeSolver and
// BeforePositionUpdate.
type Updateable interface {
	BeforeSolver(dt float32)
	BeforePositionUpdate(dt float32)
	EndOfTimeStep(dt float32)
}

// PairEvent is a self/other pair payload. The narrow phase dispatches
// its pair events with narrowphase.PairEventPayload instead; no code in
// this module delivers a PairEvent.
type PairEvent struct {
	// Self is the id of the collidable the callback was subscribed
	// under; Other is the collidable on the far end of the pair.
	Self  interface{}
	Other interface{}
}
