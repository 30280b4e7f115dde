// Package events implements the kernel's synchronous event dispatch:
// per-collidable pair-lifecycle hooks and the Space's ordered update
// phases. Delivery happens in-line within the phase boundary that
// raised the event; handlers must not re-enter the solver.
package events

// Name identifies an event kind dispatched by this package.
type Name string

// Collidable event hooks (spec section 6).
const (
	CreatingPair            Name = "CreatingPair"
	PairUpdated             Name = "PairUpdated"
	PairTouching            Name = "PairTouching"
	InitialCollisionDetected Name = "InitialCollisionDetected"
	CollisionEnded           Name = "CollisionEnded"
)

// Space pump phases (spec section 9), run in this order every step.
const (
	BeforeSolver        Name = "BeforeSolver"
	BeforePositionUpdate Name = "BeforePositionUpdate"
	EndOfTimeStep        Name = "EndOfTimeStep"
)

// Callback receives the event name and an event-specific payload.
type Callback func(name Name, payload interface{})

type subscription struct {
	id interface{}
	cb Callback
}

// Dispatcher is a synchronous, subscribe-by-id event bus. Adapted from
// the teacher's core.Dispatcher: a name keyed to an ordered list of
// subscriptions, dispatched in subscription order, with mid-dispatch
// cancellation support.
type Dispatcher struct {
	subs   map[Name][]subscription
	cancel bool
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {

	return &Dispatcher{subs: make(map[Name][]subscription)}
}

// Subscribe registers cb for name with no id, meaning it can never be
// individually unsubscribed (only ClearSubscriptions removes it).
func (d *Dispatcher) Subscribe(name Name, cb Callback) {

	d.SubscribeID(name, nil, cb)
}

// SubscribeID registers cb for name under id, so it can later be
// removed with UnsubscribeID without disturbing other subscribers.
func (d *Dispatcher) SubscribeID(name Name, id interface{}, cb Callback) {

	d.subs[name] = append(d.subs[name], subscription{id: id, cb: cb})
}

// UnsubscribeID removes every subscription registered under id for
// name. Returns the number removed.
func (d *Dispatcher) UnsubscribeID(name Name, id interface{}) int {

	subs, ok := d.subs[name]
	if !ok {
		return 0
	}
	found := 0
	pos := 0
	for pos < len(subs) {
		if subs[pos].id == id {
			copy(subs[pos:], subs[pos+1:])
			subs = subs[:len(subs)-1]
			found++
		} else {
			pos++
		}
	}
	d.subs[name] = subs
	return found
}

// UnsubscribeAllID removes every subscription registered under id,
// across all event names. Used when a collidable is removed from the
// Space, so it deregisters from every hook it ever subscribed to.
func (d *Dispatcher) UnsubscribeAllID(id interface{}) int {

	total := 0
	for name := range d.subs {
		total += d.UnsubscribeID(name, id)
	}
	return total
}

// Dispatch delivers payload to every subscriber of name, in
// subscription order, stopping early if a handler calls
// CancelDispatch. Returns true if dispatch was cancelled.
func (d *Dispatcher) Dispatch(name Name, payload interface{}) bool {

	subs := d.subs[name]
	if len(subs) == 0 {
		return false
	}
	d.cancel = false
	for i := range subs {
		subs[i].cb(name, payload)
		if d.cancel {
			break
		}
	}
	return d.cancel
}

// CancelDispatch stops delivery of the event currently being
// dispatched to any remaining subscribers.
func (d *Dispatcher) CancelDispatch() {

	d.cancel = true
}

// ClearSubscriptions removes every subscription from this dispatcher.
func (d *Dispatcher) ClearSubscriptions() {

	d.subs = make(map[Name][]subscription)
}
