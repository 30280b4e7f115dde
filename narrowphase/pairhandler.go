package narrowphase

import "github.com/anomalousmedical/rigidphysics/events"

// PairState is the lifecycle of a candidate pair emitted by the broad
// phase, per spec section 4.C-D: a pair starts Unassigned, becomes
// Initialized once narrow-phase resources exist for it, then toggles
// between Touching and Separated as contacts come and go each tick,
// and finally moves to Cleaning when the broad phase stops reporting
// the pair at all.
type PairState int

const (
	Unassigned PairState = iota
	Initialized
	Touching
	Separated
	Cleaning
)

// Pair is the narrow-phase's per-candidate-pair record: the two
// shapes/poses under test, its manifold, and its lifecycle state.
// Identity for event dispatch purposes is the pair's two body IDs.
type Pair struct {
	IDA, IDB uint64

	ShapeA Shape
	ShapeB Shape

	State    PairState
	Manifold Manifold

	dispatcher *events.Dispatcher
}

// NewPair creates a pair in the Unassigned state. dispatcher may be
// nil, in which case lifecycle transitions are silent.
func NewPair(idA, idB uint64, shapeA, shapeB Shape, dispatcher *events.Dispatcher) *Pair {

	return &Pair{IDA: idA, IDB: idB, ShapeA: shapeA, ShapeB: shapeB, dispatcher: dispatcher}
}

// Initialize transitions an Unassigned pair to Initialized; the
// manifold is embedded in the Pair and needs no allocation. A no-op if
// the pair has already been initialized.
func (p *Pair) Initialize() {

	if p.State != Unassigned {
		return
	}
	p.State = Initialized
}

// UpdateCollision runs narrow-phase contact generation for one tick
// and advances the pair's lifecycle state, firing InitialCollisionDetected
// when contacts first appear and CollisionEnded when they disappear.
func (p *Pair) UpdateCollision(poseA, poseB Pose) {

	if p.State == Unassigned {
		p.Initialize()
	}

	fresh := Generate(p.ShapeA, poseA, p.ShapeB, poseB)
	wasTouching := p.State == Touching

	if len(fresh) == 0 {
		p.Manifold = Manifold{}
		if wasTouching {
			p.State = Separated
			p.dispatch(events.CollisionEnded)
		}
		return
	}

	p.Manifold.Merge(fresh)
	p.State = Touching
	if !wasTouching {
		p.dispatch(events.InitialCollisionDetected)
	}
	p.dispatch(events.PairUpdated)
}

// CleanUp marks the pair for removal. The broad phase no longer
// reports this pair as a candidate (the bodies' AABBs separated by
// more than the broad phase's margin), so any remaining contacts end.
func (p *Pair) CleanUp() {

	if p.State == Touching {
		p.dispatch(events.CollisionEnded)
	}
	p.State = Cleaning
}

func (p *Pair) dispatch(name events.Name) {

	if p.dispatcher == nil {
		return
	}
	p.dispatcher.Dispatch(name, PairEventPayload{IDA: p.IDA, IDB: p.IDB, Manifold: &p.Manifold})
}

// PairEventPayload is the payload events.Dispatcher delivers for the
// pair lifecycle events (CreatingPair, PairUpdated, PairTouching,
// InitialCollisionDetected, CollisionEnded).
type PairEventPayload struct {
	IDA, IDB uint64
	Manifold *Manifold
}
