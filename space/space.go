package space

import (
	"github.com/anomalousmedical/rigidphysics/body"
	"github.com/anomalousmedical/rigidphysics/broadphase"
	"github.com/anomalousmedical/rigidphysics/config"
	"github.com/anomalousmedical/rigidphysics/constraint"
	"github.com/anomalousmedical/rigidphysics/events"
	"github.com/anomalousmedical/rigidphysics/logging"
	"github.com/anomalousmedical/rigidphysics/math32"
	"github.com/anomalousmedical/rigidphysics/narrowphase"
	"github.com/anomalousmedical/rigidphysics/parallel"
	"github.com/anomalousmedical/rigidphysics/solver"
)

type pairKey struct{ a, b uint64 }

func orderedPairKey(a, b uint64) pairKey {

	if a < b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// Space is the kernel's root simulation container: it owns every
// object, the broad phase, the narrow-phase pair set, the solver, and
// drives the three-phase event pump every Step (spec section 9).
// Grounded on g3n-engine/physics/simulation.go's Simulation, with
// internalStep's single monolithic pass split into the spec's
// explicit BeforeSolver/BeforePositionUpdate/EndOfTimeStep phases.
type Space struct {
	Gravity math32.Vector3
	Config  *config.WorldConfig

	objects map[uint64]*Object
	nextID  uint64

	broadphase *broadphase.Grid2DSortAndSweep
	pairs      map[pairKey]*narrowphase.Pair

	constraints     map[pairKey]*constraint.ContactManifoldConstraint
	userConstraints []constraint.Constraint

	materials *body.MaterialTable

	Dispatcher *events.Dispatcher

	forLoop parallel.ForLoop
	log     *logging.Logger
}

// New creates a Space using cfg's broad-phase cell size and solver
// iteration counts. A nil forLoop defaults to parallel.Sequential.
func New(cfg *config.WorldConfig, forLoop parallel.ForLoop) *Space {

	if cfg == nil {
		cfg = config.DefaultWorldConfig()
	}
	if forLoop == nil {
		forLoop = parallel.Sequential
	}

	return &Space{
		Gravity:     math32.Vector3{X: 0, Y: -9.81, Z: 0},
		Config:      cfg,
		objects:     make(map[uint64]*Object),
		broadphase:  broadphase.New(cfg.BroadPhaseCellSize, forLoop),
		pairs:       make(map[pairKey]*narrowphase.Pair),
		constraints: make(map[pairKey]*constraint.ContactManifoldConstraint),
		materials:   body.NewMaterialTable(),
		Dispatcher:  events.NewDispatcher(),
		forLoop:     forLoop,
		log:         logging.New("space", logging.Default),
	}
}

// Materials returns the material-override table used to blend contact
// friction/restitution (spec section 4.E).
func (s *Space) Materials() *body.MaterialTable {

	return s.materials
}

// AddObject registers b/shape as a simulated object and returns the
// handle used to remove it later. margin is the broad-phase AABB
// expansion (spec section 4.B: "a fixed collision margin").
func (s *Space) AddObject(b *body.RigidBody, shape narrowphase.Shape, margin float32) *Object {

	s.nextID++
	obj := NewObject(s.nextID, b, shape, margin)
	s.objects[obj.id] = obj
	s.broadphase.Add(obj)
	return obj
}

// RemoveObject deregisters obj from the broad phase and drops any
// pairs/constraints referencing it.
func (s *Space) RemoveObject(obj *Object) {

	s.broadphase.Remove(obj)
	delete(s.objects, obj.id)
	for k, p := range s.pairs {
		if k.a == obj.id || k.b == obj.id {
			p.CleanUp()
			delete(s.pairs, k)
			delete(s.constraints, k)
		}
	}
}

// AddConstraint registers a user-authored constraint (e.g. a
// SingleBoneConstraint) to be solved every step alongside contact
// constraints (spec section 4.F step 1).
func (s *Space) AddConstraint(c constraint.Constraint) {

	s.userConstraints = append(s.userConstraints, c)
}

// RemoveConstraint removes a previously added user constraint.
func (s *Space) RemoveConstraint(c constraint.Constraint) {

	for i, cur := range s.userConstraints {
		if cur == c {
			copy(s.userConstraints[i:], s.userConstraints[i+1:])
			s.userConstraints = s.userConstraints[:len(s.userConstraints)-1]
			return
		}
	}
}

// Object returns the object with the given id, or nil if not found.
func (s *Space) Object(id uint64) *Object {

	return s.objects[id]
}

// PairsInvolving returns every tracked narrow-phase pair referencing
// id, used by the character controller's SupportFinder (spec section
// 4.H) to read contacts without re-running the broad phase.
func (s *Space) PairsInvolving(id uint64) []*narrowphase.Pair {

	var out []*narrowphase.Pair
	for k, p := range s.pairs {
		if k.a == id || k.b == id {
			out = append(out, p)
		}
	}
	return out
}

// RefreshPairs re-runs UpdateCollision for every pair involving id
// against its current pose — used after the character controller
// teleports a body during stepping (spec section 4.H step 7: "re-update
// narrow-phase pairs (their UpdateCollision(dt))").
func (s *Space) RefreshPairs(id uint64) {

	for k, p := range s.pairs {
		if k.a != id && k.b != id {
			continue
		}
		objA, objB := s.objects[k.a], s.objects[k.b]
		if objA == nil || objB == nil {
			continue
		}
		p.UpdateCollision(objA.pose(), objB.pose())
	}
}

// TestPosition generates contacts between obj's shape at a hypothetical
// position (orientation unchanged) and every other current object,
// without mutating any state. Used by the character controller's
// Stepper to probe candidate step positions before committing to a
// teleport (spec section 4.H step 7).
func (s *Space) TestPosition(obj *Object, pos math32.Vector3) []narrowphase.ContactPoint {

	probe := narrowphase.Pose{Position: pos, Orientation: obj.Body.Orientation}
	var contacts []narrowphase.ContactPoint
	for _, other := range s.objects {
		if other.id == obj.id {
			continue
		}
		fresh := narrowphase.Generate(obj.Shape, probe, other.Shape, other.pose())
		contacts = append(contacts, fresh...)
	}
	return contacts
}

// Step advances the simulation by dt: BeforeSolver phase, broad/narrow
// phase, solve, BeforePositionUpdate phase, integrate, EndOfTimeStep
// phase (spec section 9).
func (s *Space) Step(dt float32) {

	s.Dispatcher.Dispatch(events.BeforeSolver, dt)

	candidatePairs := s.broadphase.Update()
	seen := make(map[pairKey]struct{}, len(candidatePairs))

	for _, cp := range candidatePairs {
		objA := cp.A.(*Object)
		objB := cp.B.(*Object)
		key := orderedPairKey(objA.id, objB.id)
		seen[key] = struct{}{}

		pair, ok := s.pairs[key]
		if !ok {
			pair = narrowphase.NewPair(objA.id, objB.id, objA.Shape, objB.Shape, s.Dispatcher)
			s.pairs[key] = pair
		}

		poseA, poseB := objA.pose(), objB.pose()
		wasTouching := pair.State == narrowphase.Touching
		pair.UpdateCollision(poseA, poseB)

		if pair.State == narrowphase.Touching {
			cmc, ok := s.constraints[key]
			if !ok {
				cmc = constraint.NewContactManifoldConstraint(objA.Body, objB.Body, &pair.Manifold, s.materials)
				s.constraints[key] = cmc
			}
			cmc.SetTimeStep(dt)
		} else if wasTouching {
			delete(s.constraints, key)
		}
	}

	// Pairs the broad phase no longer reports have separated past the
	// margin; clean them up (spec section 4.C: CleanUp on state exit).
	for key, pair := range s.pairs {
		if _, ok := seen[key]; !ok {
			pair.CleanUp()
			delete(s.pairs, key)
			delete(s.constraints, key)
		}
	}

	pgs := solver.NewPGS(s.Config.VelocityIterations)
	for _, cmc := range s.constraints {
		pgs.Add(cmc)
	}
	for _, c := range s.userConstraints {
		pgs.Add(c)
	}
	pgs.Solve()

	s.Dispatcher.Dispatch(events.BeforePositionUpdate, dt)

	for _, obj := range s.objects {
		obj.Body.Integrate(dt, &s.Gravity)
	}

	s.Dispatcher.Dispatch(events.EndOfTimeStep, dt)
}
