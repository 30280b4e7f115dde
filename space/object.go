// Package space implements the kernel's root Simulation container:
// ownership of every body, the broad/narrow phase pipeline, the
// solver, and the three-phase event pump (spec section 9). Grounded
// on g3n-engine/physics/simulation.go's Simulation for the overall
// responsibility split (AddBody/RemoveBody/AddConstraint/AddMaterial/
// Step/internalStep), generalized from its single-phase internalStep
// into the spec's explicit BeforeSolver/BeforePositionUpdate/
// EndOfTimeStep pump.
package space

import (
	"github.com/anomalousmedical/rigidphysics/body"
	"github.com/anomalousmedical/rigidphysics/broadphase"
	"github.com/anomalousmedical/rigidphysics/math32"
	"github.com/anomalousmedical/rigidphysics/narrowphase"
)

// Object is one simulated entity: a rigid body plus the collision
// shape and margin the broad/narrow phase use. Identity for broad
// phase and pair bookkeeping is ID.
type Object struct {
	id              uint64
	Body            *body.RigidBody
	Shape           narrowphase.Shape
	CollisionMargin float32

	// Group and Mask implement the same collide-if-any-bit-shared rule
	// as the teacher's collision matrix, generalized to a bitmask so
	// callers can partition bodies into layers (spec section 3 leaves
	// the exact filtering policy to the implementer).
	Group uint32
	Mask  uint32
}

// NewObject creates an Object with the default group/mask (collides
// with everything).
func NewObject(id uint64, b *body.RigidBody, shape narrowphase.Shape, margin float32) *Object {

	return &Object{id: id, Body: b, Shape: shape, CollisionMargin: margin, Group: 1, Mask: 0xFFFFFFFF}
}

// ID implements broadphase.Collidable.
func (o *Object) ID() uint64 {

	return o.id
}

// AABB implements broadphase.Collidable.
func (o *Object) AABB() *math32.Box3 {

	box := narrowphase.WorldAABB(o.Shape, &o.Body.Position, &o.Body.Orientation, o.CollisionMargin)
	return &box
}

// Sleeping implements broadphase.Collidable.
func (o *Object) Sleeping() bool {

	return !o.Body.Active
}

// CollidableWith implements broadphase.Collidable: two objects can
// collide if their group/mask bits intersect and at least one side has
// finite mass (two static/kinematic bodies never need testing).
func (o *Object) CollidableWith(other broadphase.Collidable) bool {

	otherObj, ok := other.(*Object)
	if !ok {
		return true
	}
	if o.Group&otherObj.Mask == 0 && otherObj.Group&o.Mask == 0 {
		return false
	}
	if o.Body.InverseMass == 0 && otherObj.Body.InverseMass == 0 {
		return false
	}
	return true
}

func (o *Object) pose() narrowphase.Pose {

	return narrowphase.Pose{Position: o.Body.Position, Orientation: o.Body.Orientation}
}
