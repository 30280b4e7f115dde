package character

import (
	"testing"

	"github.com/anomalousmedical/rigidphysics/body"
	"github.com/anomalousmedical/rigidphysics/math32"
)

func unitInertia() *math32.Matrix3 {

	var m math32.Matrix3
	m.Identity()
	return &m
}

// With a flat-up support normal, tangent1/tangent2 span the XZ plane, so
// the constraint drives LinearVelocity.X/.Z toward DesiredVelocity.X/.Z
// and leaves Y untouched (spec section 4.H: "velocity matching on the
// tangent plane of the support normal").
func TestHorizontalMotionConstraintDrivesTowardDesiredVelocity(t *testing.T) {

	mat := body.NewMaterial("char", 0.5, 0)
	bone := body.NewRigidBody(1, unitInertia(), mat)
	bone.LinearVelocity = math32.Vector3{X: 0, Y: -1, Z: 0}

	c := NewHorizontalMotionConstraint(bone)
	c.SetSupport(math32.Vector3{Y: 1})
	c.DesiredVelocity = math32.Vector3{X: 3, Z: -2}

	c.ComputeEffectiveMass()
	c.SolveVelocityIteration()

	if math32.Abs(bone.LinearVelocity.X-3) > 1e-3 {
		t.Errorf("LinearVelocity.X = %v, want ~3", bone.LinearVelocity.X)
	}
	if math32.Abs(bone.LinearVelocity.Z-(-2)) > 1e-3 {
		t.Errorf("LinearVelocity.Z = %v, want ~-2", bone.LinearVelocity.Z)
	}
	if math32.Abs(bone.LinearVelocity.Y-(-1)) > 1e-6 {
		t.Errorf("LinearVelocity.Y = %v, want untouched at -1", bone.LinearVelocity.Y)
	}
}

// SetSupport with the zero vector disables the constraint: a solve pass
// must leave velocity completely unchanged.
func TestHorizontalMotionConstraintInactiveWithoutSupport(t *testing.T) {

	mat := body.NewMaterial("char", 0.5, 0)
	bone := body.NewRigidBody(1, unitInertia(), mat)
	bone.LinearVelocity = math32.Vector3{X: 1, Y: 2, Z: 3}

	c := NewHorizontalMotionConstraint(bone)
	c.SetSupport(math32.Vector3{})
	c.DesiredVelocity = math32.Vector3{X: 100}

	c.ComputeEffectiveMass()
	c.SolveVelocityIteration()

	want := math32.Vector3{X: 1, Y: 2, Z: 3}
	if bone.LinearVelocity != want {
		t.Errorf("LinearVelocity = %v, want unchanged %v", bone.LinearVelocity, want)
	}
}

// A finite MaxImpulse caps the per-iteration accumulated impulse on
// each tangent axis (spec section 8, quantified invariants).
func TestHorizontalMotionConstraintClampsToMaxImpulse(t *testing.T) {

	mat := body.NewMaterial("char", 0.5, 0)
	bone := body.NewRigidBody(1, unitInertia(), mat)

	c := NewHorizontalMotionConstraint(bone)
	c.MaxImpulse = 0.5
	c.SetSupport(math32.Vector3{Y: 1})
	c.DesiredVelocity = math32.Vector3{X: 1000}

	c.ComputeEffectiveMass()
	for i := 0; i < 5; i++ {
		c.SolveVelocityIteration()
	}

	if math32.Abs(c.accum.X) > c.MaxImpulse+1e-3 || math32.Abs(c.accum.Y) > c.MaxImpulse+1e-3 {
		t.Errorf("accumulated impulse = (%v, %v) exceeds MaxImpulse %v", c.accum.X, c.accum.Y, c.MaxImpulse)
	}
}
