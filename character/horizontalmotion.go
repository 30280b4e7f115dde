package character

import (
	"github.com/anomalousmedical/rigidphysics/body"
	"github.com/anomalousmedical/rigidphysics/math32"
)

// HorizontalMotionConstraint drives a character's planar velocity
// toward a caller-supplied desired velocity, projected onto the plane
// of the current support normal (spec section 4.H: "a
// HorizontalMotionConstraint that drives planar motion against the
// ground"). It satisfies constraint.Constraint so it can be added to
// the Space's solver alongside contact constraints.
//
// SupportData must be refreshed once per step before the solve runs
// (spec step 9: "Hand off supportData to HorizontalMotionConstraint —
// not thread-safe — must happen outside the solver island step").
type HorizontalMotionConstraint struct {
	Bone *body.RigidBody

	// DesiredVelocity is the world-space horizontal velocity the
	// character wants to move at, set by the controller each step from
	// input.
	DesiredVelocity math32.Vector3

	// SupportNormal is the plane the desired velocity is projected
	// onto; the zero vector (no support) disables the constraint for
	// this step.
	SupportNormal math32.Vector3

	MaxImpulse float32

	mass1, mass2       float32
	tangent1, tangent2 math32.Vector3
	accum              math32.Vector3
	active             bool
}

// NewHorizontalMotionConstraint creates a constraint with no active
// support; call SetSupport each step before solving.
func NewHorizontalMotionConstraint(bone *body.RigidBody) *HorizontalMotionConstraint {

	return &HorizontalMotionConstraint{Bone: bone, MaxImpulse: math32.Infinity}
}

// SetSupport updates the constraint's ground plane for this step. A
// zero normal disables the constraint (no support this step).
func (c *HorizontalMotionConstraint) SetSupport(normal math32.Vector3) {

	c.SupportNormal = normal
	c.active = normal.LengthSq() > 1e-8
}

// ComputeEffectiveMass builds the two-axis effective mass for the
// tangent plane of SupportNormal.
func (c *HorizontalMotionConstraint) ComputeEffectiveMass() {

	if !c.active {
		return
	}
	c.tangent1, c.tangent2 = tangentBasisOf(&c.SupportNormal)
	if c.Bone.EffectiveInverseMass() > 0 {
		c.mass1 = 1 / c.Bone.EffectiveInverseMass()
		c.mass2 = c.mass1
	}
}

// WarmStart re-applies the carried-over accumulated impulse.
func (c *HorizontalMotionConstraint) WarmStart() {

	if !c.active {
		return
	}
	c.applyImpulse(c.accum.X, c.accum.Y)
}

// SolveVelocityIteration drives the body's horizontal velocity toward
// DesiredVelocity within MaxImpulse, one PGS pass.
func (c *HorizontalMotionConstraint) SolveVelocityIteration() {

	if !c.active {
		return
	}

	invMass := c.Bone.EffectiveInverseMass()
	if invMass == 0 {
		return
	}

	var desired1, desired2, current1, current2 float32
	desired1 = c.DesiredVelocity.Dot(&c.tangent1)
	desired2 = c.DesiredVelocity.Dot(&c.tangent2)
	current1 = c.Bone.LinearVelocity.Dot(&c.tangent1)
	current2 = c.Bone.LinearVelocity.Dot(&c.tangent2)

	lambda1 := (desired1 - current1) / invMass
	lambda2 := (desired2 - current2) / invMass

	newAccum1 := clampScalar(c.accum.X+lambda1, -c.MaxImpulse, c.MaxImpulse)
	newAccum2 := clampScalar(c.accum.Y+lambda2, -c.MaxImpulse, c.MaxImpulse)

	delta1 := newAccum1 - c.accum.X
	delta2 := newAccum2 - c.accum.Y
	c.accum.X, c.accum.Y = newAccum1, newAccum2

	c.applyImpulse(delta1, delta2)
}

func (c *HorizontalMotionConstraint) applyImpulse(delta1, delta2 float32) {

	var impulse math32.Vector3
	impulse.Copy(&c.tangent1).MultiplyScalar(delta1)
	impulse.AddScaledVector(&c.tangent2, delta2)
	c.Bone.LinearVelocity.AddScaledVector(&impulse, c.Bone.EffectiveInverseMass())
}

// ClearAccumulatedImpulses resets the warm-start state.
func (c *HorizontalMotionConstraint) ClearAccumulatedImpulses() {

	c.accum = math32.Vector3{}
}

func clampScalar(v, min, max float32) float32 {

	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func tangentBasisOf(normal *math32.Vector3) (t1, t2 math32.Vector3) {

	up := math32.Vector3{X: 0, Y: 1, Z: 0}
	if math32.Abs(normal.Dot(&up)) > 0.99 {
		up = math32.Vector3{X: 1, Y: 0, Z: 0}
	}
	t1.CrossVectors(&up, normal)
	t1.Normalize()
	t2.CrossVectors(normal, &t1)
	t2.Normalize()
	return
}
