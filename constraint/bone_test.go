package constraint

import (
	"testing"

	"github.com/anomalousmedical/rigidphysics/body"
	"github.com/anomalousmedical/rigidphysics/math32"
)

// Post-solve, |lambda_accum| <= maxImpulse within float epsilon (spec
// section 8, quantified invariants; also exercises the spec's
// corrected rescale-clamp decision for the source's algebraically
// inconsistent clamp formula).
func TestSingleBoneConstraintClampsAccumulatedImpulse(t *testing.T) {

	mat := body.NewMaterial("bone", 0.3, 0)
	bone := body.NewRigidBody(1, unitInertia(), mat)
	bone.LinearVelocity = math32.Vector3{X: 50, Y: -30, Z: 10}

	c := NewSingleBoneConstraint(bone)
	c.SetMaxImpulse(2)
	c.LinearError = math32.Vector3{X: 5, Y: 5, Z: 5}
	c.ErrorCorrection = 1

	for i := 0; i < 20; i++ {
		c.ComputeEffectiveMass()
		c.SolveVelocityIteration()

		mag := math32.Sqrt(c.AccumulatedImpulse.Dot(&c.AccumulatedImpulse))
		if mag > c.MaxImpulse+1e-3 {
			t.Fatalf("iteration %d: |accumulated impulse| = %v exceeds maxImpulse %v", i, mag, c.MaxImpulse)
		}
	}
}

// WarmStart applies m^-1 * Jl^T * lambda_accum, the transpose of the
// linear Jacobian (spec section 4.E), not Jl itself. A non-identity,
// non-symmetric Jl — the kind the type's own doc comment invites for
// articulation types beyond the simple point-pull case — is the only
// way to tell the two apart; an identity Jl can't catch a missing
// transpose since it is its own transpose.
func TestSingleBoneConstraintWarmStartTransposesLinearJacobian(t *testing.T) {

	mat := body.NewMaterial("bone", 0.3, 0)
	bone := body.NewRigidBody(2, unitInertia(), mat)

	c := NewSingleBoneConstraint(bone)
	c.Jl.Set(
		0, 1, 0,
		0, 0, 0,
		0, 0, 1,
	)
	c.Ja.Zero()
	c.AccumulatedImpulse = math32.Vector3{X: 1, Y: 0, Z: 0}

	c.WarmStart()

	// Jl^T * (1,0,0) = (0,1,0); scaled by invMass = 0.5.
	want := math32.Vector3{X: 0, Y: 0.5, Z: 0}
	got := bone.LinearVelocity
	if math32.Abs(got.X-want.X) > 1e-5 || math32.Abs(got.Y-want.Y) > 1e-5 || math32.Abs(got.Z-want.Z) > 1e-5 {
		t.Errorf("LinearVelocity = %v, want %v (Jl not transposed before applying the impulse)", got, want)
	}
	if math32.Abs(bone.AngularVelocity.X) > 1e-5 || math32.Abs(bone.AngularVelocity.Y) > 1e-5 || math32.Abs(bone.AngularVelocity.Z) > 1e-5 {
		t.Errorf("AngularVelocity = %v, want zero (Ja is zero)", bone.AngularVelocity)
	}
}

// A non-zero LinearError biases the solved velocity in its own
// direction (spec section 4.E: "velocity bias from position error"),
// the mechanism callers use to steer a bone toward a target pose by
// setting LinearError = target - current.
func TestSingleBoneConstraintBiasesVelocityTowardError(t *testing.T) {

	mat := body.NewMaterial("bone", 0.3, 0)
	bone := body.NewRigidBody(1, unitInertia(), mat)

	c := NewSingleBoneConstraint(bone)
	c.ErrorCorrection = 0.2
	c.Softness = 0
	c.LinearError = math32.Vector3{X: 2, Y: 0, Z: 0}

	c.ComputeEffectiveMass()
	c.SolveVelocityIteration()

	if bone.LinearVelocity.X <= 0 {
		t.Errorf("velocity after correction = %v, want positive X (biased toward LinearError's direction)", bone.LinearVelocity.X)
	}
}
