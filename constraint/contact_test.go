package constraint

import (
	"testing"

	"github.com/anomalousmedical/rigidphysics/body"
	"github.com/anomalousmedical/rigidphysics/math32"
	"github.com/anomalousmedical/rigidphysics/narrowphase"
)

func unitInertia() *math32.Matrix3 {

	var m math32.Matrix3
	m.Identity()
	return &m
}

func restingManifold() *narrowphase.Manifold {

	var m narrowphase.Manifold
	m.Merge([]narrowphase.ContactPoint{
		{Position: math32.Vector3{X: 0, Y: 0, Z: 0}, Normal: math32.Vector3{Y: 1}, Penetration: 0.02, FeatureID: 1},
	})
	return &m
}

// Post-solve, lambda_accum_normal >= 0 and the friction accumulator
// stays inside the friction cone, so each axis satisfies
// |lambda_f| <= mu * lambda_n (spec section 8, quantified invariants).
func TestContactManifoldConstraintClampInvariants(t *testing.T) {

	mat := body.NewMaterial("default", 0.6, 0)
	ground := body.NewStaticBody(mat)
	ball := body.NewRigidBody(1, unitInertia(), mat)
	ball.LinearVelocity = math32.Vector3{X: 3, Y: -2, Z: 0}

	manifold := restingManifold()
	table := body.NewMaterialTable()
	c := NewContactManifoldConstraint(ground, ball, manifold, table)
	c.SetTimeStep(1.0 / 60.0)

	c.ComputeEffectiveMass()
	c.WarmStart()
	for i := 0; i < 10; i++ {
		c.SolveVelocityIteration()
	}

	for i := 0; i < manifold.Count; i++ {
		p := manifold.Points[i]
		if p.AccumulatedNormalImpulse < 0 {
			t.Errorf("point %d: accumulated normal impulse = %v, want >= 0", i, p.AccumulatedNormalImpulse)
		}
		maxFriction := c.Friction * p.AccumulatedNormalImpulse
		if math32.Abs(p.AccumulatedFrictionImpulse.X) > maxFriction+1e-4 {
			t.Errorf("point %d: friction.X = %v exceeds cone bound %v", i, p.AccumulatedFrictionImpulse.X, maxFriction)
		}
		if math32.Abs(p.AccumulatedFrictionImpulse.Y) > maxFriction+1e-4 {
			t.Errorf("point %d: friction.Y = %v exceeds cone bound %v", i, p.AccumulatedFrictionImpulse.Y, maxFriction)
		}
	}
}

// A resting contact against a static floor does not sink through it:
// repeated solving should push the ball's vertical velocity back
// toward non-negative.
func TestContactManifoldConstraintResolvesPenetrationVelocity(t *testing.T) {

	mat := body.NewMaterial("default", 0.3, 0)
	ground := body.NewStaticBody(mat)
	ball := body.NewRigidBody(1, unitInertia(), mat)
	ball.LinearVelocity = math32.Vector3{Y: -5}

	manifold := restingManifold()
	table := body.NewMaterialTable()
	c := NewContactManifoldConstraint(ground, ball, manifold, table)
	c.SetTimeStep(1.0 / 60.0)

	c.ComputeEffectiveMass()
	c.WarmStart()
	for i := 0; i < 10; i++ {
		c.SolveVelocityIteration()
	}

	if ball.LinearVelocity.Y < -1e-3 {
		t.Errorf("ball still sinking after solve: vel.Y = %v", ball.LinearVelocity.Y)
	}
}

// ClearAccumulatedImpulses followed by a solve with zero relative
// velocity and zero penetration leaves impulses at zero (spec section
// 8: idempotence).
func TestContactManifoldConstraintClearAccumulatedImpulses(t *testing.T) {

	mat := body.NewMaterial("default", 0.3, 0)
	ground := body.NewStaticBody(mat)
	ball := body.NewRigidBody(1, unitInertia(), mat)

	var manifold narrowphase.Manifold
	manifold.Merge([]narrowphase.ContactPoint{
		{Position: math32.Vector3{}, Normal: math32.Vector3{Y: 1}, Penetration: 0, FeatureID: 1},
	})
	table := body.NewMaterialTable()
	c := NewContactManifoldConstraint(ground, ball, &manifold, table)
	c.SetTimeStep(1.0 / 60.0)
	c.AllowedPenetration = 0

	c.ComputeEffectiveMass()
	c.ClearAccumulatedImpulses()
	c.WarmStart()
	c.SolveVelocityIteration()

	if manifold.Points[0].AccumulatedNormalImpulse != 0 {
		t.Errorf("expected zero accumulated impulse at rest with no penetration, got %v", manifold.Points[0].AccumulatedNormalImpulse)
	}
	if ball.LinearVelocity != (math32.Vector3{}) {
		t.Errorf("expected zero velocity change, got %v", ball.LinearVelocity)
	}
}
