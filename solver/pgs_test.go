package solver

import (
	"testing"

	"github.com/anomalousmedical/rigidphysics/body"
	"github.com/anomalousmedical/rigidphysics/constraint"
	"github.com/anomalousmedical/rigidphysics/math32"
	"github.com/anomalousmedical/rigidphysics/narrowphase"
)

func unitInertia() *math32.Matrix3 {

	var m math32.Matrix3
	m.Identity()
	return &m
}

// Two spheres colliding head-on with restitution 1: post-collision
// velocities are swapped (equal masses) within 1% relative error after
// convergence (spec section 8, boundary behaviors).
func TestPGSRestitutionOneSwapsEqualMassVelocities(t *testing.T) {

	mat := body.NewMaterial("bouncy", 0, 1)
	a := body.NewRigidBody(1, unitInertia(), mat)
	b := body.NewRigidBody(1, unitInertia(), mat)
	a.Position = math32.Vector3{X: -1}
	b.Position = math32.Vector3{X: 1}
	a.LinearVelocity = math32.Vector3{X: 5}
	b.LinearVelocity = math32.Vector3{X: -5}

	var manifold narrowphase.Manifold
	manifold.Merge([]narrowphase.ContactPoint{
		{Position: math32.Vector3{}, Normal: math32.Vector3{X: 1}, Penetration: 0, FeatureID: 1},
	})

	table := body.NewMaterialTable()
	cmc := constraint.NewContactManifoldConstraint(a, b, &manifold, table)
	cmc.SetTimeStep(1.0 / 60.0)
	cmc.RestitutionVelocityThreshold = 0

	pgs := NewPGS(30)
	pgs.Add(cmc)
	pgs.Solve()

	if math32.Abs(a.LinearVelocity.X-(-5)) > 0.01*5 {
		t.Errorf("a.LinearVelocity.X = %v, want ~-5", a.LinearVelocity.X)
	}
	if math32.Abs(b.LinearVelocity.X-5) > 0.01*5 {
		t.Errorf("b.LinearVelocity.X = %v, want ~5", b.LinearVelocity.X)
	}
}

func TestPGSAddRemoveLen(t *testing.T) {

	mat := body.NewMaterial("m", 0.3, 0)
	bone := body.NewRigidBody(1, unitInertia(), mat)
	c := constraint.NewSingleBoneConstraint(bone)

	pgs := NewPGS(4)
	pgs.Add(c)
	if pgs.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", pgs.Len())
	}
	if !pgs.Remove(c) {
		t.Fatalf("Remove should report true for a present constraint")
	}
	if pgs.Len() != 0 {
		t.Errorf("Len() after Remove = %d, want 0", pgs.Len())
	}
}
