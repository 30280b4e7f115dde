package constraint

import (
	"github.com/anomalousmedical/rigidphysics/body"
	"github.com/anomalousmedical/rigidphysics/math32"
	"github.com/anomalousmedical/rigidphysics/narrowphase"
)

// contactPointState is the per-contact solver state for one point in
// a manifold: the normal sub-constraint plus its coupled two-axis
// friction sub-constraint (spec section 4.E: "Composed of normal
// (non-penetration, unilateral) plus two-axis friction (coupled,
// clamped inside the friction cone)"). Grounded on the teacher's
// equation.Contact for the rA/rB/normal shape, generalized from its
// SPOOK (a,b,eps) parameters to the spec's softness/errorCorrect pair.
type contactPointState struct {
	rA, rB math32.Vector3
	normal math32.Vector3
	tangent1, tangent2 math32.Vector3

	normalMass   float32
	tangentMass1 float32
	tangentMass2 float32

	// restitutionBias is -restitution*min(vn0, 0), captured once from
	// the pre-iteration approach velocity vn0 in ComputeEffectiveMass.
	// It must stay fixed across every SolveVelocityIteration call in a
	// solve: recomputing it from the live per-iteration vn would make
	// the solver see its own just-applied bounce as fresh approach
	// velocity and cancel it back out, collapsing restitution to zero
	// after the first iteration.
	restitutionBias float32

	penetration float32

	accumNormal  float32
	accumTangent math32.Vector3 // x=tangent1 component, y=tangent2 component
}

// ContactManifoldConstraint bundles the normal/friction sub-constraints
// for every point of one pair's manifold into a single
// constraint.Constraint, per spec section 4.E.
type ContactManifoldConstraint struct {
	BodyA, BodyB *body.RigidBody
	Manifold     *narrowphase.Manifold

	Friction    float32
	Restitution float32

	// RestitutionVelocityThreshold is the small relative-velocity floor
	// below which restitution is treated as zero (spec section 4.E),
	// avoiding a resting contact bouncing forever off numerical noise.
	RestitutionVelocityThreshold float32

	// ErrorCorrection and AllowedPenetration together form the
	// position-bias term applied to the normal constraint, mirroring
	// the softness/errorCorrect treatment spec section 4.E mandates for
	// SingleBoneConstraint and applying it uniformly to contacts too.
	ErrorCorrection  float32
	AllowedPenetration float32

	// invDt is the reciprocal of the last step's dt, set by SetTimeStep
	// and used to turn the allowed-penetration overshoot into a
	// per-step velocity bias rather than hardcoding an assumed rate.
	invDt float32

	points [4]contactPointState
	count  int
}

// SetTimeStep records the current step's dt for the position-bias
// term. The solver calls this once per step before ComputeEffectiveMass.
func (c *ContactManifoldConstraint) SetTimeStep(dt float32) {

	if dt > 0 {
		c.invDt = 1 / dt
	}
}

// NewContactManifoldConstraint builds a constraint for one pair's
// manifold, resolving the effective friction/restitution from the two
// bodies' materials via table.Resolve (spec section 4.E material
// blending: sqrt(mu_A*mu_B), max(e_A,e_B)).
func NewContactManifoldConstraint(bodyA, bodyB *body.RigidBody, manifold *narrowphase.Manifold, table *body.MaterialTable) *ContactManifoldConstraint {

	c := &ContactManifoldConstraint{
		BodyA:                        bodyA,
		BodyB:                        bodyB,
		Manifold:                     manifold,
		RestitutionVelocityThreshold: 1.0,
		ErrorCorrection:              0.2,
		AllowedPenetration:           0.01,
		invDt:                        60,
	}
	c.Friction, c.Restitution = table.Resolve(bodyA.Material, bodyB.Material)
	return c
}

// Bodies returns the two bodies this constraint couples, used by the
// solver's island decomposition to build the body-constraint graph
// (spec section 4.F).
func (c *ContactManifoldConstraint) Bodies() (a, b *body.RigidBody) {

	return c.BodyA, c.BodyB
}

// ComputeEffectiveMass rebuilds every contact point's normal and
// friction effective masses and tangent basis from the manifold's
// current geometry. Must be called once per solve before WarmStart.
func (c *ContactManifoldConstraint) ComputeEffectiveMass() {

	c.count = c.Manifold.Count
	for i := 0; i < c.count; i++ {
		cp := &c.Manifold.Points[i]
		p := &c.points[i]

		p.rA.SubVectors(&cp.Position, &c.BodyA.Position)
		p.rB.SubVectors(&cp.Position, &c.BodyB.Position)
		p.normal = cp.Normal
		p.penetration = cp.Penetration
		p.accumNormal = cp.AccumulatedNormalImpulse
		p.accumTangent = cp.AccumulatedFrictionImpulse

		p.tangent1, p.tangent2 = tangentBasis(&p.normal)

		p.normalMass = 1 / angularEffectiveMassDenominator(c.BodyA, c.BodyB, &p.rA, &p.rB, &p.normal)
		p.tangentMass1 = 1 / angularEffectiveMassDenominator(c.BodyA, c.BodyB, &p.rA, &p.rB, &p.tangent1)
		p.tangentMass2 = 1 / angularEffectiveMassDenominator(c.BodyA, c.BodyB, &p.rA, &p.rB, &p.tangent2)

		restitution := c.Restitution
		relVel := relativeVelocity(c.BodyA, c.BodyB, &p.rA, &p.rB)
		vn0 := relVel.Dot(&p.normal)
		if -vn0 < c.RestitutionVelocityThreshold {
			restitution = 0
		}
		p.restitutionBias = -restitution * math32.Min(vn0, 0)
	}
}

// angularEffectiveMassDenominator computes invMassA + invMassB +
// (rA x axis) . invIA . (rA x axis) + (rB x axis) . invIB . (rB x axis),
// the standard single-axis effective mass denominator (teacher's
// Equation.ComputeGiMGt specialized to a single spatial axis rather
// than a full Jacobian row).
func angularEffectiveMassDenominator(a, b *body.RigidBody, rA, rB, axis *math32.Vector3) float32 {

	var rnA, rnB math32.Vector3
	rnA.CrossVectors(rA, axis)
	rnB.CrossVectors(rB, axis)

	invIA := a.EffectiveWorldInverseInertia()
	invIB := b.EffectiveWorldInverseInertia()

	var tA, tB math32.Vector3
	tA.Copy(&rnA).ApplyMatrix3(&invIA)
	tB.Copy(&rnB).ApplyMatrix3(&invIB)

	denom := a.EffectiveInverseMass() + b.EffectiveInverseMass() + tA.Dot(&rnA) + tB.Dot(&rnB)
	if denom < 1e-8 {
		return 1e-8
	}
	return denom
}

// tangentBasis builds two axes orthogonal to normal and to each other,
// used as the contact's friction directions.
func tangentBasis(normal *math32.Vector3) (t1, t2 math32.Vector3) {

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

// WarmStart re-applies each contact point's carried-over accumulated
// normal and friction impulses before the first velocity iteration,
// per spec section 4.E ("apply P = J^T lambda_accum to body velocities").
func (c *ContactManifoldConstraint) WarmStart() {

	for i := 0; i < c.count; i++ {
		p := &c.points[i]
		var impulse math32.Vector3
		impulse.Copy(&p.normal).MultiplyScalar(p.accumNormal)
		impulse.AddScaledVector(&p.tangent1, p.accumTangent.X)
		impulse.AddScaledVector(&p.tangent2, p.accumTangent.Y)
		applyContactImpulse(c.BodyA, c.BodyB, &impulse, &p.rA, &p.rB)
	}
}

// SolveVelocityIteration runs one PGS pass over every contact point:
// solve the normal constraint first (clamped to lambda_accum >= 0, the
// unilateral non-penetration constraint), then the two friction axes
// clamped inside the friction cone |lambda_f|^2 <= (mu*lambda_n)^2,
// per spec section 4.E.
func (c *ContactManifoldConstraint) SolveVelocityIteration() {

	for i := 0; i < c.count; i++ {
		p := &c.points[i]

		relVel := relativeVelocity(c.BodyA, c.BodyB, &p.rA, &p.rB)
		vn := relVel.Dot(&p.normal)

		bias := -c.ErrorCorrection * c.invDt * math32.Max(p.penetration-c.AllowedPenetration, 0)
		lambda := -p.normalMass * ((vn - p.restitutionBias) + bias)

		newAccum := math32.Max(p.accumNormal+lambda, 0)
		delta := newAccum - p.accumNormal
		p.accumNormal = newAccum

		var impulse math32.Vector3
		impulse.Copy(&p.normal).MultiplyScalar(delta)
		applyContactImpulse(c.BodyA, c.BodyB, &impulse, &p.rA, &p.rB)

		c.solveFrictionAxis(p, &p.tangent1, p.tangentMass1, true)
		c.solveFrictionAxis(p, &p.tangent2, p.tangentMass2, false)

		maxFriction := c.Friction * p.accumNormal
		magSq := p.accumTangent.X*p.accumTangent.X + p.accumTangent.Y*p.accumTangent.Y
		if magSq > maxFriction*maxFriction && magSq > 0 {
			scale := maxFriction / math32.Sqrt(magSq)
			var correction math32.Vector3
			correction.Copy(&p.tangent1).MultiplyScalar(p.accumTangent.X * (scale - 1))
			correction.AddScaledVector(&p.tangent2, p.accumTangent.Y*(scale-1))
			p.accumTangent.X *= scale
			p.accumTangent.Y *= scale
			applyContactImpulse(c.BodyA, c.BodyB, &correction, &p.rA, &p.rB)
		}

		c.Manifold.Points[i].AccumulatedNormalImpulse = p.accumNormal
		c.Manifold.Points[i].AccumulatedFrictionImpulse = p.accumTangent
	}
}

func (c *ContactManifoldConstraint) solveFrictionAxis(p *contactPointState, axis *math32.Vector3, mass float32, isFirst bool) {

	relVel := relativeVelocity(c.BodyA, c.BodyB, &p.rA, &p.rB)
	vt := relVel.Dot(axis)
	lambda := -mass * vt

	maxFriction := c.Friction * p.accumNormal

	var prevComponent, newComponent float32
	if isFirst {
		prevComponent = p.accumTangent.X
	} else {
		prevComponent = p.accumTangent.Y
	}
	newComponent = clampScalar(prevComponent+lambda, -maxFriction, maxFriction)
	// Each axis is clamped to the circumscribing square here;
	// SolveVelocityIteration then projects both axes jointly onto the
	// circle |lambda_f|^2 <= (mu*lambda_n)^2.
	delta := newComponent - prevComponent
	if isFirst {
		p.accumTangent.X = newComponent
	} else {
		p.accumTangent.Y = newComponent
	}

	var impulse math32.Vector3
	impulse.Copy(axis).MultiplyScalar(delta)
	applyContactImpulse(c.BodyA, c.BodyB, &impulse, &p.rA, &p.rB)
}

// ClearAccumulatedImpulses zeroes every contact point's accumulated
// impulses, used on large topology changes (spec section 4.E).
func (c *ContactManifoldConstraint) ClearAccumulatedImpulses() {

	for i := 0; i < c.count; i++ {
		c.points[i].accumNormal = 0
		c.points[i].accumTangent = math32.Vector3{}
		c.Manifold.Points[i].AccumulatedNormalImpulse = 0
		c.Manifold.Points[i].AccumulatedFrictionImpulse = math32.Vector3{}
	}
}

func relativeVelocity(a, b *body.RigidBody, rA, rB *math32.Vector3) math32.Vector3 {

	var pointA, pointB math32.Vector3
	pointA.AddVectors(&a.Position, rA)
	pointB.AddVectors(&b.Position, rB)
	va := a.VelocityAtWorldPoint(&pointA)
	vb := b.VelocityAtWorldPoint(&pointB)
	var rel math32.Vector3
	rel.SubVectors(&vb, &va)
	return rel
}

// applyContactImpulse applies +impulse to B and -impulse to A at their
// respective contact-relative points, matching the teacher's
// Contact equation's [-n -rxn n rxn] Jacobian row sign convention.
func applyContactImpulse(a, b *body.RigidBody, impulse, rA, rB *math32.Vector3) {

	var neg math32.Vector3
	neg.Copy(impulse).Negate()
	a.ApplyImpulse(&neg, rA)
	b.ApplyImpulse(impulse, rB)
}

