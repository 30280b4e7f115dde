package constraint

import (
	"github.com/anomalousmedical/rigidphysics/body"
	"github.com/anomalousmedical/rigidphysics/math32"
)

// Bone is the single rigid body a SingleBoneConstraint acts on —
// named separately from body.RigidBody so the character/articulated
// use sites (spec section 4.E, 4.H) read as acting on "a bone" rather
// than an arbitrary body.
type Bone = body.RigidBody

// SingleBoneConstraint is the kernel's articulated/IK building block
// (spec section 4.E): a single bone driven toward a target linear and
// angular velocity (or, via a position-error bias, a target pose) by
// independent 3x3 linear and angular Jacobians. No teacher equivalent
// exists in g3n-engine (its constraint package only has the generic
// base); the 3x3-effective-mass shape is grounded directly on the
// spec's own equations.
type SingleBoneConstraint struct {
	Bone *Bone

	// Jl and Ja are the linear and angular Jacobians (spec section
	// 4.E). For a simple "pull point P on the bone to world anchor"
	// constraint, Jl = I and Ja = -[r]_x (skew of the bone-relative
	// anchor offset); callers may set arbitrary 3x3 jacobians for other
	// articulation types.
	Jl, Ja math32.Matrix3

	// LinearError and AngularError are the current position/orientation
	// error driving the bias term (spec: "Velocity bias from position
	// error").
	LinearError, AngularError math32.Vector3

	Softness        float32
	ErrorCorrection float32

	// MaxImpulse is the 3-vector magnitude clamp; MaxImpulseSquared is
	// cached alongside to avoid a sqrt on every clamp test (spec
	// section 4.E: "squared cache is maintained alongside to avoid
	// sqrts on every clamp").
	MaxImpulse        float32
	maxImpulseSquared float32

	effectiveMass math32.Matrix3

	// AccumulatedImpulse is lambda_accum, a 3-vector, persisted across
	// steps for warm starting.
	AccumulatedImpulse math32.Vector3
}

// NewSingleBoneConstraint creates a constraint with MaxImpulse treated
// as infinite (spec: "infinity represented by a sentinel") until
// SetMaxImpulse is called.
func NewSingleBoneConstraint(bone *Bone) *SingleBoneConstraint {

	c := &SingleBoneConstraint{Bone: bone, ErrorCorrection: 1}
	c.Jl.Identity()
	c.Ja.Identity()
	c.SetMaxImpulse(math32.Infinity)
	return c
}

// Bodies returns the single bone this constraint acts on as the "A"
// body, with a nil "B" — single-bone constraints couple exactly one
// body to a fixed target, so they never bridge two islands together.
func (c *SingleBoneConstraint) Bodies() (a, b *body.RigidBody) {

	return c.Bone, nil
}

// SetMaxImpulse updates MaxImpulse and its cached square.
func (c *SingleBoneConstraint) SetMaxImpulse(maxImpulse float32) {

	c.MaxImpulse = maxImpulse
	c.maxImpulseSquared = maxImpulse * maxImpulse
}

// ComputeEffectiveMass builds E = Jl*m^-1*I*Jl^T + Ja*I^-1*Ja^T +
// softness*I then inverts it, per spec section 4.E. Since m^-1*I is a
// scalar multiple of the identity, Jl*(m^-1 I)*Jl^T reduces to
// m^-1 * (Jl * Jl^T).
func (c *SingleBoneConstraint) ComputeEffectiveMass() {

	invMass := c.Bone.EffectiveInverseMass()
	invInertia := c.Bone.EffectiveWorldInverseInertia()

	var jlT, jaT math32.Matrix3
	jlT.Copy(&c.Jl).Transpose()
	jaT.Copy(&c.Ja).Transpose()

	var linearTerm math32.Matrix3
	linearTerm.MultiplyMatrices(&c.Jl, &jlT)
	linearTerm.MultiplyScalar(invMass)

	var angularTerm math32.Matrix3
	var tmp math32.Matrix3
	tmp.MultiplyMatrices(&c.Ja, &invInertia)
	angularTerm.MultiplyMatrices(&tmp, &jaT)

	var e math32.Matrix3
	addMatrix3(&e, &linearTerm, &angularTerm)
	for i := 0; i < 9; i += 4 {
		e[i] += c.Softness
	}

	if err := c.effectiveMass.GetInverse(&e); err != nil {
		// A singular effective mass means every Jacobian row is
		// degenerate (e.g. both bodies static); treat as an inert
		// constraint rather than fatal, since the caller may simply
		// not have wired a real target yet.
		c.effectiveMass.Zero()
	}
}

func addMatrix3(out, a, b *math32.Matrix3) {

	for i := 0; i < 9; i++ {
		out[i] = a[i] + b[i]
	}
}

// WarmStart applies the carried-over accumulated impulse via
// Δv_l += m^-1 Jl^T λ_accum, Δv_a += I^-1 Ja^T λ_accum.
func (c *SingleBoneConstraint) WarmStart() {

	c.applyImpulse(&c.AccumulatedImpulse)
}

// SolveVelocityIteration implements spec section 4.E's velocity solve
// exactly, including the corrected rescale clamp. The spec's REDESIGN
// FLAG on this constraint documents that the original engine's clamp
// line ("Multiply(ref accumulatedImpulse, sqrt(|λ|²) * maxImpulse,
// …)") is algebraically inconsistent with rescaling to magnitude
// maxImpulse; this implementation uses the corrected formula
// λ' · (maxImpulse / |λ'|) the spec calls for.
func (c *SingleBoneConstraint) SolveVelocityIteration() {

	linVel := c.Bone.LinearVelocity
	angVel := c.Bone.AngularVelocity

	var jlVl, jaVa math32.Vector3
	jlVl.Copy(&linVel).ApplyMatrix3(&c.Jl)
	jaVa.Copy(&angVel).ApplyMatrix3(&c.Ja)

	var vBias, biasLin, biasAng math32.Vector3
	biasLin.Copy(&c.LinearError).MultiplyScalar(c.ErrorCorrection).ApplyMatrix3(&c.Jl)
	biasAng.Copy(&c.AngularError).MultiplyScalar(c.ErrorCorrection).ApplyMatrix3(&c.Ja)
	vBias.AddVectors(&biasLin, &biasAng)

	var softTerm math32.Vector3
	softTerm.Copy(&c.AccumulatedImpulse).MultiplyScalar(c.Softness)

	var vErr math32.Vector3
	vErr.AddVectors(&jlVl, &jaVa)
	vErr.Sub(&vBias)
	vErr.Add(&softTerm)

	var deltaLambda math32.Vector3
	deltaLambda.Copy(&vErr).ApplyMatrix3(&c.effectiveMass).Negate()

	var lambdaPrime math32.Vector3
	lambdaPrime.AddVectors(&c.AccumulatedImpulse, &deltaLambda)

	magSquared := lambdaPrime.Dot(&lambdaPrime)
	if magSquared > c.maxImpulseSquared && magSquared > 0 {
		mag := math32.Sqrt(magSquared)
		lambdaPrime.MultiplyScalar(c.MaxImpulse / mag)
		deltaLambda.SubVectors(&lambdaPrime, &c.AccumulatedImpulse)
	}

	c.AccumulatedImpulse = lambdaPrime
	c.applyImpulse(&deltaLambda)
}

func (c *SingleBoneConstraint) applyImpulse(deltaLambda *math32.Vector3) {

	invMass := c.Bone.EffectiveInverseMass()
	invInertia := c.Bone.EffectiveWorldInverseInertia()

	var deltaVl math32.Vector3
	var jlT math32.Matrix3
	jlT.Copy(&c.Jl).Transpose()
	deltaVl.Copy(deltaLambda).ApplyMatrix3(&jlT)
	deltaVl.MultiplyScalar(invMass)

	var jaTDelta math32.Vector3
	var jaT math32.Matrix3
	jaT.Copy(&c.Ja).Transpose()
	jaTDelta.Copy(deltaLambda).ApplyMatrix3(&jaT)
	jaTDelta.ApplyMatrix3(&invInertia)

	c.Bone.LinearVelocity.Add(&deltaVl)
	c.Bone.AngularVelocity.Add(&jaTDelta)
}

// ClearAccumulatedImpulses resets lambda_accum to zero.
func (c *SingleBoneConstraint) ClearAccumulatedImpulses() {

	c.AccumulatedImpulse = math32.Vector3{}
}
