// Package body implements the kernel's RigidBody: pose, velocities,
// mass/inertia properties, and the velocity-then-pose integrator
// that advances them each step. Grounded on g3n-engine/physics/body.go,
// adapted from a Graphic-embedding scene-graph node to a standalone
// value usable by a headless kernel.
package body

import (
	"github.com/anomalousmedical/rigidphysics/logging"
	"github.com/anomalousmedical/rigidphysics/math32"
)

// PositionUpdateMode selects how a body's bounding box is refreshed
// each step (spec section 3).
type PositionUpdateMode int

const (
	// Discrete bodies get an AABB covering only their current pose.
	Discrete PositionUpdateMode = iota
	// Continuous bodies get an AABB swept across the step's motion,
	// used for fast-movers that would otherwise tunnel through thin
	// geometry (spec section 8, scenario 6).
	Continuous
)

// Damping holds the linear/angular velocity damping pair applied
// every integration step (spec section 3: "a damping pair").
type Damping struct {
	Linear  float32
	Angular float32
}

// RigidBody is the kernel's sole body representation: static,
// kinematic, and dynamic bodies are all RigidBody values distinguished
// by InverseMass (0 for static/kinematic) and the Kinematic flag.
type RigidBody struct {
	Position    math32.Vector3
	Orientation math32.Quaternion

	LinearVelocity  math32.Vector3
	AngularVelocity math32.Vector3

	// InverseMass is 0 for kinematic/static bodies, matching spec
	// section 3's "inverse mass (0 = kinematic/static)".
	InverseMass float32

	// Kinematic distinguishes a zero-inverse-mass body that is moved
	// externally by setting velocity (spec: "treated as prescribed")
	// from a static body that never moves.
	Kinematic bool

	localInverseInertia      math32.Matrix3
	worldInverseInertia      math32.Matrix3
	orientationAtInertiaCalc math32.Quaternion

	Material *Material
	Damping  Damping

	PositionMode PositionUpdateMode

	// Active is false for a sleeping body; Integrate skips a sleeping
	// body, and the solver sees it with zero effective inverse mass.
	Active bool

	ForceFields []ForceField

	force  math32.Vector3
	torque math32.Vector3
}

// NewRigidBody creates a dynamic RigidBody with the given mass and
// local inertia tensor. A zero mass produces a static/kinematic body
// (InverseMass 0); mass must not be negative (spec section 7:
// precondition violation).
func NewRigidBody(mass float32, localInertia *math32.Matrix3, mat *Material) *RigidBody {

	if mass < 0 {
		logging.Default.Fatal("body: negative mass %v is a precondition violation", mass)
	}

	b := &RigidBody{
		Orientation:  math32.Quaternion{W: 1},
		Material:     mat,
		PositionMode: Discrete,
		Active:       true,
	}

	if mass > 0 {
		b.InverseMass = 1.0 / mass
		var invInertia math32.Matrix3
		if err := invInertia.GetInverse(localInertia); err != nil {
			logging.Default.Fatal("body: %v", err)
		}
		b.localInverseInertia = invInertia
	}
	b.updateWorldInertia()

	return b
}

// NewStaticBody creates an immobile body with infinite mass, used for
// floors, walls, and other world geometry the solver never moves.
func NewStaticBody(mat *Material) *RigidBody {

	return &RigidBody{
		Orientation:  math32.Quaternion{W: 1},
		Material:     mat,
		PositionMode: Discrete,
		Active:       true,
	}
}

// EffectiveInverseMass returns InverseMass, or 0 if the body is
// asleep — a sleeping body behaves as though it has infinite mass
// during this step's solve, mirroring the teacher's invMassEff split.
func (b *RigidBody) EffectiveInverseMass() float32 {

	if !b.Active {
		return 0
	}
	return b.InverseMass
}

// EffectiveWorldInverseInertia returns WorldInverseInertia, or the
// zero matrix if the body is asleep.
func (b *RigidBody) EffectiveWorldInverseInertia() math32.Matrix3 {

	if !b.Active {
		var zero math32.Matrix3
		return zero
	}
	return b.worldInverseInertia
}

// WorldInverseInertia returns the current world-space inverse inertia
// tensor, last recomputed from Orientation by Integrate or
// RefreshWorldInertia.
func (b *RigidBody) WorldInverseInertia() math32.Matrix3 {

	return b.worldInverseInertia
}

// ApplyForce accumulates a world-space force and the torque it
// produces about the center of mass; the next Integrate call applies
// both and then clears them. Static and kinematic bodies ignore
// applied forces.
func (b *RigidBody) ApplyForce(force, relativePoint *math32.Vector3) {

	if b.InverseMass == 0 {
		return
	}
	b.force.Add(force)
	var t math32.Vector3
	t.CrossVectors(relativePoint, force)
	b.torque.Add(&t)
}

// ApplyImpulse immediately changes LinearVelocity and AngularVelocity
// by the effect of an instantaneous impulse applied at relativePoint
// (relative to the center of mass). This is the primitive the solver
// uses to apply constraint impulses.
func (b *RigidBody) ApplyImpulse(impulse, relativePoint *math32.Vector3) {

	if b.InverseMass == 0 {
		return
	}

	b.LinearVelocity.AddScaledVector(impulse, b.EffectiveInverseMass())

	var rotVelo math32.Vector3
	rotVelo.CrossVectors(relativePoint, impulse)
	rotVelo.ApplyMatrix3(&b.worldInverseInertia)
	b.AngularVelocity.Add(&rotVelo)
}

// VelocityAtWorldPoint returns the linear velocity of the material
// point of the body currently located at worldPoint, combining linear
// and rotational motion — used by contact constraints' relative
// velocity computation and the character controller's support-point
// velocity sampling.
func (b *RigidBody) VelocityAtWorldPoint(worldPoint *math32.Vector3) math32.Vector3 {

	var r math32.Vector3
	r.SubVectors(worldPoint, &b.Position)
	var rotPart math32.Vector3
	rotPart.CrossVectors(&b.AngularVelocity, &r)
	rotPart.Add(&b.LinearVelocity)
	return rotPart
}

func (b *RigidBody) updateWorldInertia() {

	var rot math32.Matrix3
	rot.MakeRotationFromQuaternion(&b.Orientation)
	var rotT math32.Matrix3
	rotT.Copy(&rot).Transpose()

	var tmp math32.Matrix3
	tmp.MultiplyMatrices(&rotT, &b.localInverseInertia)
	b.worldInverseInertia.MultiplyMatrices(&tmp, &rot)

	b.orientationAtInertiaCalc = b.Orientation
}

// RefreshWorldInertia recomputes WorldInverseInertia from the current
// Orientation if the orientation has changed since the last
// computation. Safe to call redundantly; it is a no-op when the
// orientation is unchanged, the same shortcut the teacher's
// UpdateInertiaWorld takes for bodies with isotropic local inertia.
func (b *RigidBody) RefreshWorldInertia() {

	if b.orientationAtInertiaCalc.Equals(&b.Orientation) {
		return
	}
	b.updateWorldInertia()
}

// Integrate advances the body's velocity and pose by dt: external
// forces (gravity, force fields, and any caller-applied force/torque)
// update velocity first, then the position advances by the average of
// the velocities before and after that update (exact for constant
// acceleration) and the orientation by the new angular velocity.
// Static bodies (InverseMass == 0 and not Kinematic) are left
// untouched; a kinematic body moves by its current velocity without
// feeling forces; a sleeping body is skipped entirely.
func (b *RigidBody) Integrate(dt float32, gravity *math32.Vector3) {

	if !b.Active {
		return
	}
	if b.InverseMass == 0 && !b.Kinematic {
		return
	}

	var prevVelocity math32.Vector3
	prevVelocity.Copy(&b.LinearVelocity)

	if b.InverseMass != 0 {
		var accel math32.Vector3
		accel.Copy(gravity)
		for _, ff := range b.ForceFields {
			f := ff.ForceAt(&b.Position)
			accel.AddScaledVector(f, 1)
		}
		accel.AddScaledVector(&b.force, b.InverseMass)
		b.LinearVelocity.AddScaledVector(&accel, dt)

		var angularAccel math32.Vector3
		angularAccel.Copy(&b.torque)
		angularAccel.ApplyMatrix3(&b.worldInverseInertia)
		b.AngularVelocity.AddScaledVector(&angularAccel, dt)

		dampingScale := float32(1)
		if b.Damping.Linear > 0 {
			dampingScale = clampDamping(1 - b.Damping.Linear*dt)
		}
		b.LinearVelocity.MultiplyScalar(dampingScale)

		angDampingScale := float32(1)
		if b.Damping.Angular > 0 {
			angDampingScale = clampDamping(1 - b.Damping.Angular*dt)
		}
		b.AngularVelocity.MultiplyScalar(angDampingScale)
	}

	b.Position.AddScaledVector(&prevVelocity, 0.5*dt)
	b.Position.AddScaledVector(&b.LinearVelocity, 0.5*dt)
	b.integrateOrientation(dt)

	b.force.Zero()
	b.torque.Zero()

	b.RefreshWorldInertia()

	if !b.Position.IsValid() || !b.LinearVelocity.IsValid() {
		logging.Default.Fatal("body: integration produced a non-finite state (NaN/Inf position or velocity)")
	}
}

func clampDamping(v float32) float32 {

	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// integrateOrientation applies the standard quaternion-derivative
// update q += 0.5*dt*omega*q, then renormalizes. Corrects a bug
// present in the teacher's Integrate(): its X-component update line
// was assigned twice (to .X instead of .Z), silently dropping the Z
// update and leaving orientation integration wrong on every axis that
// contributes to Z.
func (b *RigidBody) integrateOrientation(dt float32) {

	ax := b.AngularVelocity.X
	ay := b.AngularVelocity.Y
	az := b.AngularVelocity.Z

	bx := b.Orientation.X
	by := b.Orientation.Y
	bz := b.Orientation.Z
	bw := b.Orientation.W

	halfDt := dt * 0.5
	b.Orientation.X += halfDt * (ax*bw + ay*bz - az*by)
	b.Orientation.Y += halfDt * (ay*bw + az*bx - ax*bz)
	b.Orientation.Z += halfDt * (az*bw + ax*by - ay*bx)
	b.Orientation.W += halfDt * (-ax*bx - ay*by - az*bz)

	b.Orientation.Normalize()
}
