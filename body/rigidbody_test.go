package body

import (
	"testing"

	"github.com/anomalousmedical/rigidphysics/math32"
)

func unitInertia() *math32.Matrix3 {

	var m math32.Matrix3
	m.Identity()
	return &m
}

// Single body in free fall: position after t seconds equals
// p0 + v0*t + 0.5*g*t^2 within O(dt^2) (spec section 8, boundary
// behaviors).
func TestRigidBodyFreeFall(t *testing.T) {

	mat := NewMaterial("default", 0.5, 0)
	b := NewRigidBody(1, unitInertia(), mat)

	gravity := math32.Vector3{X: 0, Y: -9.81, Z: 0}
	dt := float32(1.0 / 60.0)
	steps := 60

	for i := 0; i < steps; i++ {
		b.Integrate(dt, &gravity)
	}

	elapsed := dt * float32(steps)
	expectedY := 0.5 * gravity.Y * elapsed * elapsed

	if math32.Abs(b.Position.Y-expectedY) > 0.05 {
		t.Errorf("free fall Y = %v, want ~%v", b.Position.Y, expectedY)
	}
}

// Orientation stays unit length after repeated integration (spec
// section 8: "|orientation| ~= 1 to within 1e-5").
func TestRigidBodyOrientationStaysUnit(t *testing.T) {

	mat := NewMaterial("default", 0.5, 0)
	b := NewRigidBody(1, unitInertia(), mat)
	b.AngularVelocity = math32.Vector3{X: 1.3, Y: -0.7, Z: 2.1}

	gravity := math32.Vector3{}
	for i := 0; i < 600; i++ {
		b.Integrate(1.0/60.0, &gravity)
	}

	length := b.Orientation.Length()
	if math32.Abs(length-1) > 1e-5 {
		t.Errorf("orientation length = %v, want ~1", length)
	}
}

// A static body (zero mass, not kinematic) never moves under gravity.
func TestStaticBodyDoesNotIntegrate(t *testing.T) {

	mat := NewMaterial("ground", 0.5, 0)
	b := NewStaticBody(mat)
	gravity := math32.Vector3{X: 0, Y: -9.81, Z: 0}

	b.Integrate(1.0/60.0, &gravity)

	if b.Position != (math32.Vector3{}) {
		t.Errorf("static body moved: %v", b.Position)
	}
	if b.LinearVelocity != (math32.Vector3{}) {
		t.Errorf("static body gained velocity: %v", b.LinearVelocity)
	}
}

// A sleeping body (Active == false) reports a zero effective inverse
// mass, so the solver treats it as if it had infinite mass.
func TestSleepingBodyEffectiveInverseMassIsZero(t *testing.T) {

	mat := NewMaterial("default", 0.5, 0)
	b := NewRigidBody(2, unitInertia(), mat)
	b.Active = false

	if got := b.EffectiveInverseMass(); got != 0 {
		t.Errorf("sleeping body EffectiveInverseMass = %v, want 0", got)
	}
}

func TestBlendMaterialsGeometricMeanAndMaxRestitution(t *testing.T) {

	a := NewMaterial("a", 0.5, 0.2)
	b := NewMaterial("b", 0.5, 0.8)

	friction, restitution := BlendMaterials(a, b)

	if math32.Abs(friction-0.5) > 1e-6 {
		t.Errorf("friction = %v, want 0.5", friction)
	}
	if restitution != 0.8 {
		t.Errorf("restitution = %v, want 0.8", restitution)
	}
}
