package character

import (
	"testing"

	"github.com/anomalousmedical/rigidphysics/body"
	"github.com/anomalousmedical/rigidphysics/math32"
	"github.com/anomalousmedical/rigidphysics/narrowphase"
	"github.com/anomalousmedical/rigidphysics/space"
)

// A traction jump adds JumpSpeed along Up to the character and a
// reaction impulse (minus the velocity delta, scaled by the character's
// mass and JumpForceFactor) onto the dynamic object it pushed off of
// (spec section 4.H step 6): -5 * 1 * 1 on a mass-2 support is -2.5.
func TestControllerTryJumpTractionAppliesReactionImpulse(t *testing.T) {

	mat := body.NewMaterial("m", 0.3, 0)

	charBody := body.NewRigidBody(1, unitInertia(), mat)
	selfObj := space.NewObject(1, charBody, &narrowphase.Sphere{Radius: 0.5}, 0.01)

	supportBody := body.NewRigidBody(2, unitInertia(), mat)
	supportObj := space.NewObject(2, supportBody, &narrowphase.Box{HalfExtents: math32.Vector3{X: 1, Y: 1, Z: 1}}, 0.01)

	c := &Controller{
		Self:   selfObj,
		Config: DefaultConfig(),
		Up:     math32.Vector3{Y: 1},
		support: SupportData{
			Category: SupportWithTraction,
			Normal:   math32.Vector3{Y: 1},
			Point:    math32.Vector3{},
			Object:   supportObj,
		},
	}

	c.tryJump(0)

	if math32.Abs(charBody.LinearVelocity.Y-5) > 1e-4 {
		t.Errorf("charBody.LinearVelocity.Y = %v, want ~5 (default JumpSpeed)", charBody.LinearVelocity.Y)
	}
	if math32.Abs(supportBody.LinearVelocity.Y-(-2.5)) > 1e-4 {
		t.Errorf("supportBody.LinearVelocity.Y = %v, want ~-2.5 (reaction impulse)", supportBody.LinearVelocity.Y)
	}
	if c.support.Found() {
		t.Errorf("expected support to be cleared after jumping")
	}
}

// A sliding (no-traction) jump pushes the character away from the
// surface along the negated support normal, scaled to SlidingJumpSpeed.
func TestControllerTryJumpSlidingAppliesAntiNormalVelocity(t *testing.T) {

	mat := body.NewMaterial("m", 0.3, 0)
	charBody := body.NewRigidBody(1, unitInertia(), mat)
	selfObj := space.NewObject(1, charBody, &narrowphase.Sphere{Radius: 0.5}, 0.01)

	normal := math32.Vector3{X: 0.6, Y: 0.8}

	c := &Controller{
		Self:   selfObj,
		Config: DefaultConfig(),
		Up:     math32.Vector3{Y: 1},
		support: SupportData{
			Category: SupportNoTraction,
			Normal:   normal,
		},
	}

	c.tryJump(0)

	wantX, wantY := float32(-1.8), float32(-2.4)
	if math32.Abs(charBody.LinearVelocity.X-wantX) > 1e-4 {
		t.Errorf("LinearVelocity.X = %v, want ~%v", charBody.LinearVelocity.X, wantX)
	}
	if math32.Abs(charBody.LinearVelocity.Y-wantY) > 1e-4 {
		t.Errorf("LinearVelocity.Y = %v, want ~%v", charBody.LinearVelocity.Y, wantY)
	}
}

// applyGroundGlue cancels a small separating velocity while supported
// with traction (spec section 4.H step 8).
func TestControllerApplyGroundGlueCancelsSmallSeparation(t *testing.T) {

	mat := body.NewMaterial("m", 0.3, 0)
	charBody := body.NewRigidBody(1, unitInertia(), mat)
	charBody.LinearVelocity = math32.Vector3{Y: -1}
	selfObj := space.NewObject(1, charBody, &narrowphase.Sphere{Radius: 0.5}, 0.01)

	floorBody := body.NewStaticBody(mat)
	floorObj := space.NewObject(2, floorBody, &narrowphase.Box{HalfExtents: math32.Vector3{X: 10, Y: 1, Z: 10}}, 0.01)

	c := &Controller{
		Self:   selfObj,
		Config: DefaultConfig(),
		support: SupportData{
			Category: SupportWithTraction,
			Normal:   math32.Vector3{Y: 1},
			Object:   floorObj,
		},
	}

	c.applyGroundGlue()

	if math32.Abs(charBody.LinearVelocity.Y) > 1e-4 {
		t.Errorf("LinearVelocity.Y = %v, want ~0 after glue cancels separation", charBody.LinearVelocity.Y)
	}
}

// A separation faster than GlueSpeed is a real jump/fall, not ground
// noise, and must be left alone.
func TestControllerApplyGroundGlueIgnoresFastSeparation(t *testing.T) {

	mat := body.NewMaterial("m", 0.3, 0)
	charBody := body.NewRigidBody(1, unitInertia(), mat)
	charBody.LinearVelocity = math32.Vector3{Y: -5}
	selfObj := space.NewObject(1, charBody, &narrowphase.Sphere{Radius: 0.5}, 0.01)

	floorBody := body.NewStaticBody(mat)
	floorObj := space.NewObject(2, floorBody, &narrowphase.Box{HalfExtents: math32.Vector3{X: 10, Y: 1, Z: 10}}, 0.01)

	c := &Controller{
		Self:   selfObj,
		Config: DefaultConfig(),
		support: SupportData{
			Category: SupportWithTraction,
			Normal:   math32.Vector3{Y: 1},
			Object:   floorObj,
		},
	}

	c.applyGroundGlue()

	if math32.Abs(charBody.LinearVelocity.Y-(-5)) > 1e-4 {
		t.Errorf("LinearVelocity.Y = %v, want unchanged ~-5 (separation faster than GlueSpeed)", charBody.LinearVelocity.Y)
	}
}

func TestControllerRequestJumpLatchesAndHasTractionReflectsSupport(t *testing.T) {

	mat := body.NewMaterial("m", 0.3, 0)
	charBody := body.NewRigidBody(1, unitInertia(), mat)
	selfObj := space.NewObject(1, charBody, &narrowphase.Sphere{Radius: 0.5}, 0.01)

	c := &Controller{Self: selfObj, Config: DefaultConfig()}

	if c.HasTraction() {
		t.Errorf("HasTraction() = true before any support data, want false")
	}

	c.RequestJump()
	if !c.JumpRequested {
		t.Errorf("RequestJump() did not latch JumpRequested")
	}

	c.support = SupportData{Category: SupportWithTraction}
	if !c.HasTraction() {
		t.Errorf("HasTraction() = false with SupportWithTraction set, want true")
	}
}
