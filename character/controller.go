package character

import (
	"github.com/anomalousmedical/rigidphysics/events"
	"github.com/anomalousmedical/rigidphysics/math32"
	"github.com/anomalousmedical/rigidphysics/space"
)

// Config holds the character's tunable parameters (spec section 6:
// "Character: JumpSpeed, SlidingJumpSpeed, JumpForceFactor >= 0,
// GlueSpeed, Stepper.MaximumStepHeight, collision margin").
type Config struct {
	JumpSpeed        float32
	SlidingJumpSpeed float32
	JumpForceFactor  float32
	GlueSpeed        float32
}

// DefaultConfig returns reasonable defaults for a human-scale character.
func DefaultConfig() Config {

	return Config{
		JumpSpeed:        5,
		SlidingJumpSpeed: 3,
		JumpForceFactor:  1,
		GlueSpeed:        2,
	}
}

// Controller is the worked compound consumer of spec section 4.H: a
// vertical-cylinder body driven each step by a SupportFinder, a
// HorizontalMotionConstraint, and a Stepper, wired into the Space's
// BeforeSolver/BeforePositionUpdate event pump. No teacher equivalent
// exists for this orchestration; it is grounded directly on the spec's
// fully-specified 9-step per-step algorithm.
type Controller struct {
	Space  *space.Space
	Self   *space.Object
	Config Config

	finder  *SupportFinder
	motion  *HorizontalMotionConstraint
	stepper *Stepper

	Up math32.Vector3

	// DesiredVelocity is the horizontal velocity the caller wants the
	// character to move at this step (world space, any vertical
	// component is ignored).
	DesiredVelocity math32.Vector3

	// JumpRequested is latched true by RequestJump and consumed on the
	// next BeforeSolver phase.
	JumpRequested bool

	hadTraction bool
	support     SupportData
}

// NewController builds a Controller and subscribes it to sp's event
// pump. self's body should use continuous position updating with zero
// local inertia, per spec section 4.H's composition note, to prevent
// the cylinder from tipping.
func NewController(sp *space.Space, self *space.Object) *Controller {

	c := &Controller{
		Space:   sp,
		Self:    self,
		Config:  DefaultConfig(),
		finder:  NewSupportFinder(sp, self),
		motion:  NewHorizontalMotionConstraint(self.Body),
		stepper: NewStepper(sp, self),
		Up:      math32.Vector3{X: 0, Y: 1, Z: 0},
	}
	sp.AddConstraint(c.motion)
	sp.Dispatcher.Subscribe(events.BeforeSolver, c.onBeforeSolver)
	sp.Dispatcher.Subscribe(events.BeforePositionUpdate, c.onBeforePositionUpdate)
	return c
}

// RequestJump latches a jump to be applied on the next BeforeSolver
// phase.
func (c *Controller) RequestJump() {

	c.JumpRequested = true
}

// HasTraction reports whether the character currently has a
// traction-grade support, i.e. can push off the ground for movement.
func (c *Controller) HasTraction() bool {

	return c.support.Category == SupportWithTraction
}

func (c *Controller) onBeforeSolver(name events.Name, payload interface{}) {

	c.hadTraction = c.support.Category == SupportWithTraction

	// Step 2: collect support data.
	c.support = c.finder.UpdateSupports()

	relVel := math32.Vector3{}
	var vertical float32
	var horizontal math32.Vector3
	if c.support.Found() {
		pointVel := c.support.PointVelocity()
		relVel.X = c.Self.Body.LinearVelocity.X - pointVel.X
		relVel.Y = c.Self.Body.LinearVelocity.Y - pointVel.Y
		relVel.Z = c.Self.Body.LinearVelocity.Z - pointVel.Z

		vertical = relVel.Dot(&c.support.Normal)
		horizontal = math32.Vector3{
			X: relVel.X - vertical*c.support.Normal.X,
			Y: relVel.Y - vertical*c.support.Normal.Y,
			Z: relVel.Z - vertical*c.support.Normal.Z,
		}

		// Step 5: never stood on it if we just acquired traction while
		// still flying away from the surface.
		if !c.hadTraction && c.support.Category == SupportWithTraction && vertical < 0 {
			c.support = SupportData{Category: NoSupport}
		}
	}
	_ = horizontal

	// Step 6: jump handling.
	if c.JumpRequested {
		c.JumpRequested = false
		c.tryJump(vertical)
	}

	// Step 7: stepping.
	desiredDisplacement := math32.Vector3{X: c.DesiredVelocity.X * stepProbeDt, Y: 0, Z: c.DesiredVelocity.Z * stepProbeDt}
	if c.stepper.TryStep(desiredDisplacement, c.Up) {
		c.support = c.finder.UpdateSupports()
	}

	// Step 8: ground-glue.
	c.applyGroundGlue()

	// Step 9: hand off support data to the motion constraint.
	if c.support.Found() {
		c.motion.SetSupport(c.support.Normal)
		c.motion.DesiredVelocity = c.DesiredVelocity
	} else {
		c.motion.SetSupport(math32.Vector3{})
	}
}

// tryJump implements spec step 6: apply an up (or anti-normal, on a
// slippery slope) velocity delta sized to reach the configured jump
// speed. A dynamic support receives, at the contact point, a reaction
// impulse of minus that velocity delta times the character's mass
// times JumpForceFactor.
func (c *Controller) tryJump(currentVertical float32) {

	if !c.support.Found() {
		return
	}

	var delta math32.Vector3
	if c.support.Category == SupportWithTraction {
		dv := c.Config.JumpSpeed - currentVertical
		delta = math32.Vector3{X: c.Up.X * dv, Y: c.Up.Y * dv, Z: c.Up.Z * dv}
	} else {
		dv := c.Config.SlidingJumpSpeed - currentVertical
		delta = math32.Vector3{X: -c.support.Normal.X * dv, Y: -c.support.Normal.Y * dv, Z: -c.support.Normal.Z * dv}
	}

	c.Self.Body.LinearVelocity.X += delta.X
	c.Self.Body.LinearVelocity.Y += delta.Y
	c.Self.Body.LinearVelocity.Z += delta.Z

	if c.support.Object != nil && c.support.Object.Body.EffectiveInverseMass() > 0 && c.Self.Body.EffectiveInverseMass() > 0 {
		mass := 1 / c.Self.Body.EffectiveInverseMass()
		scale := -c.Config.JumpForceFactor * mass
		reaction := math32.Vector3{X: delta.X * scale, Y: delta.Y * scale, Z: delta.Z * scale}
		var relativePoint math32.Vector3
		relativePoint.SubVectors(&c.support.Point, &c.support.Object.Body.Position)
		c.support.Object.Body.ApplyImpulse(&reaction, &relativePoint)
	}

	c.support = SupportData{Category: NoSupport}
}

func (c *Controller) onBeforePositionUpdate(name events.Name, payload interface{}) {

	// Repeat the ground-glue block against the latest solver output, so
	// position integration doesn't separate the character from the
	// ground (spec section 4.H, "BeforePositionUpdate phase").
	c.applyGroundGlue()
}

// applyGroundGlue implements spec step 8: while supported with
// traction and not moving away faster than GlueSpeed, cancel the
// character's separating velocity.
func (c *Controller) applyGroundGlue() {

	if c.support.Category != SupportWithTraction {
		return
	}

	pointVel := c.support.PointVelocity()
	relVel := math32.Vector3{
		X: c.Self.Body.LinearVelocity.X - pointVel.X,
		Y: c.Self.Body.LinearVelocity.Y - pointVel.Y,
		Z: c.Self.Body.LinearVelocity.Z - pointVel.Z,
	}
	vertical := relVel.Dot(&c.support.Normal)

	if vertical < 0 && vertical > -c.Config.GlueSpeed {
		c.Self.Body.LinearVelocity.X -= vertical * c.support.Normal.X
		c.Self.Body.LinearVelocity.Y -= vertical * c.support.Normal.Y
		c.Self.Body.LinearVelocity.Z -= vertical * c.support.Normal.Z
	}
}

// stepProbeDt approximates the step's time slice for sizing the
// Stepper's horizontal probe displacement; exact timing doesn't matter
// here since TryStep only needs a representative direction and
// magnitude to decide whether a raised position actually clears an
// obstruction.
const stepProbeDt = 1.0 / 60.0
