package character

import (
	"github.com/anomalousmedical/rigidphysics/math32"
	"github.com/anomalousmedical/rigidphysics/space"
)

// Stepper lets a character climb or descend small ledges without the
// HorizontalMotionConstraint treating them as a wall, by probing
// candidate teleport positions with Space.TestPosition and committing
// the best one directly to the body's position (spec section 4.H step
// 7: "attempt a down-step then an up-step within MaximumStepHeight,
// probing candidate positions before teleporting").
type Stepper struct {
	Space *space.Space
	Self  *space.Object

	// MaximumStepHeight bounds how far up or down the stepper will move
	// the body in a single step.
	MaximumStepHeight float32

	// CheckSlices is how many intermediate heights are probed between 0
	// and MaximumStepHeight when searching for a clear step-up position.
	CheckSlices int
}

// NewStepper creates a Stepper with a modest default step height.
func NewStepper(sp *space.Space, self *space.Object) *Stepper {

	return &Stepper{Space: sp, Self: self, MaximumStepHeight: 0.3, CheckSlices: 3}
}

// TryStep attempts to resolve horizontal motion blocked by a ledge:
// first tries stepping down by the positions between 0 and
// MaximumStepHeight if the character is unsupported at its current
// position, then tries stepping up by the same range (smallest
// clearing offset wins). desiredHorizontal is the character's intended
// horizontal displacement this step, used to test whether the
// stepped-to position actually clears the obstruction. Returns true
// if a teleport was committed.
func (s *Stepper) TryStep(desiredHorizontal math32.Vector3, up math32.Vector3) bool {

	current := s.Self.Body.Position

	if s.tryStepDown(current, up) {
		return true
	}
	return s.tryStepUp(current, desiredHorizontal, up)
}

func (s *Stepper) tryStepUp(current math32.Vector3, desiredHorizontal math32.Vector3, up math32.Vector3) bool {

	if s.CheckSlices <= 0 {
		return false
	}

	// A position blocked at the current height but clear once raised is
	// a step; require it also be clear after moving horizontally, else
	// we'd teleport onto the same wall one step higher.
	forward := math32.Vector3{
		X: current.X + desiredHorizontal.X,
		Y: current.Y + desiredHorizontal.Y,
		Z: current.Z + desiredHorizontal.Z,
	}

	for slice := 1; slice <= s.CheckSlices; slice++ {
		height := s.MaximumStepHeight * float32(slice) / float32(s.CheckSlices)
		raised := addScaled(forward, up, height)

		if len(s.Space.TestPosition(s.Self, raised)) > 0 {
			continue
		}

		// Found a clear raised position; make sure there's floor just
		// below it so we don't fling the character into the air.
		lowered := addScaled(raised, up, -(height + s.MaximumStepHeight*0.1))
		if len(s.Space.TestPosition(s.Self, lowered)) == 0 {
			continue
		}

		s.commit(raised)
		return true
	}

	return false
}

func (s *Stepper) tryStepDown(current math32.Vector3, up math32.Vector3) bool {

	if len(s.Space.TestPosition(s.Self, current)) > 0 {
		// Already resting on something; nothing to step down onto.
		return false
	}

	for slice := 1; slice <= s.CheckSlices; slice++ {
		height := s.MaximumStepHeight * float32(slice) / float32(s.CheckSlices)
		lowered := addScaled(current, up, -height)

		if len(s.Space.TestPosition(s.Self, lowered)) == 0 {
			continue
		}

		s.commit(lowered)
		return true
	}

	return false
}

func (s *Stepper) commit(pos math32.Vector3) {

	s.Self.Body.Position = pos
	s.Space.RefreshPairs(s.Self.ID())
}

func addScaled(v math32.Vector3, dir math32.Vector3, amount float32) math32.Vector3 {

	return math32.Vector3{
		X: v.X + dir.X*amount,
		Y: v.Y + dir.Y*amount,
		Z: v.Z + dir.Z*amount,
	}
}
