// Package character implements the kernel's worked compound consumer
// (spec section 4.H): a vertical-cylinder character body driven by a
// SupportFinder, a HorizontalMotionConstraint, and a Stepper. No
// teacher equivalent exists in g3n-engine — this package is grounded
// directly on the spec's fully-specified per-step algorithm, built
// from the already-grounded body/constraint/space/narrowphase
// primitives.
package character

import (
	"github.com/anomalousmedical/rigidphysics/math32"
	"github.com/anomalousmedical/rigidphysics/narrowphase"
	"github.com/anomalousmedical/rigidphysics/space"
)

// SupportCategory classifies what, if anything, a character is
// standing on (spec section 4.H: "three categories { none,
// support-no-traction, support-with-traction }").
type SupportCategory int

const (
	NoSupport SupportCategory = iota
	SupportNoTraction
	SupportWithTraction
)

// SupportData is the result of one SupportFinder.UpdateSupports call.
// Normal points from the character toward the supporting surface.
type SupportData struct {
	Category SupportCategory
	Normal   math32.Vector3
	Point    math32.Vector3
	Object   *space.Object
}

// Found reports whether any support (with or without traction) exists.
func (d SupportData) Found() bool {

	return d.Category != NoSupport
}

// PointVelocity returns the world velocity of the supporting object's
// material point at d.Point, or the zero vector if there is no
// support — used to compute the character's velocity relative to
// whatever it's standing on (spec section 4.H step 3).
func (d SupportData) PointVelocity() math32.Vector3 {

	if d.Object == nil {
		return math32.Vector3{}
	}
	return d.Object.Body.VelocityAtWorldPoint(&d.Point)
}

// SupportFinder classifies the character's current contacts into a
// single best SupportData, per spec section 4.H.
type SupportFinder struct {
	Space *space.Space
	Self  *space.Object

	// Up is the world up direction used to classify slope (spec
	// implies a world-up notion via "vertical = relVel . supportNormal").
	Up math32.Vector3

	// MinTractionCos is the minimum dot product of Up with the surface
	// normal (the negated support normal) for a contact to count as
	// traction rather than a slippery slope.
	MinTractionCos float32
}

// NewSupportFinder creates a finder using +Y as up and a traction
// threshold equivalent to roughly a 45 degree maximum slope.
func NewSupportFinder(sp *space.Space, self *space.Object) *SupportFinder {

	return &SupportFinder{
		Space:          sp,
		Self:           self,
		Up:             math32.Vector3{X: 0, Y: 1, Z: 0},
		MinTractionCos: 0.7,
	}
}

// UpdateSupports scans every narrow-phase pair currently touching Self
// and returns the best support found: traction beats no-traction beats
// none, per spec section 4.H step 2 ("pick traction data if present,
// else support data, else none").
func (f *SupportFinder) UpdateSupports() SupportData {

	best := SupportData{Category: NoSupport}

	for _, pair := range f.Space.PairsInvolving(f.Self.ID()) {
		if pair.State != narrowphase.Touching {
			continue
		}

		selfIsA := pair.IDA == f.Self.ID()
		otherID := pair.IDB
		if !selfIsA {
			otherID = pair.IDA
		}
		other := f.Space.Object(otherID)
		if other == nil {
			continue
		}

		for i := 0; i < pair.Manifold.Count; i++ {
			cp := pair.Manifold.Points[i]
			normal := cp.Normal
			if !selfIsA {
				// cp.Normal points other->Self; flip so it points from
				// the character toward the supporting surface.
				normal.Negate()
			}

			up := -normal.Dot(&f.Up)
			if up <= 0 {
				continue
			}

			category := SupportNoTraction
			if up >= f.MinTractionCos {
				category = SupportWithTraction
			}
			if category > best.Category {
				best = SupportData{Category: category, Normal: normal, Point: cp.Position, Object: other}
			}
		}
	}

	return best
}
