package body

import "github.com/anomalousmedical/rigidphysics/math32"

// ForceField supplies a force at a given world position, applied to
// every body in range before integration alongside gravity and
// damping. Adapted from the teacher's physics.ForceField.
type ForceField interface {
	ForceAt(pos *math32.Vector3) *math32.Vector3
}

// ConstantForceField is a uniform force applied everywhere, used to
// model surface gravity.
type ConstantForceField struct {
	force math32.Vector3
}

// NewConstantForceField creates a downward (-Z) force field of the
// given magnitude, matching the teacher's gravity convention.
func NewConstantForceField(acceleration float32) *ConstantForceField {

	return &ConstantForceField{force: math32.Vector3{X: 0, Y: 0, Z: -acceleration}}
}

// SetForce replaces the field's force vector.
func (f *ConstantForceField) SetForce(v *math32.Vector3) {

	f.force = *v
}

// Force returns the field's force vector.
func (f *ConstantForceField) Force() *math32.Vector3 {

	return &f.force
}

// ForceAt implements ForceField.
func (f *ConstantForceField) ForceAt(pos *math32.Vector3) *math32.Vector3 {

	return &f.force
}

// PointAttractorForceField pulls toward a point with inverse-square
// falloff, modeling a planetary attraction.
type PointAttractorForceField struct {
	position math32.Vector3
	mass     float32
}

// NewPointAttractorForceField creates a field centered at position
// with the given attracting mass.
func NewPointAttractorForceField(position *math32.Vector3, mass float32) *PointAttractorForceField {

	return &PointAttractorForceField{position: *position, mass: mass}
}

// SetPosition moves the attractor.
func (f *PointAttractorForceField) SetPosition(p *math32.Vector3) {

	f.position = *p
}

// Position returns the attractor's position.
func (f *PointAttractorForceField) Position() *math32.Vector3 {

	return &f.position
}

// ForceAt implements ForceField.
func (f *PointAttractorForceField) ForceAt(pos *math32.Vector3) *math32.Vector3 {

	dir := f.position
	dir.Sub(pos)
	dist := dir.Length()
	if dist == 0 {
		return &math32.Vector3{}
	}
	dir.Normalize()
	dir.MultiplyScalar(f.mass / (dist * dist))
	return &dir
}

// PointRepellerForceField pushes away from a point with inverse-square
// falloff.
type PointRepellerForceField struct {
	position math32.Vector3
	mass     float32
}

// NewPointRepellerForceField creates a field centered at position with
// the given repelling mass.
func NewPointRepellerForceField(position *math32.Vector3, mass float32) *PointRepellerForceField {

	return &PointRepellerForceField{position: *position, mass: mass}
}

// SetPosition moves the repeller.
func (f *PointRepellerForceField) SetPosition(p *math32.Vector3) {

	f.position = *p
}

// Position returns the repeller's position.
func (f *PointRepellerForceField) Position() *math32.Vector3 {

	return &f.position
}

// ForceAt implements ForceField.
func (f *PointRepellerForceField) ForceAt(pos *math32.Vector3) *math32.Vector3 {

	dir := *pos
	dir.Sub(&f.position)
	dist := dir.Length()
	if dist == 0 {
		return &math32.Vector3{}
	}
	dir.Normalize()
	dir.MultiplyScalar(f.mass / (dist * dist))
	return &dir
}
