package body

import "github.com/anomalousmedical/rigidphysics/math32"

// Material specifies a surface's friction and bounciness.
type Material struct {
	Name        string
	Friction    float32
	Restitution float32
}

// NewMaterial creates a named Material.
func NewMaterial(name string, friction, restitution float32) *Material {

	return &Material{Name: name, Friction: friction, Restitution: restitution}
}

// ContactMaterial is an explicit override of the blended friction and
// restitution two specific materials would otherwise produce.
type ContactMaterial struct {
	MatA, MatB  *Material
	Friction    float32
	Restitution float32
}

// BlendMaterials computes the default friction/restitution for a
// contact between a and b per spec section 4.E: effective friction is
// the geometric mean of the two frictions, effective restitution is
// the max of the two restitutions.
func BlendMaterials(a, b *Material) (friction, restitution float32) {

	return math32.Sqrt(a.Friction * b.Friction), math32.Max(a.Restitution, b.Restitution)
}

// pairKey is an order-independent identity for a pair of materials,
// used to key the contact-material override table the same way the
// teacher's Simulation keys its ContactMaterial lookup. Keyed by name
// since Material values are expected to be distinct per name within a
// single simulation.
type pairKey struct {
	a, b string
}

func newPairKey(a, b *Material) pairKey {

	if a.Name <= b.Name {
		return pairKey{a.Name, b.Name}
	}
	return pairKey{b.Name, a.Name}
}

// MaterialTable holds explicit ContactMaterial overrides, consulted
// before the default blend formula. Adapted from the teacher's
// Simulation.AddContactMaterial/GetContactMaterial pair-keyed table.
type MaterialTable struct {
	overrides map[pairKey]*ContactMaterial
}

// NewMaterialTable creates an empty override table.
func NewMaterialTable() *MaterialTable {

	return &MaterialTable{overrides: make(map[pairKey]*ContactMaterial)}
}

// Add registers an explicit override for the (a,b) material pair.
func (t *MaterialTable) Add(cm *ContactMaterial) {

	t.overrides[newPairKey(cm.MatA, cm.MatB)] = cm
}

// Get returns the ContactMaterial registered for (a,b), if any.
func (t *MaterialTable) Get(a, b *Material) (*ContactMaterial, bool) {

	cm, ok := t.overrides[newPairKey(a, b)]
	return cm, ok
}

// Resolve returns the friction/restitution to use for a contact
// between a and b: the override table's entry if one is registered,
// otherwise the default blend.
func (t *MaterialTable) Resolve(a, b *Material) (friction, restitution float32) {

	if cm, ok := t.Get(a, b); ok {
		return cm.Friction, cm.Restitution
	}
	return BlendMaterials(a, b)
}
