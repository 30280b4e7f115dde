package narrowphase

import "github.com/anomalousmedical/rigidphysics/math32"

const maxManifoldPoints = 4

// ContactPoint is one contact within a manifold (spec section 3):
// world position, unit normal pointing from A to B, penetration
// depth, and a stable feature id used to match this contact against
// its counterpart in the previous frame's manifold for warm starting.
type ContactPoint struct {
	Position    math32.Vector3
	Normal      math32.Vector3
	Penetration float32
	FeatureID   uint64

	// AccumulatedNormalImpulse and AccumulatedFrictionImpulse persist
	// across frames when FeatureID matches, eliminating warm-start
	// jitter (spec section 3: "retained contacts carry forward their
	// accumulated impulses; new contacts start at zero").
	AccumulatedNormalImpulse   float32
	AccumulatedFrictionImpulse math32.Vector3
}

// Manifold is the persistent contact set for one candidate pair: at
// most 4 contacts, chosen to maximize the area they span.
type Manifold struct {
	Points [maxManifoldPoints]ContactPoint
	Count  int
}

// Merge replaces the manifold's contacts with fresh, selecting at most
// 4 via reduceToFour and carrying forward accumulated impulses from
// any previous contact whose FeatureID matches.
func (m *Manifold) Merge(fresh []ContactPoint) {

	reduced := reduceToFour(fresh)

	var next Manifold
	next.Count = len(reduced)
	for i, c := range reduced {
		if prev, ok := m.find(c.FeatureID); ok {
			c.AccumulatedNormalImpulse = prev.AccumulatedNormalImpulse
			c.AccumulatedFrictionImpulse = prev.AccumulatedFrictionImpulse
		}
		next.Points[i] = c
	}
	*m = next
}

func (m *Manifold) find(featureID uint64) (ContactPoint, bool) {

	for i := 0; i < m.Count; i++ {
		if m.Points[i].FeatureID == featureID {
			return m.Points[i], true
		}
	}
	return ContactPoint{}, false
}

// reduceToFour implements the standard manifold-reduction heuristic
// (spec section 4.C-D): keep the deepest contact, then greedily add
// the three remaining points that maximize the signed area of the
// growing polygon.
func reduceToFour(points []ContactPoint) []ContactPoint {

	if len(points) <= maxManifoldPoints {
		return points
	}

	deepestIdx := 0
	for i, p := range points {
		if p.Penetration > points[deepestIdx].Penetration {
			deepestIdx = i
		}
	}

	chosen := []int{deepestIdx}
	for len(chosen) < maxManifoldPoints {
		bestIdx := -1
		bestArea := float32(-1)
		for i := range points {
			if containsInt(chosen, i) {
				continue
			}
			area := polygonAreaWith(points, chosen, i)
			if area > bestArea {
				bestArea = area
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		chosen = append(chosen, bestIdx)
	}

	out := make([]ContactPoint, len(chosen))
	for i, idx := range chosen {
		out[i] = points[idx]
	}
	return out
}

func containsInt(s []int, v int) bool {

	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// polygonAreaWith returns twice the area of the polygon formed by points at
// indices chosen plus candidate, projected onto the plane of the
// first chosen point's normal.
func polygonAreaWith(points []ContactPoint, chosen []int, candidate int) float32 {

	normal := points[chosen[0]].Normal
	var total float32
	all := append(append([]int{}, chosen...), candidate)
	origin := points[all[0]].Position
	for i := 1; i+1 < len(all); i++ {
		var e1, e2, cross math32.Vector3
		e1.SubVectors(&points[all[i]].Position, &origin)
		e2.SubVectors(&points[all[i+1]].Position, &origin)
		cross.CrossVectors(&e1, &e2)
		total += cross.Dot(&normal)
	}
	if total < 0 {
		total = -total
	}
	return total
}
