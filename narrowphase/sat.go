// Contact generation for the narrow phase. Grounded on
// g3n-engine/physics/narrowphase.go's FindPenetrationAxis /
// TestPenetrationAxis / ProjectOntoWorldAxis / ClipAgainstHull, but
// specialized to box and sphere primitives rather than a generic
// convex polyhedron. Spec section 4.C permits "analytic tests for
// primitive pairs" alongside GJK/EPA — see DESIGN.md for why a full
// generic polytope narrow phase was judged out of budget.
package narrowphase

import "github.com/anomalousmedical/rigidphysics/math32"

// Pose is the minimal per-body state contact generation needs.
type Pose struct {
	Position    math32.Vector3
	Orientation math32.Quaternion
}

// Generate computes fresh contact points between two shapes at the
// given poses. Returns nil if the shapes are not overlapping.
func Generate(shapeA Shape, poseA Pose, shapeB Shape, poseB Pose) []ContactPoint {

	switch a := shapeA.(type) {
	case *Sphere:
		switch b := shapeB.(type) {
		case *Sphere:
			return sphereSphere(a, poseA, b, poseB)
		case *Box:
			return sphereBox(a, poseA, b, poseB, true)
		}
	case *Box:
		switch b := shapeB.(type) {
		case *Sphere:
			return sphereBox(b, poseB, a, poseA, false)
		case *Box:
			return boxBox(a, poseA, b, poseB)
		}
	}
	return nil
}

func sphereSphere(a *Sphere, poseA Pose, b *Sphere, poseB Pose) []ContactPoint {

	var delta math32.Vector3
	delta.SubVectors(&poseB.Position, &poseA.Position)
	dist := delta.Length()
	radiusSum := a.Radius + b.Radius
	if dist >= radiusSum {
		return nil
	}

	var normal math32.Vector3
	if dist > 1e-8 {
		normal = delta
		normal.MultiplyScalar(1 / dist)
	} else {
		normal = math32.Vector3{X: 0, Y: 1, Z: 0}
	}

	var onA math32.Vector3
	onA.Copy(&normal).MultiplyScalar(a.Radius).Add(&poseA.Position)

	return []ContactPoint{{
		Position:    onA,
		Normal:      normal,
		Penetration: radiusSum - dist,
		FeatureID:   1,
	}}
}

// sphereBox computes contacts between a sphere and a box. sphereIsA
// reports whether the sphere was Generate's first argument; if so the
// normal is flipped to point sphere->box, otherwise it points
// box->sphere — contacts are always returned pointing from the first
// Generate argument to the second, matching ContactPoint's documented
// A-to-B convention.
func sphereBox(s *Sphere, sPose Pose, b *Box, bPose Pose, sphereIsA bool) []ContactPoint {

	var localSphere math32.Vector3
	localSphere.SubVectors(&sPose.Position, &bPose.Position)
	inv := bPose.Orientation
	inv.Conjugate()
	localSphere.ApplyQuaternion(&inv)

	he := b.HalfExtents
	clamped := math32.Vector3{
		X: math32.Clamp(localSphere.X, -he.X, he.X),
		Y: math32.Clamp(localSphere.Y, -he.Y, he.Y),
		Z: math32.Clamp(localSphere.Z, -he.Z, he.Z),
	}

	var localDelta math32.Vector3
	localDelta.SubVectors(&localSphere, &clamped)
	dist := localDelta.Length()
	if dist >= s.Radius {
		return nil
	}

	var localNormal math32.Vector3
	if dist > 1e-8 {
		localNormal = localDelta
		localNormal.MultiplyScalar(1 / dist)
	} else {
		localNormal = math32.Vector3{X: 0, Y: 0, Z: 1}
	}

	worldClamped := clamped
	worldClamped.ApplyQuaternion(&bPose.Orientation)
	worldClamped.Add(&bPose.Position)

	worldNormal := localNormal
	worldNormal.ApplyQuaternion(&bPose.Orientation)

	penetration := s.Radius - dist

	// The normal here points box->sphere; flip it when the original
	// Generate args were (sphere, box) so it points sphere->box.
	if sphereIsA {
		worldNormal.Negate()
	}

	return []ContactPoint{{
		Position:    worldClamped,
		Normal:      worldNormal,
		Penetration: penetration,
		FeatureID:   1,
	}}
}

// boxBox runs SAT over the 15 candidate axes (3 face normals of A, 3
// of B, 9 edge-edge cross products), then generates a contact manifold
// by clipping the incident face of the far box against the side
// planes of the reference face on the near box — the standard
// face-clip manifold technique, specialized from the teacher's
// ClipAgainstHull/ClipFaceAgainstHull/ClipFaceAgainstPlane pipeline to
// two boxes instead of arbitrary convex hulls.
func boxBox(a *Box, poseA Pose, b *Box, poseB Pose) []ContactPoint {

	axesA := worldAxes(&poseA.Orientation)
	axesB := worldAxes(&poseB.Orientation)

	var candidates []math32.Vector3
	candidates = append(candidates, axesA[:]...)
	candidates = append(candidates, axesB[:]...)
	for _, ea := range axesA {
		for _, eb := range axesB {
			var cross math32.Vector3
			cross.CrossVectors(&ea, &eb)
			if cross.Length() > 1e-6 {
				cross.Normalize()
				candidates = append(candidates, cross)
			}
		}
	}

	depthMin := math32.Infinity
	var bestAxis math32.Vector3
	bestIsFaceA, bestIsFaceB := false, false

	for i, axis := range candidates {
		penetrating, depth := testAxis(axis, a, poseA, b, poseB)
		if !penetrating {
			return nil
		}
		if depth < depthMin {
			depthMin = depth
			bestAxis = axis
			bestIsFaceA = i < 3
			bestIsFaceB = i >= 3 && i < 6
		}
	}

	var delta math32.Vector3
	delta.SubVectors(&poseA.Position, &poseB.Position)
	if delta.Dot(&bestAxis) > 0 {
		bestAxis.Negate()
	}
	// bestAxis now points from A to B.

	if bestIsFaceA || bestIsFaceB {
		return clipFaceContacts(bestAxis, a, poseA, b, poseB, bestIsFaceA)
	}

	// Edge-edge case: approximate with a single contact at the
	// midpoint between the two box centers, a standard simplification when full closest-segment-point
	// computation is out of scope for this primitive-pair path.
	var mid math32.Vector3
	mid.AddVectors(&poseA.Position, &poseB.Position).MultiplyScalar(0.5)
	return []ContactPoint{{
		Position:    mid,
		Normal:      bestAxis,
		Penetration: depthMin,
		FeatureID:   2,
	}}
}

func testAxis(axis math32.Vector3, a *Box, poseA Pose, b *Box, poseB Pose) (bool, float32) {

	maxA, minA := projectBox(a, poseA, &axis)
	maxB, minB := projectBox(b, poseB, &axis)

	if maxA < minB || maxB < minA {
		return false, 0
	}
	d0 := maxA - minB
	d1 := maxB - minA
	if d0 < d1 {
		return true, d0
	}
	return true, d1
}

func projectBox(box *Box, pose Pose, axis *math32.Vector3) (max, min float32) {

	verts := boxVertices(box, &pose.Position, &pose.Orientation)
	max, min = -math32.Infinity, math32.Infinity
	for _, v := range verts {
		d := v.Dot(axis)
		if d > max {
			max = d
		}
		if d < min {
			min = d
		}
	}
	return
}

// clipFaceContacts builds a manifold by clipping the incident face of
// the non-reference box against the four side planes of the reference
// face, per the teacher's ClipFaceAgainstHull/ClipFaceAgainstPlane
// (Sutherland-Hodgman) pipeline.
func clipFaceContacts(axisAtoB math32.Vector3, a *Box, poseA Pose, b *Box, poseB Pose, referenceIsA bool) []ContactPoint {

	refBox, refPose := a, poseA
	incBox, incPose := b, poseB
	refAxis := axisAtoB
	if !referenceIsA {
		refBox, refPose = b, poseB
		incBox, incPose = a, poseA
		refAxis = axisAtoB
		refAxis.Negate()
	}

	refAxisIdx, refSign := faceAxisIndex(&refPose.Orientation, &refAxis)
	refFace := faceVertices(refBox, &refPose.Position, &refPose.Orientation, refAxisIdx, refSign)

	incAxisIdx, incSign := mostAntiParallelFace(&incPose.Orientation, &refAxis)
	incFace := faceVertices(incBox, &incPose.Position, &incPose.Orientation, incAxisIdx, incSign)

	clipped := incFace[:]
	axes := worldAxes(&refPose.Orientation)
	he := [3]float32{refBox.HalfExtents.X, refBox.HalfExtents.Y, refBox.HalfExtents.Z}
	for i := 0; i < 3; i++ {
		if i == refAxisIdx {
			continue
		}
		planeNormal := axes[i]
		var basePos math32.Vector3
		basePos.Copy(&refPose.Position)
		clipped = clipPolygonAgainstPlane(clipped, planeNormal, he[i]+dotOffset(&planeNormal, &basePos))
		negNormal := planeNormal
		negNormal.Negate()
		clipped = clipPolygonAgainstPlane(clipped, negNormal, he[i]-dotOffset(&planeNormal, &basePos))
	}

	refPlaneNormal := axes[refAxisIdx]
	refPlaneNormal.MultiplyScalar(refSign)
	var refPoint math32.Vector3
	refPoint.Copy(&refFace[0])
	planeConst := -refPlaneNormal.Dot(&refPoint)

	normal := axisAtoB
	var out []ContactPoint
	for i, v := range clipped {
		depth := -(refPlaneNormal.Dot(&v) + planeConst)
		if depth >= 0 {
			onRef := v
			onRef.AddScaledVector(&refPlaneNormal, depth)
			out = append(out, ContactPoint{
				Position:    onRef,
				Normal:      normal,
				Penetration: depth,
				FeatureID:   uint64(100 + i),
			})
		}
	}
	return out
}

func dotOffset(axis, pos *math32.Vector3) float32 {

	return axis.Dot(pos)
}

// faceAxisIndex returns which local axis (0,1,2) of orientation is
// most closely aligned with worldAxis, and the sign of that alignment.
func faceAxisIndex(orientation *math32.Quaternion, worldAxis *math32.Vector3) (idx int, sign float32) {

	axes := worldAxes(orientation)
	best := float32(-2)
	for i, a := range axes {
		d := a.Dot(worldAxis)
		if absf(d) > best {
			best = absf(d)
			idx = i
			if d >= 0 {
				sign = 1
			} else {
				sign = -1
			}
		}
	}
	return
}

// mostAntiParallelFace finds the face of a box (by local axis index
// and sign) whose outward normal is most anti-parallel to
// referenceAxis — the standard choice of "incident face" in box-box
// manifold generation.
func mostAntiParallelFace(orientation *math32.Quaternion, referenceAxis *math32.Vector3) (idx int, sign float32) {

	axes := worldAxes(orientation)
	best := float32(2)
	for i, a := range axes {
		for _, s := range [2]float32{1, -1} {
			n := a
			n.MultiplyScalar(s)
			d := n.Dot(referenceAxis)
			if d < best {
				best = d
				idx = i
				sign = s
			}
		}
	}
	return
}

func clipPolygonAgainstPlane(poly []math32.Vector3, planeNormal math32.Vector3, planeConst float32) []math32.Vector3 {

	if len(poly) < 2 {
		return poly
	}
	var out []math32.Vector3
	prev := poly[len(poly)-1]
	dPrev := planeNormal.Dot(&prev) - planeConst
	for _, cur := range poly {
		dCur := planeNormal.Dot(&cur) - planeConst
		if dPrev <= 0 {
			if dCur <= 0 {
				out = append(out, cur)
			} else {
				var v math32.Vector3
				v.Copy(&prev).Lerp(&cur, dPrev/(dPrev-dCur))
				out = append(out, v)
			}
		} else {
			if dCur <= 0 {
				var v math32.Vector3
				v.Copy(&prev).Lerp(&cur, dPrev/(dPrev-dCur))
				out = append(out, v, cur)
			}
		}
		prev = cur
		dPrev = dCur
	}
	return out
}

func absf(v float32) float32 {

	if v < 0 {
		return -v
	}
	return v
}
