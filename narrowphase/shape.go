package narrowphase

import "github.com/anomalousmedical/rigidphysics/math32"

// ShapeKind discriminates the closed set of convex primitives this
// narrow phase understands. A tagged union dispatched by a type
// switch, per spec section 9's guidance to prefer a closed
// tagged-union over inheritance-style dispatch in the hot path.
type ShapeKind int

const (
	KindSphere ShapeKind = iota
	KindBox
)

// Shape is implemented by Sphere and Box.
type Shape interface {
	Kind() ShapeKind
}

// Sphere is a convex primitive of constant radius about the body's
// center of mass.
type Sphere struct {
	Radius float32
}

// Kind implements Shape.
func (Sphere) Kind() ShapeKind { return KindSphere }

// Box is an axis-aligned (in local/body space) rectangular prism
// specified by its half-extents.
type Box struct {
	HalfExtents math32.Vector3
}

// Kind implements Shape.
func (Box) Kind() ShapeKind { return KindBox }

// localAxes are the three local unit axes of a Box, in the order the
// SAT test below enumerates face normals.
var localAxes = [3]math32.Vector3{
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1},
}

// worldAxes returns the Box's three local axes rotated into world
// space by orientation — the candidate face-normal SAT axes for this
// box, matching the teacher's WorldFaceNormals() for a convex hull
// specialized to the three unique directions a rectangular prism has.
func worldAxes(orientation *math32.Quaternion) [3]math32.Vector3 {

	var out [3]math32.Vector3
	for i, a := range localAxes {
		v := a
		v.ApplyQuaternion(orientation)
		out[i] = v
	}
	return out
}

// WorldAABB computes the world-space axis-aligned bounding box of
// shape at the given pose, expanded by margin — the broad phase's
// Collidable.AABB() source of truth, computed here since only this
// package knows each shape's geometry.
func WorldAABB(shape Shape, pos *math32.Vector3, orientation *math32.Quaternion, margin float32) math32.Box3 {

	var box math32.Box3
	switch s := shape.(type) {
	case *Sphere:
		r := s.Radius + margin
		box.Min = math32.Vector3{X: pos.X - r, Y: pos.Y - r, Z: pos.Z - r}
		box.Max = math32.Vector3{X: pos.X + r, Y: pos.Y + r, Z: pos.Z + r}
	case *Box:
		verts := boxVertices(s, pos, orientation)
		box.Min = verts[0]
		box.Max = verts[0]
		for _, v := range verts[1:] {
			if v.X < box.Min.X {
				box.Min.X = v.X
			}
			if v.Y < box.Min.Y {
				box.Min.Y = v.Y
			}
			if v.Z < box.Min.Z {
				box.Min.Z = v.Z
			}
			if v.X > box.Max.X {
				box.Max.X = v.X
			}
			if v.Y > box.Max.Y {
				box.Max.Y = v.Y
			}
			if v.Z > box.Max.Z {
				box.Max.Z = v.Z
			}
		}
		box.Min.X -= margin
		box.Min.Y -= margin
		box.Min.Z -= margin
		box.Max.X += margin
		box.Max.Y += margin
		box.Max.Z += margin
	}
	return box
}

// boxVertices returns the 8 world-space corners of a Box at the given
// pose, ordered so that corners[i^1] is always the neighbor differing
// only in the X-axis sign, corners[i^2] in Y, corners[i^4] in Z.
func boxVertices(box *Box, pos *math32.Vector3, orientation *math32.Quaternion) [8]math32.Vector3 {

	he := box.HalfExtents
	var out [8]math32.Vector3
	for i := 0; i < 8; i++ {
		sx := signBit(i&1 != 0)
		sy := signBit(i&2 != 0)
		sz := signBit(i&4 != 0)
		local := math32.Vector3{X: sx * he.X, Y: sy * he.Y, Z: sz * he.Z}
		local.ApplyQuaternion(orientation)
		local.Add(pos)
		out[i] = local
	}
	return out
}

func signBit(b bool) float32 {

	if b {
		return 1
	}
	return -1
}

// faceVertices returns the 4 world-space corners of the box face whose
// outward normal is axisIndex (0=X,1=Y,2=Z) times sign (+1 or -1), in
// counter-clockwise winding as seen from outside the box.
func faceVertices(box *Box, pos *math32.Vector3, orientation *math32.Quaternion, axisIndex int, sign float32) [4]math32.Vector3 {

	he := box.HalfExtents
	var u, v int
	switch axisIndex {
	case 0:
		u, v = 1, 2
	case 1:
		u, v = 0, 2
	default:
		u, v = 0, 1
	}

	base := [3]float32{he.X, he.Y, he.Z}
	mk := func(nSigned, uSign, vSign float32) math32.Vector3 {
		comp := [3]float32{}
		comp[axisIndex] = nSigned * base[axisIndex]
		comp[u] = uSign * base[u]
		comp[v] = vSign * base[v]
		local := math32.Vector3{X: comp[0], Y: comp[1], Z: comp[2]}
		local.ApplyQuaternion(orientation)
		local.Add(pos)
		return local
	}

	return [4]math32.Vector3{
		mk(sign, -1, -1),
		mk(sign, 1, -1),
		mk(sign, 1, 1),
		mk(sign, -1, 1),
	}
}
