package math32

import "testing"

// quaternion->matrix->quaternion round-trip is identity within 1e-5
// (spec section 8, "Round-trip / idempotence").
func TestQuaternionMatrixRoundTrip(t *testing.T) {

	diagAxis := Vector3{X: 1, Y: 1, Z: 1}
	diagAxis.Normalize()

	cases := []*Quaternion{
		NewQuaternion(0, 0, 0, 1),
		NewQuaternion(0, 0, 0, 1).SetFromAxisAngle(&Vector3{X: 0, Y: 1, Z: 0}, 1.2),
		NewQuaternion(0, 0, 0, 1).SetFromAxisAngle(&Vector3{X: 1, Y: 0, Z: 0}, -0.7),
		NewQuaternion(0, 0, 0, 1).SetFromAxisAngle(&diagAxis, 2.4),
	}

	for i, q := range cases {
		var m Matrix3
		m.MakeRotationFromQuaternion(q)

		var back Quaternion
		back.SetFromRotationMatrix(&m)

		// q and -q represent the same rotation; accept either sign.
		neg := NewQuaternion(-back.X, -back.Y, -back.Z, -back.W)
		if !quatAlmostEqual(q, &back, 1e-5) && !quatAlmostEqual(q, neg, 1e-5) {
			t.Errorf("case %d: round trip %v -> %v not within tolerance", i, q, back)
		}
	}
}

func quatAlmostEqual(a, b *Quaternion, tol float32) bool {

	return Abs(a.X-b.X) < tol && Abs(a.Y-b.Y) < tol && Abs(a.Z-b.Z) < tol && Abs(a.W-b.W) < tol
}

func TestVector3NormalizeReturnsReceiver(t *testing.T) {

	v := &Vector3{X: 1, Y: 1, Z: 1}
	if got := v.Normalize(); got != v {
		t.Fatalf("Normalize should return its receiver")
	}
}
