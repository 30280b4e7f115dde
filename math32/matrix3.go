// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import "errors"

// Matrix3 is a 3x3 matrix organized internally as a column matrix.
// It is used in the kernel for rotational inertia tensors and rotation
// matrices built from orientation quaternions.
type Matrix3 [9]float32

// NewMatrix3 creates and returns a pointer to a new Matrix3
// initialized as the identity matrix.
func NewMatrix3() *Matrix3 {

	var m Matrix3
	m.Identity()
	return &m
}

// Set sets all the elements of the matrix row by row starting at row1, column1,
// row1, column2, row1, column3 and so forth.
// Returns the pointer to this updated Matrix.
func (m *Matrix3) Set(n11, n12, n13, n21, n22, n23, n31, n32, n33 float32) *Matrix3 {

	m[0] = n11
	m[3] = n12
	m[6] = n13
	m[1] = n21
	m[4] = n22
	m[7] = n23
	m[2] = n31
	m[5] = n32
	m[8] = n33
	return m
}

// Identity sets this matrix as the identity matrix.
// Returns the pointer to this updated matrix.
func (m *Matrix3) Identity() *Matrix3 {

	m.Set(
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	)
	return m
}

// Zero sets all elements of this matrix to zero.
// Used to build the effective inverse inertia of kinematic/static or sleeping bodies.
// Returns the pointer to this updated matrix.
func (m *Matrix3) Zero() *Matrix3 {

	for i := range m {
		m[i] = 0
	}
	return m
}

// Copy copies src matrix into this one.
// Returns the pointer to this updated matrix.
func (m *Matrix3) Copy(src *Matrix3) *Matrix3 {

	*m = *src
	return m
}

// Multiply post-multiplies this matrix by other: m = m * other.
// Returns the pointer to this updated matrix.
func (m *Matrix3) Multiply(other *Matrix3) *Matrix3 {

	return m.MultiplyMatrices(m, other)
}

// MultiplyMatrices sets this matrix to a * b.
// Returns the pointer to this updated matrix.
func (m *Matrix3) MultiplyMatrices(a, b *Matrix3) *Matrix3 {

	a11, a12, a13 := a[0], a[3], a[6]
	a21, a22, a23 := a[1], a[4], a[7]
	a31, a32, a33 := a[2], a[5], a[8]

	b11, b12, b13 := b[0], b[3], b[6]
	b21, b22, b23 := b[1], b[4], b[7]
	b31, b32, b33 := b[2], b[5], b[8]

	m[0] = a11*b11 + a12*b21 + a13*b31
	m[3] = a11*b12 + a12*b22 + a13*b32
	m[6] = a11*b13 + a12*b23 + a13*b33

	m[1] = a21*b11 + a22*b21 + a23*b31
	m[4] = a21*b12 + a22*b22 + a23*b32
	m[7] = a21*b13 + a22*b23 + a23*b33

	m[2] = a31*b11 + a32*b21 + a33*b31
	m[5] = a31*b12 + a32*b22 + a33*b32
	m[8] = a31*b13 + a32*b23 + a33*b33
	return m
}

// MultiplyScalar multiplies each of this matrix's components by the specified scalar.
// Returns pointer to this updated matrix.
func (m *Matrix3) MultiplyScalar(s float32) *Matrix3 {

	for i := range m {
		m[i] *= s
	}
	return m
}

// Determinant calculates and returns the determinant of this matrix.
func (m *Matrix3) Determinant() float32 {

	return m[0]*m[4]*m[8] -
		m[0]*m[5]*m[7] -
		m[1]*m[3]*m[8] +
		m[1]*m[5]*m[6] +
		m[2]*m[3]*m[7] -
		m[2]*m[4]*m[6]
}

// GetInverse sets this matrix to the inverse of the src matrix.
// A rotational inertia tensor is always symmetric positive definite and
// thus always invertible; callers that pass a degenerate (zero-mass) matrix
// get an error and an identity result rather than a divide-by-zero NaN.
func (m *Matrix3) GetInverse(src *Matrix3) error {

	n11, n21, n31 := src[0], src[1], src[2]
	n12, n22, n32 := src[3], src[4], src[5]
	n13, n23, n33 := src[6], src[7], src[8]

	t11 := n33*n22 - n32*n23
	t12 := n32*n13 - n33*n12
	t13 := n23*n12 - n22*n13

	det := n11*t11 + n21*t12 + n31*t13
	if det == 0 {
		m.Identity()
		return errors.New("math32: cannot invert singular Matrix3")
	}
	invDet := 1 / det

	m[0] = t11 * invDet
	m[1] = (n31*n23 - n33*n21) * invDet
	m[2] = (n32*n21 - n31*n22) * invDet

	m[3] = t12 * invDet
	m[4] = (n33*n11 - n31*n13) * invDet
	m[5] = (n31*n12 - n32*n11) * invDet

	m[6] = t13 * invDet
	m[7] = (n21*n13 - n23*n11) * invDet
	m[8] = (n22*n11 - n21*n12) * invDet
	return nil
}

// Transpose transposes this matrix in place.
// Returns pointer to this updated matrix.
func (m *Matrix3) Transpose() *Matrix3 {

	m[1], m[3] = m[3], m[1]
	m[2], m[6] = m[6], m[2]
	m[5], m[7] = m[7], m[5]
	return m
}

// MakeRotationFromQuaternion sets this matrix as the rotation matrix equivalent
// to the specified unit quaternion.
// Returns the pointer to this updated matrix.
func (m *Matrix3) MakeRotationFromQuaternion(q *Quaternion) *Matrix3 {

	x, y, z, w := q.X, q.Y, q.Z, q.W

	x2 := x + x
	y2 := y + y
	z2 := z + z

	xx := x * x2
	xy := x * y2
	xz := x * z2
	yy := y * y2
	yz := y * z2
	zz := z * z2
	wx := w * x2
	wy := w * y2
	wz := w * z2

	m[0] = 1 - (yy + zz)
	m[3] = xy - wz
	m[6] = xz + wy

	m[1] = xy + wz
	m[4] = 1 - (xx + zz)
	m[7] = yz - wx

	m[2] = xz - wy
	m[5] = yz + wx
	m[8] = 1 - (xx + yy)
	return m
}

// Clone creates and returns a pointer to a copy of this matrix.
func (m *Matrix3) Clone() *Matrix3 {

	cloned := *m
	return &cloned
}
