package math3d

import "math"

// Mat3 is a 3x3 matrix stored in column-major order.
//
// Memory layout (indices):
// | 0  3  6 |
// | 1  4  7 |
// | 2  5  8 |
//
// Columns are the images of the X, Y and Z basis vectors, so for a camera
// rotation column 2 is the viewing direction.
type Mat3 [9]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mat3FromCols builds a matrix from its three column vectors.
func Mat3FromCols(c0, c1, c2 Vec3) Mat3 {
	return Mat3{
		c0.X, c0.Y, c0.Z,
		c1.X, c1.Y, c1.Z,
		c2.X, c2.Y, c2.Z,
	}
}

// YawRotation returns a rotation about the vertical (Y) axis.
// Column 0 is (cos, 0, -sin), column 1 is fixed to (0, 1, 0) and column 2 is
// (sin, 0, cos).
func YawRotation(yaw float64) Mat3 {
	c, s := math.Cos(yaw), math.Sin(yaw)
	return Mat3FromCols(
		V3(c, 0, -s),
		Up(),
		V3(s, 0, c),
	)
}

// Col returns column i.
func (m Mat3) Col(i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// MulVec3 returns m * v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	for col := range 3 {
		for row := range 3 {
			var sum float64
			for k := range 3 {
				sum += a[row+k*3] * b[k+col*3]
			}
			m[row+col*3] = sum
		}
	}
	return m
}

// Transpose returns the transposed matrix. For a rotation this is its inverse.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Determinant returns the determinant of the matrix.
func (m Mat3) Determinant() float64 {
	return Det3(m.Col(0), m.Col(1), m.Col(2))
}

// Det3 returns the determinant of the matrix whose columns are a, b and c,
// computed as the scalar triple product a · (b × c).
func Det3(a, b, c Vec3) float64 {
	return a.X*(b.Y*c.Z-b.Z*c.Y) -
		b.X*(a.Y*c.Z-a.Z*c.Y) +
		c.X*(a.Y*b.Z-a.Z*b.Y)
}
