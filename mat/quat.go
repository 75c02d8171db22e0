package mat

import (
	"gonum.org/v1/gonum/num/quat"
)

// Quat converts a rotation given as (x, y, z, w) into a unit quaternion.
// A zero quaternion is treated as no rotation.
func Quat(rotation [4]float32) quat.Number {
	q := quat.Number{
		Real: float64(rotation[3]),
		Imag: float64(rotation[0]),
		Jmag: float64(rotation[1]),
		Kmag: float64(rotation[2]),
	}
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

// Rotation returns the rotation matrix of the quaternion (x, y, z, w).
func Rotation(rotation [4]float32) Mat4 {
	q := Quat(rotation)
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	return Mat4{
		float32(1 - 2*(y*y+z*z)), float32(2 * (x*y + z*w)), float32(2 * (x*z - y*w)), 0,
		float32(2 * (x*y - z*w)), float32(1 - 2*(x*x+z*z)), float32(2 * (y*z + x*w)), 0,
		float32(2 * (x*z + y*w)), float32(2 * (y*z - x*w)), float32(1 - 2*(x*x+y*y)), 0,
		0, 0, 0, 1,
	}
}

// FromPose builds the rigid transform that rotates by the quaternion (x, y, z, w)
// and then translates.
func FromPose(translation [3]float32, rotation [4]float32) Mat4 {
	m := Rotation(rotation)
	m[12] = translation[0]
	m[13] = translation[1]
	m[14] = translation[2]
	return m
}

// ComposeRotation returns the quaternion (x, y, z, w) of applying b and then a.
func ComposeRotation(a, b [4]float32) [4]float32 {
	q := quat.Mul(Quat(a), Quat(b))
	return [4]float32{float32(q.Imag), float32(q.Jmag), float32(q.Kmag), float32(q.Real)}
}
