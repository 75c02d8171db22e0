package mat

import (
	"math"
)

// Perspective returns a projection matrix for the vertical field of view fovy in radians.
func Perspective(fovy, aspect, near, far float32) Mat4 {
	halfFovCot := 1 / float32(math.Tan(float64(fovy/2)))
	return Mat4{
		halfFovCot / aspect, 0, 0, 0,
		0, halfFovCot, 0, 0,
		0, 0, -(far + near) / (far - near), -1,
		0, 0, -2 * far * near / (far - near), 0,
	}
}
