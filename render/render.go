// Package render draws the point buffer, a ground grid and the device
// frustum through a minimal GL abstraction.
package render

import (
	"github.com/seqsense/pcaccum/mat"
)

// Context is the drawing surface implemented by a GL backend.
type Context interface {
	Viewport(x, y, width, height int)
	Clear()
	// DrawPoints draws n points from packed XYZ vertices.
	// vertices must not be retained after the call.
	DrawPoints(vertices []float32, n int, mvp mat.Mat4)
	// DrawLines draws line segments from pairs of packed XYZ vertices.
	DrawLines(vertices []float32, mvp mat.Mat4, color [4]float32)
}

// Drawable is a scene element.
type Drawable interface {
	Draw(ctx Context, view, projection mat.Mat4)
	SetModelMatrix(m mat.Mat4)
}

func mvp(projection, view, model mat.Mat4) mat.Mat4 {
	return projection.Mul(view).Mul(model)
}
