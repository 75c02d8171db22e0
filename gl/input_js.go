package gl

import (
	webgl "github.com/seqsense/webgl-go"

	"github.com/seqsense/pcaccum/render"
)

// BindInput forwards canvas pointer and wheel events to the camera and
// requests a render after each change. Mouse and touch both arrive as
// pointer events.
func (c *Context) BindInput(cam *render.Camera, wheel *render.WheelNormalizer, requestRender func()) {
	canvas := c.gl.Canvas
	g := render.NewGesture(cam)
	touch := func(e webgl.PointerEvent) render.Touch {
		return render.Touch{
			ID:      e.PointerId,
			X:       float64(e.OffsetX),
			Y:       float64(e.OffsetY),
			Button:  int(e.Button),
			Primary: e.IsPrimary,
		}
	}
	canvas.OnPointerDown(func(e webgl.PointerEvent) {
		e.PreventDefault()
		g.Down(touch(e))
	})
	canvas.OnPointerMove(func(e webgl.PointerEvent) {
		e.PreventDefault()
		if g.Move(touch(e)) {
			requestRender()
		}
	})
	up := func(e webgl.PointerEvent) {
		e.PreventDefault()
		if g.Up(touch(e)) {
			requestRender()
		}
	}
	canvas.OnPointerUp(up)
	canvas.OnPointerOut(up)
	canvas.OnContextMenu(func(e webgl.MouseEvent) {
		e.PreventDefault()
	})
	canvas.OnWheel(func(e webgl.WheelEvent) {
		e.PreventDefault()
		if d, ok := wheel.Normalize(e.DeltaY); ok {
			cam.Wheel(d)
			requestRender()
		}
	})
}
