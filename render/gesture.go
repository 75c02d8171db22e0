package render

import (
	"math"
)

type gestureMode int

const (
	gestureNone gestureMode = iota
	gestureRotate
	gesturePinch
	gestureMove
)

// Touch is a pointer (finger or mouse) event.
type Touch struct {
	ID      int
	X, Y    float64
	Button  int
	Primary bool
}

func (t Touch) pointer(button int) Pointer {
	return Pointer{X: t.X, Y: t.Y, Button: button}
}

// Gesture turns pointer events into camera operations: one pointer orbits
// (or pans when a secondary mouse button is held), two pointers pinch-zoom
// and three pointers pan.
type Gesture struct {
	cam *Camera

	pointers map[int]Touch
	pointer0 Touch

	mode      gestureMode
	button    int
	distance0 float64
}

func NewGesture(cam *Camera) *Gesture {
	return &Gesture{
		cam:      cam,
		pointers: make(map[int]Touch),
	}
}

func (g *Gesture) Down(t Touch) {
	g.pointers[t.ID] = t

	switch len(g.pointers) {
	case 1:
		g.pointer0 = t
	case 2:
		g.distance0 = g.spread()
	}
}

// Move returns true if the camera changed.
func (g *Gesture) Move(t Touch) bool {
	if _, ok := g.pointers[t.ID]; !ok {
		return false
	}
	g.pointers[t.ID] = t

	if g.mode == gestureNone {
		switch len(g.pointers) {
		case 1:
			g.button = g.pointer0.Button
			g.cam.DragStart(g.pointer0.pointer(g.button))
			g.mode = gestureRotate
		case 2:
			g.mode = gesturePinch
		default:
			g.button = 1
			g.cam.DragStart(g.pointer0.pointer(g.button))
			g.mode = gestureMove
		}
	}

	changed := false
	switch g.mode {
	case gestureRotate, gestureMove:
		if t.Primary {
			g.cam.Drag(t.pointer(g.button))
			changed = true
		}
	case gesturePinch:
		if len(g.pointers) != 2 {
			break
		}
		d := g.spread()
		if g.distance0 > 0 && d > 0 {
			g.cam.Zoom(d / g.distance0)
			changed = true
		}
		g.distance0 = d
	}
	if t.Primary {
		g.pointer0 = t
	}
	return changed
}

// Up returns true if the camera changed.
func (g *Gesture) Up(t Touch) bool {
	delete(g.pointers, t.ID)
	if len(g.pointers) != 0 {
		return false
	}
	if t.Primary {
		g.pointer0 = t
	}
	changed := false
	switch g.mode {
	case gestureRotate, gestureMove:
		g.cam.DragEnd(g.pointer0.pointer(g.button))
		changed = true
	}
	g.mode = gestureNone
	return changed
}

func (g *Gesture) spread() float64 {
	var pp []Touch
	for _, p := range g.pointers {
		pp = append(pp, p)
	}
	if len(pp) < 2 {
		return 0
	}
	return math.Hypot(pp[0].X-pp[1].X, pp[0].Y-pp[1].Y)
}
