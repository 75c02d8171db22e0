package render

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/seqsense/pcaccum/mat"
)

// ViewMode selects how the camera is placed relative to the device.
type ViewMode int

const (
	// ThirdPerson orbits around the device.
	ThirdPerson ViewMode = iota
	// FirstPerson looks through the device.
	FirstPerson
	// TopDown looks straight down on the device.
	TopDown
)

func (m ViewMode) String() string {
	switch m {
	case ThirdPerson:
		return "third_person"
	case FirstPerson:
		return "first_person"
	case TopDown:
		return "top_down"
	default:
		return "unknown"
	}
}

const (
	// Initial eye at (5, 5, 5) looking at the origin.
	defaultDistance = 8.660254
	defaultYaw      = math.Pi / 4
	defaultPitch    = 0.6154797

	minDistance = 0.5
	maxDistance = 100
	maxPitch    = math.Pi/2 - 0.01
	yDeadband   = 20
	rotateScale = 0.01
	panScale    = 0.002
)

// Pointer is a touch or mouse position in screen pixels.
type Pointer struct {
	X, Y   float64
	Button int
}

type Camera struct {
	mu sync.Mutex

	mode     ViewMode
	yaw      float64
	pitch    float64
	distance float64
	offset   mat.Vec3
	device   mat.Mat4

	yaw0, pitch0 float64
	offset0      mat.Vec3
	drag0        *Pointer
}

func NewCamera() *Camera {
	c := &Camera{device: mat.Ident()}
	c.reset()
	return c
}

func (c *Camera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *Camera) reset() {
	c.distance = defaultDistance
	c.yaw = defaultYaw
	c.pitch = defaultPitch
	c.offset = mat.Vec3{}
	c.drag0 = nil
}

func (c *Camera) SetMode(m ViewMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
	c.offset = mat.Vec3{}
}

func (c *Camera) Mode() ViewMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Camera) SetFirstPersonView() { c.SetMode(FirstPerson) }
func (c *Camera) SetThirdPersonView() { c.SetMode(ThirdPerson) }
func (c *Camera) SetTopDownView()     { c.SetMode(TopDown) }

// SetDevice updates the device model matrix followed by the camera.
func (c *Camera) SetDevice(m mat.Mat4) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.device = m
}

// Zoom scales the orbit distance, e.g. by a pinch gesture factor.
// A factor above 1 zooms in.
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setDistance(c.distance / factor)
}

// Wheel zooms by a normalized wheel delta.
func (c *Camera) Wheel(d float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setDistance(c.distance + d*(c.distance*0.05+0.1))
}

func (c *Camera) setDistance(d float64) {
	switch {
	case d < minDistance:
		d = minDistance
	case d > maxDistance:
		d = maxDistance
	}
	c.distance = d
}

func (c *Camera) DragStart(p Pointer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag0 = &p
	c.yaw0 = c.yaw
	c.pitch0 = c.pitch
	c.offset0 = c.offset
}

func (c *Camera) DragEnd(p Pointer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drag0 == nil {
		return
	}
	c.drag(p)
	c.drag0 = nil
}

// Drag orbits with the primary button and pans with the others.
func (c *Camera) Drag(p Pointer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag(p)
}

func (c *Camera) drag(p Pointer) {
	if c.drag0 == nil {
		return
	}
	xDiff := p.X - c.drag0.X
	yDiff := p.Y - c.drag0.Y
	switch c.drag0.Button {
	case 0:
		c.yaw = math.Remainder(c.yaw0-rotateScale*xDiff, 2*math.Pi)
		if yDiff < -yDeadband {
			yDiff += yDeadband
		} else if yDiff > yDeadband {
			yDiff -= yDeadband
		} else {
			yDiff = 0
		}
		c.pitch = c.pitch0 + rotateScale*yDiff
		if c.pitch < -maxPitch {
			c.pitch = -maxPitch
		} else if c.pitch > maxPitch {
			c.pitch = maxPitch
		}
	default:
		s, co := math.Sincos(c.yaw)
		k := panScale * c.distance
		right := mat.Vec3{float32(co), 0, float32(-s)}
		forward := mat.Vec3{float32(-s), 0, float32(-co)}
		c.offset = c.offset0.
			Sub(right.Mul(float32(k * xDiff))).
			Add(forward.Mul(float32(k * yDiff)))
	}
}

// View returns the view matrix for the current mode and device pose.
func (c *Camera) View() mat.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos := c.device.Translation()
	var eye, center, up mat.Vec3
	switch c.mode {
	case FirstPerson:
		eye = pos
		center = c.device.TransformAffine(mat.Vec3{0, 0, -1})
		up = c.device.TransformAffine(mat.Vec3{0, 1, 0}).Sub(pos)
	case TopDown:
		center = pos.Add(c.offset)
		eye = center.Add(mat.Vec3{0, float32(c.distance), 0})
		up = mat.Vec3{0, 0, -1}
	default:
		center = pos.Add(c.offset)
		sp, cp := math.Sincos(c.pitch)
		sy, cy := math.Sincos(c.yaw)
		eye = center.Add(mat.Vec3{
			float32(c.distance * cp * sy),
			float32(c.distance * sp),
			float32(c.distance * cp * cy),
		})
		up = mat.Vec3{0, 1, 0}
	}
	return mat.Mat4(mgl32.LookAtV(
		mgl32.Vec3(eye), mgl32.Vec3(center), mgl32.Vec3(up),
	))
}
