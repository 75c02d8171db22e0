package render

import (
	"context"
	"math"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/seqsense/pcaccum/mat"
)

const (
	DefaultFOV  = 45
	DefaultNear = 0.1
	DefaultFar  = 100
)

var clearColor = [4]float32{0.2, 0.2, 0.2, 1}

// ClearColor is the background color backends should clear to.
func ClearColor() [4]float32 {
	return clearColor
}

type Option func(*Renderer)

func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		r.log = l
	}
}

func WithCamera(c *Camera) Option {
	return func(r *Renderer) {
		r.camera = c
	}
}

// WithProjection sets the vertical field of view in degrees and the clip planes.
func WithProjection(fovDeg, near, far float32) Option {
	return func(r *Renderer) {
		r.fov, r.near, r.far = fovDeg, near, far
	}
}

// Renderer draws the scene on request. Drawing never waits on ingestion
// beyond the point buffer's read lock.
type Renderer struct {
	mu         sync.Mutex
	gl         Context
	camera     *Camera
	scene      []Drawable
	frustum    *FrustumAxis
	projection mat.Mat4
	width      int
	height     int

	fov, near, far float32

	dirty  chan struct{}
	frames atomic.Int64
	log    *zap.Logger
}

func NewRenderer(gl Context, points Snapshotter, opts ...Option) *Renderer {
	r := &Renderer{
		gl:         gl,
		frustum:    NewFrustumAxis(),
		projection: mat.Ident(),
		fov:        DefaultFOV,
		near:       DefaultNear,
		far:        DefaultFar,
		dirty:      make(chan struct{}, 1),
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	if r.camera == nil {
		r.camera = NewCamera()
	}
	r.scene = []Drawable{
		NewGrid(10, 1),
		NewPointCloud(points),
		r.frustum,
	}
	return r
}

func (r *Renderer) Camera() *Camera {
	return r.camera
}

// SurfaceCreated resets the view when a new drawing surface is available.
func (r *Renderer) SurfaceCreated() {
	r.camera.Reset()
	r.RequestRender()
}

// SurfaceChanged updates the viewport and the perspective projection.
func (r *Renderer) SurfaceChanged(width, height int) {
	r.mu.Lock()
	r.width, r.height = width, height
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	r.projection = mat.Perspective(r.fov*math.Pi/180, aspect, r.near, r.far)
	r.gl.Viewport(0, 0, width, height)
	r.mu.Unlock()

	r.log.Debug("surface changed", zap.Int("width", width), zap.Int("height", height))
	r.RequestRender()
}

// Projection returns the current projection matrix.
func (r *Renderer) Projection() mat.Mat4 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.projection
}

// DrawFrame draws the grid, the point cloud and the device marker.
func (r *Renderer) DrawFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	view := r.camera.View()
	r.gl.Clear()
	for _, d := range r.scene {
		d.Draw(r.gl, view, r.projection)
	}
	r.frames.Inc()
}

// SetDevicePose moves the device marker and the camera following it.
func (r *Renderer) SetDevicePose(m mat.Mat4) {
	r.mu.Lock()
	r.frustum.SetModelMatrix(m)
	r.mu.Unlock()
	r.camera.SetDevice(m)
	r.RequestRender()
}

// RequestRender marks the scene dirty. Requests made before the next
// frame is drawn are coalesced.
func (r *Renderer) RequestRender() {
	select {
	case r.dirty <- struct{}{}:
	default:
	}
}

// Frames returns the number of frames drawn.
func (r *Renderer) Frames() int64 {
	return r.frames.Load()
}

// Run draws a frame for every render request until ctx is done.
func (r *Renderer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.dirty:
			r.DrawFrame()
		}
	}
}
