// Package capture gates depth frames into the point buffer according to the
// current capture mode.
package capture

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/seqsense/pcaccum/cloud"
	"github.com/seqsense/pcaccum/mat"
	"github.com/seqsense/pcaccum/pose"
)

var (
	ErrInvalidTransition = errors.New("invalid capture mode transition")
	ErrNotStopped        = errors.New("capture is not stopped")
)

// PoseSource looks up the device pose for a frame timestamp.
type PoseSource interface {
	Nearest(timestamp float64) (pose.Pose, bool)
}

// PoseRecorder is implemented by pose sources fed through Controller.OnPose.
type PoseRecorder interface {
	Add(p pose.Pose) bool
}

// Controller owns the capture mode and is the only writer of the point buffer.
type Controller struct {
	mu   sync.Mutex
	mode Mode

	buf   *cloud.Buffer
	poses PoseSource
	calc  *pose.ModelCalculator

	log          *zap.Logger
	clock        clock.Clock
	onUpdate     func()
	onDevicePose func(mat.Mat4)

	lastTimestamp float64
	stats         counters
}

type counters struct {
	received  atomic.Int64
	appended  atomic.Int64
	ignored   atomic.Int64
	noPose    atomic.Int64
	dropped   atomic.Int64
	malformed atomic.Int64
	deltaMs   atomic.Float64
	lastFrame atomic.Time
}

func NewController(buf *cloud.Buffer, poses PoseSource, opts ...Option) *Controller {
	c := &Controller{
		mode:     Realtime,
		buf:      buf,
		poses:    poses,
		log:      zap.NewNop(),
		clock:    clock.New(),
		onUpdate: func() {},
	}
	for _, o := range opts {
		o(c)
	}
	if c.calc == nil {
		c.calc = pose.NewModelCalculator()
	}
	return c
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// CanSave reports whether the buffer is frozen and ready for export.
func (c *Controller) CanSave() bool {
	return c.Mode() == Stopped
}

// StartAccumulating clears the buffer and starts appending frames.
// Accumulation can only be started from Realtime.
func (c *Controller) StartAccumulating() error {
	c.mu.Lock()
	err := c.startAccumulating()
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.onUpdate()
	return nil
}

func (c *Controller) startAccumulating() error {
	switch c.mode {
	case Accumulating:
		return nil
	case Stopped:
		return errors.Wrapf(ErrInvalidTransition, "%s to %s", c.mode, Accumulating)
	}
	c.setMode(Accumulating)
	return nil
}

// Stop freezes the buffer. Its contents are kept.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.setMode(Stopped)
	c.mu.Unlock()
	c.onUpdate()
}

// StartRealtime clears the buffer and shows only the latest frame from now on.
func (c *Controller) StartRealtime() {
	c.mu.Lock()
	c.setMode(Realtime)
	c.mu.Unlock()
	c.onUpdate()
}

// ToggleAccumulating starts accumulating from Realtime and stops an
// ongoing accumulation. It returns the new mode.
func (c *Controller) ToggleAccumulating() (Mode, error) {
	c.mu.Lock()
	var err error
	if c.mode == Accumulating {
		c.setMode(Stopped)
	} else {
		err = c.startAccumulating()
	}
	m := c.mode
	c.mu.Unlock()
	if err != nil {
		return m, err
	}
	c.onUpdate()
	return m, nil
}

// Downsample merges the frozen points per voxel of edge leaf.
// It is only allowed while Stopped.
func (c *Controller) Downsample(leaf float32) (int, error) {
	c.mu.Lock()
	if c.mode != Stopped {
		c.mu.Unlock()
		return 0, errors.Wrapf(ErrNotStopped, "mode %s", c.mode)
	}
	before := c.buf.Len()
	n, err := c.buf.Downsample(leaf)
	c.mu.Unlock()
	if err != nil {
		return 0, err
	}
	c.log.Info("points downsampled",
		zap.Float32("leaf", leaf),
		zap.Int("before", before),
		zap.Int("after", n),
	)
	c.onUpdate()
	return n, nil
}

// setMode must be called with c.mu held.
func (c *Controller) setMode(m Mode) {
	prev := c.mode
	c.mode = m
	if m == Realtime || m == Accumulating {
		c.buf.Clear()
	}
	c.log.Info("capture mode changed",
		zap.Stringer("from", prev),
		zap.Stringer("to", m),
		zap.Int("points", c.buf.Len()),
	)
}

// OnFrame ingests a depth frame. Reading the mode and mutating the buffer
// happen in one critical section, so no frame lands after a mode change
// that should have excluded it.
func (c *Controller) OnFrame(f cloud.Frame) FrameResult {
	c.stats.received.Inc()
	c.stats.lastFrame.Store(c.clock.Now())

	res := c.onFrame(f)
	switch res {
	case FrameAppended:
		c.stats.appended.Inc()
		c.onUpdate()
	case FrameIgnored:
		c.stats.ignored.Inc()
	case FrameNoPose:
		c.stats.noPose.Inc()
		c.log.Debug("no pose for frame", zap.Float64("timestamp", f.Timestamp))
	case FrameDropped:
		c.stats.dropped.Inc()
		c.log.Debug("point buffer full, frame dropped",
			zap.Float64("timestamp", f.Timestamp),
			zap.Int("points", f.Points),
		)
	case FrameMalformed:
		c.stats.malformed.Inc()
	}
	return res
}

func (c *Controller) onFrame(f cloud.Frame) FrameResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastTimestamp > 0 {
		c.stats.deltaMs.Store((f.Timestamp - c.lastTimestamp) * 1000)
	}
	c.lastTimestamp = f.Timestamp

	if c.mode == Stopped {
		return FrameIgnored
	}
	if err := f.Validate(); err != nil {
		c.log.Warn("malformed frame", zap.Error(err))
		return FrameMalformed
	}
	p, ok := c.poses.Nearest(f.Timestamp)
	if !ok {
		return FrameNoPose
	}
	model := c.calc.PointCloudMatrix(p)

	res := FrameAppended
	c.buf.Update(func(w cloud.Writer) {
		if c.mode == Realtime {
			w.Clear()
		}
		n, err := w.AppendFrame(f, model)
		switch {
		case err != nil:
			res = FrameMalformed
		case n == 0 && f.Points > 0:
			res = FrameDropped
		}
	})
	return res
}

// OnPose records a pose update. Poses of the point cloud frame pair are kept
// for frame registration; area description poses move the device marker.
func (c *Controller) OnPose(p pose.Pose) {
	if !p.Valid {
		return
	}
	if r, ok := c.poses.(PoseRecorder); ok {
		r.Add(p)
	}
	if p.Frame == pose.DeviceWrtAreaDescription {
		m := c.calc.UpdateDevice(p)
		if c.onDevicePose != nil {
			c.onDevicePose(m)
		}
		c.onUpdate()
	}
}

// Stats is a snapshot of ingestion diagnostics.
type Stats struct {
	Mode      Mode
	Points    int
	Received  int64
	Appended  int64
	Ignored   int64
	NoPose    int64
	Dropped   int64
	Malformed int64
	// FrameDelta is the time between the last two frames in milliseconds.
	FrameDelta float64
	LastFrame  time.Time
}

func (c *Controller) Stats() Stats {
	return Stats{
		Mode:       c.Mode(),
		Points:     c.buf.Len(),
		Received:   c.stats.received.Load(),
		Appended:   c.stats.appended.Load(),
		Ignored:    c.stats.ignored.Load(),
		NoPose:     c.stats.noPose.Load(),
		Dropped:    c.stats.dropped.Load(),
		Malformed:  c.stats.malformed.Load(),
		FrameDelta: c.stats.deltaMs.Load(),
		LastFrame:  c.stats.lastFrame.Load(),
	}
}

// Stale reports whether no frame has arrived within d, e.g. while the
// device service is disconnected.
func (c *Controller) Stale(d time.Duration) bool {
	last := c.stats.lastFrame.Load()
	return last.IsZero() || c.clock.Since(last) > d
}
