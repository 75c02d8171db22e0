package capture

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/seqsense/pcaccum/mat"
	"github.com/seqsense/pcaccum/pose"
)

type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

func WithModelCalculator(m *pose.ModelCalculator) Option {
	return func(c *Controller) {
		c.calc = m
	}
}

// WithOnUpdate sets a hook called whenever new geometry or a new device pose
// is available, typically a render request.
func WithOnUpdate(fn func()) Option {
	return func(c *Controller) {
		c.onUpdate = fn
	}
}

// WithOnDevicePose sets a hook receiving the device model matrix of every
// area description pose.
func WithOnDevicePose(fn func(mat.Mat4)) Option {
	return func(c *Controller) {
		c.onDevicePose = fn
	}
}

func WithClock(clk clock.Clock) Option {
	return func(c *Controller) {
		c.clock = clk
	}
}

// WithMode sets the initial mode.
func WithMode(m Mode) Option {
	return func(c *Controller) {
		c.mode = m
	}
}
