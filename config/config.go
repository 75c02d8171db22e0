// Package config loads the YAML configuration shared by the commands.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/seqsense/pcaccum/capture"
	"github.com/seqsense/pcaccum/cloud"
	"github.com/seqsense/pcaccum/export"
	"github.com/seqsense/pcaccum/logging"
	"github.com/seqsense/pcaccum/pose"
	"github.com/seqsense/pcaccum/render"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// Capacity is the maximum number of points held in the buffer.
	Capacity   int              `yaml:"capacity"`
	Mode       string           `yaml:"mode"`
	Export     ExportConfig     `yaml:"export"`
	Pose       PoseConfig       `yaml:"pose"`
	Extrinsics ExtrinsicsConfig `yaml:"extrinsics"`
	Camera     CameraConfig     `yaml:"camera"`
	LogLevel   string           `yaml:"log_level"`
}

type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`

	// Voxel is the leaf size used to downsample the points before export.
	// Zero keeps every point.
	Voxel float32 `yaml:"voxel"`
}

type PoseConfig struct {
	// MaxAge is the largest accepted distance between a frame and its pose.
	// Zero accepts any distance.
	MaxAge  time.Duration `yaml:"max_age"`
	History int           `yaml:"history"`
}

// Transform is a rigid transform with a quaternion in x, y, z, w order.
type Transform struct {
	Translation [3]float32 `yaml:"translation"`
	Rotation    [4]float32 `yaml:"rotation"`
}

type ExtrinsicsConfig struct {
	Device2IMU      Transform `yaml:"device_to_imu"`
	DepthCamera2IMU Transform `yaml:"depth_camera_to_imu"`
	// ServiceToGL stores points in the y-up OpenGL frame instead of the
	// z-up service frame.
	ServiceToGL bool `yaml:"service_to_gl"`
}

type CameraConfig struct {
	FOV  float32 `yaml:"fov"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

func Default() Config {
	identity := Transform{Rotation: [4]float32{0, 0, 0, 1}}
	return Config{
		Capacity: cloud.DefaultCapacity,
		Mode:     capture.Realtime.String(),
		Export: ExportConfig{
			Dir:    ".",
			Format: export.Text.String(),
		},
		Pose: PoseConfig{
			MaxAge:  time.Duration(pose.DefaultMaxAge * float64(time.Second)),
			History: pose.DefaultHistorySize,
		},
		Extrinsics: ExtrinsicsConfig{
			Device2IMU:      identity,
			DepthCamera2IMU: identity,
			ServiceToGL:     true,
		},
		Camera: CameraConfig{
			FOV:  render.DefaultFOV,
			Near: render.DefaultNear,
			Far:  render.DefaultFar,
		},
		LogLevel: "info",
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading config")
	}
	c, err := Parse(b)
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading %s", path)
	}
	return c, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(b []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return errors.Wrapf(ErrInvalid, "capacity must be positive, got %d", c.Capacity)
	case c.Pose.MaxAge < 0:
		return errors.Wrapf(ErrInvalid, "pose.max_age must not be negative, got %s", c.Pose.MaxAge)
	case c.Pose.History <= 0:
		return errors.Wrapf(ErrInvalid, "pose.history must be positive, got %d", c.Pose.History)
	case c.Export.Voxel < 0:
		return errors.Wrapf(ErrInvalid, "export.voxel must not be negative, got %g", c.Export.Voxel)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return errors.Wrapf(ErrInvalid, "camera.fov must be in (0, 180), got %g", c.Camera.FOV)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return errors.Wrapf(ErrInvalid,
			"camera clip planes must satisfy 0 < near < far, got %g, %g", c.Camera.Near, c.Camera.Far,
		)
	}
	if _, err := capture.ParseMode(c.Mode); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	return nil
}

// CaptureMode returns the parsed initial capture mode.
func (c Config) CaptureMode() capture.Mode {
	m, _ := capture.ParseMode(c.Mode)
	return m
}

// ExportFormat returns the parsed export format.
func (c Config) ExportFormat() export.Format {
	f, _ := export.ParseFormat(c.Export.Format)
	return f
}

// MaxAgeSeconds returns the pose matching tolerance in seconds.
func (c Config) MaxAgeSeconds() float64 {
	return c.Pose.MaxAge.Seconds()
}

// ModelCalculator builds a model matrix calculator from the extrinsics.
func (c Config) ModelCalculator() *pose.ModelCalculator {
	m := pose.NewModelCalculator()
	m.SetDevice2IMU(c.Extrinsics.Device2IMU.Translation, c.Extrinsics.Device2IMU.Rotation)
	m.SetDepthCamera2IMU(c.Extrinsics.DepthCamera2IMU.Translation, c.Extrinsics.DepthCamera2IMU.Rotation)
	if c.Extrinsics.ServiceToGL {
		m.SetConversion(pose.ServiceToGL)
	}
	return m
}
