// Package pose keeps track of device poses reported by the motion tracking service.
package pose

import (
	"github.com/pkg/errors"

	"github.com/seqsense/pcaccum/mat"
)

// CoordinateFrame identifies a reference frame of the motion tracking service.
type CoordinateFrame int

const (
	FrameStartOfService CoordinateFrame = iota
	FrameAreaDescription
	FrameDevice
	FrameIMU
	FrameCameraDepth
	FrameCameraColor
)

func (f CoordinateFrame) String() string {
	switch f {
	case FrameStartOfService:
		return "start_of_service"
	case FrameAreaDescription:
		return "area_description"
	case FrameDevice:
		return "device"
	case FrameIMU:
		return "imu"
	case FrameCameraDepth:
		return "camera_depth"
	case FrameCameraColor:
		return "camera_color"
	default:
		return "unknown"
	}
}

// ParseCoordinateFrame is the inverse of CoordinateFrame.String.
func ParseCoordinateFrame(s string) (CoordinateFrame, error) {
	for f := FrameStartOfService; f <= FrameCameraColor; f++ {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, errors.Errorf("unknown coordinate frame %q", s)
}

// FramePair locates Target relative to Base.
type FramePair struct {
	Base, Target CoordinateFrame
}

var (
	// DeviceWrtStartOfService is the pair point cloud frames are registered with.
	DeviceWrtStartOfService = FramePair{Base: FrameStartOfService, Target: FrameDevice}
	// DeviceWrtAreaDescription is the pair driving the device marker.
	DeviceWrtAreaDescription = FramePair{Base: FrameAreaDescription, Target: FrameDevice}
)

// Pose is a rigid transform at a point in time.
// Rotation is a quaternion in (x, y, z, w) order.
type Pose struct {
	Timestamp   float64
	Frame       FramePair
	Translation [3]float32
	Rotation    [4]float32
	Valid       bool
}

// Matrix returns the homogeneous transform of the pose.
func (p Pose) Matrix() mat.Mat4 {
	return mat.FromPose(p.Translation, p.Rotation)
}
