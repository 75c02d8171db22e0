package pose

import (
	"sync"

	"github.com/seqsense/pcaccum/mat"
)

// ServiceToGL converts the z-up service frame into the y-up OpenGL world frame.
var ServiceToGL = mat.Mat4{
	1, 0, 0, 0,
	0, 0, -1, 0,
	0, 1, 0, 0,
	0, 0, 0, 1,
}

// ModelCalculator derives model matrices from device poses, taking into account
// where the IMU and the depth camera sit on the device.
type ModelCalculator struct {
	mu           sync.RWMutex
	conversion   mat.Mat4
	device2IMU   mat.Mat4
	imu2Device   mat.Mat4
	depth2IMU    mat.Mat4
	deviceMatrix mat.Mat4
}

// NewModelCalculator returns a calculator with identity extrinsics and no
// frame conversion.
func NewModelCalculator() *ModelCalculator {
	return &ModelCalculator{
		conversion:   mat.Ident(),
		device2IMU:   mat.Ident(),
		imu2Device:   mat.Ident(),
		depth2IMU:    mat.Ident(),
		deviceMatrix: mat.Ident(),
	}
}

func (c *ModelCalculator) SetConversion(m mat.Mat4) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversion = m
}

// SetDevice2IMU sets the pose of the device relative to the IMU.
func (c *ModelCalculator) SetDevice2IMU(translation [3]float32, rotation [4]float32) {
	m := mat.FromPose(translation, rotation)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.device2IMU = m
	c.imu2Device = m.InvAffine()
}

// SetDepthCamera2IMU sets the pose of the depth camera relative to the IMU.
func (c *ModelCalculator) SetDepthCamera2IMU(translation [3]float32, rotation [4]float32) {
	m := mat.FromPose(translation, rotation)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.depth2IMU = m
}

// PointCloudMatrix maps depth camera coordinates captured at pose p into the world frame.
func (c *ModelCalculator) PointCloudMatrix(p Pose) mat.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conversion.Mul(p.Matrix()).Mul(c.imu2Device).Mul(c.depth2IMU)
}

// UpdateDevice stores the model matrix of the device at pose p and returns it.
func (c *ModelCalculator) UpdateDevice(p Pose) mat.Mat4 {
	m := p.Matrix()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deviceMatrix = c.conversion.Mul(m)
	return c.deviceMatrix
}

// DeviceMatrix returns the last model matrix stored by UpdateDevice.
func (c *ModelCalculator) DeviceMatrix() mat.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deviceMatrix
}
