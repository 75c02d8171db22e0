package cloud

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/pc"

	"github.com/seqsense/pcaccum/mat"
)

// pointSize is the size of a packed XYZ float32 sample.
const pointSize = 3 * 4

var ErrMalformedFrame = errors.New("malformed frame")

// Frame is a single delivery of depth samples.
// Data holds Points tightly packed little-endian float32 XYZ triples.
type Frame struct {
	Data      []byte
	Points    int
	Timestamp float64
}

func (f Frame) Validate() error {
	if f.Points < 0 {
		return errors.Wrapf(ErrMalformedFrame, "negative point count %d", f.Points)
	}
	if f.Points > len(f.Data)/pointSize {
		return errors.Wrapf(ErrMalformedFrame,
			"%d points need %d bytes each, got %d bytes", f.Points, pointSize, len(f.Data),
		)
	}
	return nil
}

// Vec3Iterator returns an iterator over the frame samples.
func (f Frame) Vec3Iterator() (Vec3Iterator, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return newFrameIterator(f.Data, f.Points), nil
}

// Vec3s decodes all samples of the frame.
func (f Frame) Vec3s() ([]mat.Vec3, error) {
	it, err := f.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	out := make([]mat.Vec3, 0, f.Points)
	for ; it.IsValid(); it.Incr() {
		out = append(out, it.Vec3())
	}
	return out, nil
}

// NewFrame packs points into a frame.
func NewFrame(points []mat.Vec3, timestamp float64) Frame {
	b := make([]byte, len(points)*pointSize)
	for i, p := range points {
		for j := 0; j < 3; j++ {
			binary.LittleEndian.PutUint32(b[i*pointSize+j*4:], math.Float32bits(p[j]))
		}
	}
	return Frame{Data: b, Points: len(points), Timestamp: timestamp}
}

// FrameFromPointCloud packs the xyz fields of a point cloud into a frame.
func FrameFromPointCloud(pp *pc.PointCloud, timestamp float64) (Frame, error) {
	it, err := pp.Vec3Iterator()
	if err != nil {
		return Frame{}, errors.Wrap(err, "point cloud has no xyz fields")
	}
	points := make([]mat.Vec3, 0, pp.Points)
	for ; it.IsValid(); it.Incr() {
		points = append(points, mat.Vec3(it.Vec3()))
	}
	return NewFrame(points, timestamp), nil
}
