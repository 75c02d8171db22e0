package cloud

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/pc"
)

// ToPointCloud copies the stored points into an unorganized xyz point cloud.
func (b *Buffer) ToPointCloud() *pc.PointCloud {
	v, n := b.copyVertices()
	return toPointCloud(v, n)
}

func toPointCloud(v []float32, n int) *pc.PointCloud {
	pp := &pc.PointCloud{
		PointCloudHeader: pc.PointCloudHeader{
			Version:   0.7,
			Fields:    []string{"x", "y", "z"},
			Size:      []int{4, 4, 4},
			Type:      []string{"F", "F", "F"},
			Count:     []int{1, 1, 1},
			Width:     n,
			Height:    1,
			Viewpoint: []float32{0, 0, 0, 1, 0, 0, 0},
		},
		Points: n,
		Data:   make([]byte, n*pointSize),
	}
	for i, f := range v[:n*3] {
		binary.LittleEndian.PutUint32(pp.Data[i*4:], math.Float32bits(f))
	}
	return pp
}

// WritePCD writes the stored points in PCD format.
func (b *Buffer) WritePCD(w io.Writer) (int, error) {
	pp := b.ToPointCloud()
	if err := pc.Marshal(pp, w); err != nil {
		return 0, errors.Wrap(err, "marshaling pcd")
	}
	return pp.Points, nil
}
