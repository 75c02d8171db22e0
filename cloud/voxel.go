package cloud

import (
	"github.com/pkg/errors"

	"github.com/seqsense/pcaccum/mat"
)

var ErrInvalidLeafSize = errors.New("voxel leaf size must be positive")

type voxel struct {
	sum mat.Vec3
	num int
}

// Downsample replaces the points of each cubic voxel of edge leaf by their
// centroid. Voxels keep the order of their first point.
// It returns the number of remaining points.
func (w Writer) Downsample(leaf float32) (int, error) {
	if !(leaf > 0) {
		return 0, errors.Wrapf(ErrInvalidLeafSize, "%v", leaf)
	}
	b := w.b
	v := b.storage[:b.n*3]
	if b.n == 0 {
		return 0, nil
	}

	min := mat.Vec3{v[0], v[1], v[2]}
	for i := 3; i < len(v); i += 3 {
		for j := 0; j < 3; j++ {
			if v[i+j] < min[j] {
				min[j] = v[i+j]
			}
		}
	}

	index := make(map[[3]int]int)
	var voxels []voxel
	inv := 1 / leaf
	for i := 0; i < len(v); i += 3 {
		p := mat.Vec3{v[i], v[i+1], v[i+2]}.Sub(min)
		key := [3]int{int(p[0] * inv), int(p[1] * inv), int(p[2] * inv)}
		k, ok := index[key]
		if !ok {
			k = len(voxels)
			index[key] = k
			voxels = append(voxels, voxel{})
		}
		voxels[k].sum = voxels[k].sum.Add(p)
		voxels[k].num++
	}

	for i, vx := range voxels {
		c := vx.sum.Mul(1 / float32(vx.num)).Add(min)
		v[3*i], v[3*i+1], v[3*i+2] = c[0], c[1], c[2]
	}
	b.n = len(voxels)
	return b.n, nil
}

func (b *Buffer) Downsample(leaf float32) (int, error) {
	var (
		n   int
		err error
	)
	b.Update(func(w Writer) {
		n, err = w.Downsample(leaf)
	})
	return n, err
}
