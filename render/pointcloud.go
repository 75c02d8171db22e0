package render

import (
	"github.com/seqsense/pcaccum/mat"
)

// Snapshotter gives read access to a point buffer.
type Snapshotter interface {
	Snapshot(fn func(vertices []float32, n int))
}

// PointCloud draws the current contents of a point buffer.
// The buffer holds points already transformed to the world frame,
// so the model matrix is usually the identity.
type PointCloud struct {
	model mat.Mat4
	buf   Snapshotter
}

func NewPointCloud(buf Snapshotter) *PointCloud {
	return &PointCloud{
		model: mat.Ident(),
		buf:   buf,
	}
}

func (p *PointCloud) SetModelMatrix(m mat.Mat4) {
	p.model = m
}

// Draw hands the vertices to the context under the buffer's read lock.
func (p *PointCloud) Draw(ctx Context, view, projection mat.Mat4) {
	m := mvp(projection, view, p.model)
	p.buf.Snapshot(func(v []float32, n int) {
		if n == 0 {
			return
		}
		ctx.DrawPoints(v, n, m)
	})
}
