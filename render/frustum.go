package render

import (
	"github.com/seqsense/pcaccum/mat"
)

var (
	frustumColor = [4]float32{1, 1, 1, 1}
	axisColors   = [3][4]float32{
		{1, 0, 0, 1},
		{0, 1, 0, 1},
		{0, 0, 1, 1},
	}
)

// FrustumAxis marks the device: a camera frustum looking along -Z
// and the three device axes.
type FrustumAxis struct {
	model   mat.Mat4
	frustum []float32
	axes    [3][]float32
}

func NewFrustumAxis() *FrustumAxis {
	const (
		w = 0.2
		h = 0.15
		d = 0.25
		l = 0.3
	)
	corners := [4][3]float32{
		{-w, h, -d}, {w, h, -d}, {w, -h, -d}, {-w, -h, -d},
	}
	var f []float32
	for i, c := range corners {
		n := corners[(i+1)%4]
		f = append(f,
			0, 0, 0, c[0], c[1], c[2],
			c[0], c[1], c[2], n[0], n[1], n[2],
		)
	}
	return &FrustumAxis{
		model:   mat.Ident(),
		frustum: f,
		axes: [3][]float32{
			{0, 0, 0, l, 0, 0},
			{0, 0, 0, 0, l, 0},
			{0, 0, 0, 0, 0, l},
		},
	}
}

func (f *FrustumAxis) SetModelMatrix(m mat.Mat4) {
	f.model = m
}

func (f *FrustumAxis) Draw(ctx Context, view, projection mat.Mat4) {
	m := mvp(projection, view, f.model)
	ctx.DrawLines(f.frustum, m, frustumColor)
	for i, a := range f.axes {
		ctx.DrawLines(a, m, axisColors[i])
	}
}
