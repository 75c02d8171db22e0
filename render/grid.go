package render

import (
	"github.com/seqsense/pcaccum/mat"
)

var gridColor = [4]float32{0.6, 0.6, 0.6, 1}

// Grid is a square line grid on the ground (XZ) plane.
type Grid struct {
	model    mat.Mat4
	vertices []float32
}

// NewGrid returns a grid of (2*half)^2 cells of the given spacing.
func NewGrid(half int, spacing float32) *Grid {
	ext := float32(half) * spacing
	var v []float32
	for i := -half; i <= half; i++ {
		p := float32(i) * spacing
		v = append(v,
			p, 0, -ext, p, 0, ext,
			-ext, 0, p, ext, 0, p,
		)
	}
	return &Grid{
		model:    mat.Ident(),
		vertices: v,
	}
}

func (g *Grid) SetModelMatrix(m mat.Mat4) {
	g.model = m
}

func (g *Grid) Draw(ctx Context, view, projection mat.Mat4) {
	ctx.DrawLines(g.vertices, mvp(projection, view, g.model), gridColor)
}
