package mat

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	d := a - b
	return -0.001 < d && d < 0.001
}

func TestMul(t *testing.T) {
	m0 := Translate(0.1, 0.2, 0.3)
	m1 := Scale(1.1, 1.2, 1.3)
	m2 := Rotate(1, 0, 0, 0.1)
	m3 := Rotate(0, 1, 0, 0.1)
	m4 := Rotate(0, 0, 1, 0.1)

	r := m0.MulAffine(m1).MulAffine(m2).MulAffine(m3).MulAffine(m4)
	rNaive := m0.Mul(m1).Mul(m2).Mul(m3).Mul(m4)

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			a := j*4 + i
			if !near(r[a], rNaive[a]) {
				t.Errorf("m(%d, %d) expected to be %0.3f, got %0.3f",
					i, j, rNaive[a], r[a],
				)
			}
		}
	}
}

func TestInvAffine(t *testing.T) {
	m0 := Translate(0.1, 0.2, 0.3)
	m1 := Scale(1.1, 1.2, 1.3)
	m2 := Rotate(1, 0, 0, 0.5)

	m := m0.MulAffine(m1).MulAffine(m2)
	mi := m.InvAffine()

	diag := m.Mul(mi)
	ident := Ident()
	for i := range diag {
		if !near(diag[i], ident[i]) {
			t.Errorf("m(%d, %d): %0.3f", i%4, i/4, diag[i])
		}
	}
}

func transformNaive(m Mat4, a Vec3) Vec3 {
	var out Vec3
	in := [4]float32{a[0], a[1], a[2], 1}
	for i := 0; i < 3; i++ {
		var sum float32
		for k := 0; k < 4; k++ {
			sum += m[4*k+i] * in[k]
		}
		out[i] = sum
	}
	return out
}

func TestTransformAffine(t *testing.T) {
	m0 := Translate(0.1, 0.2, 0.3)
	m1 := Scale(1.1, 1.2, 1.3)
	m2 := Rotate(1, 0, 0, 0.1)
	m3 := Rotate(0, 1, 0, 0.1)
	m4 := Rotate(0, 0, 1, 0.1)

	m := m0.Mul(m1).Mul(m2).Mul(m3).Mul(m4)

	in := NewVec3(1, 2, 3)
	v := m.TransformAffine(in)
	vNaive := transformNaive(m, in)

	if !v.Near(vNaive, 0.001) {
		t.Errorf("Expected %v, got %v", vNaive, v)
	}
}

func TestRotate(t *testing.T) {
	v := Rotate(0, 0, 1, math.Pi/2).TransformAffine(Vec3{1, 0, 0})
	if !v.Near(Vec3{0, 1, 0}, 0.0001) {
		t.Errorf("Expected x axis rotated onto y axis, got %v", v)
	}
}

func TestPerspective(t *testing.T) {
	p := Perspective(math.Pi/2, 2, 1, 10)
	if !near(p[0], 0.5) || !near(p[5], 1) {
		t.Errorf("Unexpected scale: %0.3f, %0.3f", p[0], p[5])
	}
	v := p.Transform(Vec3{0, 0, -1})
	if !near(v[2], -1) {
		t.Errorf("Near plane must be mapped to -1, got %0.3f", v[2])
	}
	v = p.Transform(Vec3{0, 0, -10})
	if !near(v[2], 1) {
		t.Errorf("Far plane must be mapped to 1, got %0.3f", v[2])
	}
}
