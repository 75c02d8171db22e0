package mat

// Mat4 is a column-major 4x4 matrix.
type Mat4 [16]float32

func Ident() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func (m Mat4) Mul(a Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[4*k+i] * a[4*j+k]
			}
			out[4*j+i] = sum
		}
	}
	return out
}

// MulAffine multiplies two matrices assuming the bottom rows are (0, 0, 0, 1).
func (m Mat4) MulAffine(a Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			sum := m[4*0+i]*a[4*j+0] + m[4*1+i]*a[4*j+1] + m[4*2+i]*a[4*j+2]
			if j == 3 {
				sum += m[4*3+i]
			}
			out[4*j+i] = sum
		}
	}
	out[15] = 1
	return out
}

// InvAffine returns the inverse of an affine transform.
// Singular matrices are returned as the identity.
func (m Mat4) InvAffine() Mat4 {
	a, b, c := m[0], m[4], m[8]
	d, e, f := m[1], m[5], m[9]
	g, h, i := m[2], m[6], m[10]

	c00 := e*i - f*h
	c01 := -(d*i - f*g)
	c02 := d*h - e*g
	det := a*c00 + b*c01 + c*c02
	if det == 0 {
		return Ident()
	}
	inv := 1 / det

	var out Mat4
	out[0] = c00 * inv
	out[1] = c01 * inv
	out[2] = c02 * inv
	out[4] = -(b*i - c*h) * inv
	out[5] = (a*i - c*g) * inv
	out[6] = -(a*h - b*g) * inv
	out[8] = (b*f - c*e) * inv
	out[9] = -(a*f - c*d) * inv
	out[10] = (a*e - b*d) * inv

	t := Vec3{m[12], m[13], m[14]}
	out[12] = -(out[0]*t[0] + out[4]*t[1] + out[8]*t[2])
	out[13] = -(out[1]*t[0] + out[5]*t[1] + out[9]*t[2])
	out[14] = -(out[2]*t[0] + out[6]*t[1] + out[10]*t[2])
	out[15] = 1
	return out
}

// TransformAffine applies the matrix to a point with w=1.
func (m Mat4) TransformAffine(a Vec3) Vec3 {
	var out Vec3
	out[0] = m[4*0+0]*a[0] + m[4*1+0]*a[1] + m[4*2+0]*a[2] + m[4*3+0]
	out[1] = m[4*0+1]*a[0] + m[4*1+1]*a[1] + m[4*2+1]*a[2] + m[4*3+1]
	out[2] = m[4*0+2]*a[0] + m[4*1+2]*a[1] + m[4*2+2]*a[2] + m[4*3+2]
	return out
}

// Transform applies the matrix to a point with w=1 and divides by the resulting w.
func (m Mat4) Transform(a Vec3) Vec3 {
	out := m.TransformAffine(a)
	w := m[4*0+3]*a[0] + m[4*1+3]*a[1] + m[4*2+3]*a[2] + m[4*3+3]
	if w == 0 || w == 1 {
		return out
	}
	return out.Mul(1 / w)
}

// Translation returns the translation part of the matrix.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}
