package gl

const vsPointSource = `#version 300 es
	layout (location = 0) in vec4 aVertexPosition;
	uniform mat4 uMVP;
	uniform float uPointSizeBase;
	vec4 clipPosition;
	out lowp vec4 vColor;

	void main(void) {
		clipPosition = uMVP * aVertexPosition;
		gl_Position = clipPosition;
		gl_PointSize = clamp(uPointSizeBase / clipPosition.w, 1.0, uPointSizeBase);
		vColor = vec4(1.0, 1.0, 1.0, 1.0);
	}
`

const vsLineSource = `#version 300 es
	layout (location = 0) in vec4 aVertexPosition;
	uniform mat4 uMVP;
	uniform vec3 uColor;
	out lowp vec4 vColor;

	void main(void) {
		gl_Position = uMVP * aVertexPosition;
		vColor = vec4(uColor, 1.0);
	}
`

const fsSource = `#version 300 es
	in lowp vec4 vColor;
	out lowp vec4 outColor;

	void main(void) {
		outColor = vColor;
	}
`

// pointSizeBase is the point size in pixels at one meter.
const pointSizeBase = 5.0
