package gl

import (
	"syscall/js"

	"github.com/pkg/errors"
	webgl "github.com/seqsense/webgl-go"
)

var errContextLost = errors.New("WebGL context lost")

func initShader(gl *webgl.WebGL, typ webgl.ShaderType, name, src string) (webgl.Shader, error) {
	s := gl.CreateShader(typ)
	gl.ShaderSource(s, src)
	gl.CompileShader(s)
	if !gl.GetShaderParameter(s, gl.COMPILE_STATUS).(bool) {
		if gl.IsContextLost() {
			return webgl.Shader(js.Null()), errContextLost
		}
		return webgl.Shader(js.Null()), errors.Errorf("compile failed (%s)", name)
	}
	return s, nil
}

func linkShaders(gl *webgl.WebGL, shaders ...webgl.Shader) (webgl.Program, error) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)
	if !gl.GetProgramParameter(program, gl.LINK_STATUS).(bool) {
		if gl.IsContextLost() {
			return webgl.Program(js.Null()), errContextLost
		}
		return webgl.Program(js.Null()), errors.New("link failed: " + gl.GetProgramInfoLog(program))
	}
	return program, nil
}

func newProgram(gl *webgl.WebGL, name, vsSrc string) (webgl.Program, error) {
	vs, err := initShader(gl, gl.VERTEX_SHADER, name+" vertex", vsSrc)
	if err != nil {
		return webgl.Program(js.Null()), err
	}
	fs, err := initShader(gl, gl.FRAGMENT_SHADER, name+" fragment", fsSource)
	if err != nil {
		return webgl.Program(js.Null()), err
	}
	return linkShaders(gl, vs, fs)
}
