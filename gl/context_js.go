package gl

import (
	"syscall/js"

	"github.com/pkg/errors"
	pcmat "github.com/seqsense/pcgol/mat"
	webgl "github.com/seqsense/webgl-go"
	"go.uber.org/zap"

	"github.com/seqsense/pcaccum/mat"
	"github.com/seqsense/pcaccum/render"
)

const aVertexPosition = 0

// Context is a render.Context drawing on a WebGL2 canvas.
type Context struct {
	gl  *webgl.WebGL
	log *zap.Logger

	pointProgram  webgl.Program
	pointMVP      webgl.Location
	pointSizeBase webgl.Location

	lineProgram webgl.Program
	lineMVP     webgl.Location
	lineColor   webgl.Location

	pointBuf webgl.Buffer
	lineBuf  webgl.Buffer
}

var _ render.Context = (*Context)(nil)

func New(canvas js.Value, log *zap.Logger) (*Context, error) {
	gl, err := webgl.New(canvas)
	if err != nil {
		return nil, errors.Wrap(err, "creating WebGL context")
	}
	c := &Context{gl: gl, log: log}

	if c.pointProgram, err = newProgram(gl, "point", vsPointSource); err != nil {
		return nil, err
	}
	if c.lineProgram, err = newProgram(gl, "line", vsLineSource); err != nil {
		return nil, err
	}
	c.pointMVP = gl.GetUniformLocation(c.pointProgram, "uMVP")
	c.pointSizeBase = gl.GetUniformLocation(c.pointProgram, "uPointSizeBase")
	c.lineMVP = gl.GetUniformLocation(c.lineProgram, "uMVP")
	c.lineColor = gl.GetUniformLocation(c.lineProgram, "uColor")

	c.pointBuf = gl.CreateBuffer()
	c.lineBuf = gl.CreateBuffer()

	bg := render.ClearColor()
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.ClearDepth(1.0)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.EnableVertexAttribArray(aVertexPosition)

	gl.UseProgram(c.pointProgram)
	gl.Uniform1f(c.pointSizeBase, pointSizeBase)

	showDebugInfo(gl, log)
	return c, nil
}

// WebGL returns the underlying binding, e.g. to attach input handlers.
func (c *Context) WebGL() *webgl.WebGL {
	return c.gl
}

func (c *Context) Viewport(x, y, width, height int) {
	c.gl.Canvas.SetWidth(width)
	c.gl.Canvas.SetHeight(height)
	c.gl.Viewport(x, y, width, height)
}

func (c *Context) Clear() {
	c.gl.Clear(c.gl.COLOR_BUFFER_BIT | c.gl.DEPTH_BUFFER_BIT)
}

// DrawPoints uploads the vertices and draws them. The data is copied
// to the GPU before returning.
func (c *Context) DrawPoints(vertices []float32, n int, mvp mat.Mat4) {
	if n == 0 {
		return
	}
	gl := c.gl
	gl.UseProgram(c.pointProgram)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.pointBuf)
	gl.BufferData(gl.ARRAY_BUFFER, webgl.Float32ArrayBuffer(vertices[:3*n]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(aVertexPosition, 3, gl.FLOAT, false, 3*4, 0)
	gl.UniformMatrix4fv(c.pointMVP, false, pcmat.Mat4(mvp))
	gl.DrawArrays(gl.POINTS, 0, n)
}

func (c *Context) DrawLines(vertices []float32, mvp mat.Mat4, color [4]float32) {
	if len(vertices) < 6 {
		return
	}
	gl := c.gl
	gl.UseProgram(c.lineProgram)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.lineBuf)
	gl.BufferData(gl.ARRAY_BUFFER, webgl.Float32ArrayBuffer(vertices), gl.STATIC_DRAW)
	gl.VertexAttribPointer(aVertexPosition, 3, gl.FLOAT, false, 3*4, 0)
	gl.UniformMatrix4fv(c.lineMVP, false, pcmat.Mat4(mvp))
	gl.Uniform3fv(c.lineColor, pcmat.Vec3{color[0], color[1], color[2]})
	gl.DrawArrays(gl.LINES, 0, len(vertices)/3)
}

func showDebugInfo(gl *webgl.WebGL, log *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("failed to get GPU info")
		}
	}()

	ri, ok := gl.GetExtension("WEBGL_debug_renderer_info")
	if !ok {
		log.Info("GPU info hidden by the browser privacy setting")
		return
	}
	log.Info("GPU",
		zap.String("vendor", gl.GetParameter(ri.Get("UNMASKED_VENDOR_WEBGL").Int()).String()),
		zap.String("renderer", gl.GetParameter(ri.Get("UNMASKED_RENDERER_WEBGL").Int()).String()),
		zap.Int("max_texture_size", gl.GetParameter(gl.JS().Get("MAX_TEXTURE_SIZE").Int()).Int()),
	)
}
