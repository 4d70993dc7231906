package gl

import (
	"image/color"
	"strings"

	"github.com/db47h/sprig"
	"github.com/go-gl/gl/v3.3-core/gl"
)

// Shader is a compiled shader object.
//
type Shader uint32

var stageNames = map[uint32]string{
	gl.VERTEX_SHADER:   "vertex",
	gl.FRAGMENT_SHADER: "fragment",
}

// NewShader compiles a shader of the given type. On failure it returns a
// *sprig.ShaderError carrying the driver log.
//
func NewShader(typ uint32, source string) (Shader, error) {
	s := gl.CreateShader(typ)
	csrc, free := gl.Strs(source)
	gl.ShaderSource(s, 1, csrc, nil)
	free()
	gl.CompileShader(s)

	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(s, n, nil, gl.Str(log))
		gl.DeleteShader(s)
		return 0, &sprig.ShaderError{
			Kind:  sprig.ShaderCompilationFailed,
			Stage: stageNames[typ],
			Log:   strings.TrimRight(log, "\x00"),
		}
	}
	return Shader(s), nil
}

// Delete deletes the shader object.
//
func (s Shader) Delete() {
	gl.DeleteShader(uint32(s))
}

// Program is a linked shader program.
//
type Program uint32

// NewProgram links shaders into a program. The shaders can be deleted
// afterwards.
//
func NewProgram(shaders ...Shader) (Program, error) {
	p := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(p, uint32(s))
	}
	gl.LinkProgram(p)

	var status int32
	gl.GetProgramiv(p, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(p, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetProgramInfoLog(p, n, nil, gl.Str(log))
		gl.DeleteProgram(p)
		return 0, &sprig.ShaderError{Kind: sprig.ProgramLinkingFailed, Log: strings.TrimRight(log, "\x00")}
	}
	for _, s := range shaders {
		gl.DetachShader(p, uint32(s))
	}
	return Program(p), nil
}

// NewProgram compiles and links a program from vertex and fragment shader
// sources.
//
func (d *Device) NewProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := NewShader(gl.VERTEX_SHADER, vertexSrc)
	if err != nil {
		return 0, err
	}
	defer vs.Delete()
	fs, err := NewShader(gl.FRAGMENT_SHADER, fragmentSrc)
	if err != nil {
		return 0, err
	}
	defer fs.Delete()
	p, err := NewProgram(vs, fs)
	if err != nil {
		return 0, err
	}
	sprig.Logger().Debug("program linked", "id", uint32(p))
	return uint32(p), nil
}

// DeleteProgram deletes a program.
//
func (d *Device) DeleteProgram(id uint32) {
	gl.DeleteProgram(id)
}

// Color implements color.Color. It stores alpha premultiplied color components
// in the range [0, 1].
//
type Color struct {
	R, G, B, A float32
}

// RGBA implements color.Color.
//
func (c Color) RGBA() (r, g, b, a uint32) {
	return uint32(c.R * 0xffff), uint32(c.G * 0xffff), uint32(c.B * 0xffff), uint32(c.A * 0xffff)
}

// ColorModel converts any color.Color to a Color.
//
var ColorModel = color.ModelFunc(colorModel)

func colorModel(c color.Color) color.Color {
	if _, ok := c.(Color); ok {
		return c
	}
	r, g, b, a := c.RGBA()
	return Color{R: float32(r) / 0xffff, G: float32(g) / 0xffff, B: float32(b) / 0xffff, A: float32(a) / 0xffff}
}
