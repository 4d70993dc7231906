// Package gl implements sprig.Device on top of OpenGL 3.3 core.
//
// A Device must be created and used from the goroutine owning the current GL
// context, after the context has been made current.
//
package gl

import (
	"image/color"

	"github.com/db47h/sprig"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

var _ sprig.Device = (*Device)(nil)

// Device is an OpenGL 3.3 core sprig.Device.
//
type Device struct {
	instances map[uint32]uint32 // mesh VAO -> instance buffer
	textures  map[uint32]int    // texture id -> size in bytes
}

// NewDevice loads the GL function pointers for the current context.
//
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "initialize OpenGL")
	}
	d := &Device{
		instances: make(map[uint32]uint32),
		textures:  make(map[uint32]int),
	}
	sprig.Logger().Info("OpenGL device ready",
		"version", Version(),
		"vendor", gl.GoStr(gl.GetString(gl.VENDOR)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"maxTextureSize", MaxTextureSize())
	return d, nil
}

// Version returns the GL version string of the current context.
//
func Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// MaxTextureSize returns the largest texture width or height supported.
//
func MaxTextureSize() int {
	var sz int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &sz)
	return int(sz)
}

func glError(op string) error {
	if e := gl.GetError(); e != gl.NO_ERROR {
		return errors.Errorf("%s: GL error 0x%x", op, e)
	}
	return nil
}

// Setup enables depth testing and alpha blending and sets the clear color.
//
func (d *Device) Setup(clear color.Color) {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.ActiveTexture(gl.TEXTURE0)
	c := ColorModel.Convert(clear).(Color)
	gl.ClearColor(c.R, c.G, c.B, c.A)
}

// Clear clears the color and depth buffers.
//
func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Viewport sets the GL viewport.
//
func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

// UseProgram binds a shader program.
//
func (d *Device) UseProgram(id uint32) {
	gl.UseProgram(id)
}

// BindTexture binds a texture to texture unit 0.
//
func (d *Device) BindTexture(id uint32) {
	gl.BindTexture(gl.TEXTURE_2D, id)
}

// DrawInstanced draws the bound mesh instances times.
//
func (d *Device) DrawInstanced(indices int32, instances int) {
	gl.DrawElementsInstanced(gl.TRIANGLES, indices, gl.UNSIGNED_INT, nil, int32(instances))
}

// Close reports textures and meshes that were never released. It does not
// delete them: they belong to their owners.
//
func (d *Device) Close() error {
	if n := len(d.textures); n > 0 {
		sprig.Logger().Warn("textures not released", "count", n, "bytes", d.textureBytes())
	}
	if n := len(d.instances); n > 0 {
		sprig.Logger().Warn("meshes not released", "count", n)
	}
	return nil
}
