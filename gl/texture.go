package gl

import (
	"image"
	"math"

	"github.com/db47h/sprig"
	"github.com/db47h/sprig/texture"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

// GL_MIRROR_CLAMP_TO_EDGE is core in 4.4 and missing from the 3.3 bindings.
const mirrorClampToEdge = 0x8743

var wrapModes = [...]int32{
	texture.Repeat:            gl.REPEAT,
	texture.ClampToEdge:       gl.CLAMP_TO_EDGE,
	texture.ClampToBorder:     gl.CLAMP_TO_BORDER,
	texture.MirroredRepeat:    gl.MIRRORED_REPEAT,
	texture.MirrorClampToEdge: mirrorClampToEdge,
}

var minFilters = [...]int32{
	texture.MinNearest:           gl.NEAREST,
	texture.MinLinear:            gl.LINEAR,
	texture.NearestMipmapNearest: gl.NEAREST_MIPMAP_NEAREST,
	texture.LinearMipmapNearest:  gl.LINEAR_MIPMAP_NEAREST,
	texture.NearestMipmapLinear:  gl.NEAREST_MIPMAP_LINEAR,
	texture.LinearMipmapLinear:   gl.LINEAR_MIPMAP_LINEAR,
}

var magFilters = [...]int32{
	texture.MagNearest: gl.NEAREST,
	texture.MagLinear:  gl.LINEAR,
}

var pixelFormats = [...]struct {
	internal int32
	format   uint32
}{
	texture.RGBA: {gl.RGBA8, gl.RGBA},
	texture.RGB:  {gl.RGB8, gl.RGB},
}

func setParameters(o *texture.Options) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapModes[o.WrapS])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapModes[o.WrapT])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilters[o.MinFilter])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilters[o.MagFilter])
	if o.Border != nil {
		c := ColorModel.Convert(o.Border).(Color)
		gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &c.R)
	}
}

// UploadTexture implements texture.Uploader.
//
func (d *Device) UploadTexture(width, height int, pix []byte, o *texture.Options) (uint32, error) {
	if width <= 0 || height <= 0 || width > math.MaxInt32 || height > math.MaxInt32 {
		return 0, errors.Errorf("upload texture: invalid size %dx%d", width, height)
	}
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	setParameters(o)
	f := pixelFormats[o.Format]
	var p = gl.Ptr(nil)
	if len(pix) > 0 {
		p = gl.Ptr(pix)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, f.internal, int32(width), int32(height), 0, f.format, gl.UNSIGNED_BYTE, p)
	if o.MinFilter.Mipmap() {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if err := glError("upload texture"); err != nil {
		gl.DeleteTextures(1, &id)
		return 0, err
	}
	d.createdTexture(id, o.Format.PixelSize()*width*height)
	return id, nil
}

// UpdateTexture implements texture.Uploader.
//
func (d *Device) UpdateTexture(id uint32, r image.Rectangle, pix []byte, o *texture.Options) {
	if len(pix) == 0 {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy()),
		pixelFormats[o.Format].format, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	if o.MinFilter.Mipmap() {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// DeleteTexture implements texture.Uploader.
//
func (d *Device) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
	bytes := d.textures[id]
	delete(d.textures, id)
	sprig.Logger().Debug("deleted texture", "id", id, "bytes", bytes, "totalMiB", d.textureMiB())
}

func (d *Device) createdTexture(id uint32, bytes int) {
	d.textures[id] = bytes
	sprig.Logger().Debug("created texture", "id", id, "bytes", bytes, "totalMiB", d.textureMiB())
}

func (d *Device) textureBytes() int {
	total := 0
	for _, n := range d.textures {
		total += n
	}
	return total
}

func (d *Device) textureMiB() float32 {
	return float32(d.textureBytes()) / (1024 * 1024)
}
