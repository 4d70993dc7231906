// Package texture provides GPU textures and rectangular sub-region addressing
// (regions, sprite sheets) for sprite rendering.
//
// The package does not issue GPU calls directly. Textures are created through
// an Uploader, usually a *gl.Device.
//
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	_ "image/jpeg" // register decoders for Decode
	_ "image/png"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
)

// Uploader is implemented by GPU backends that can allocate, update and release
// textures.
//
// UploadTexture allocates a new texture of the given size and format. pix may
// be nil, in which case the texture contents are undefined. UpdateTexture
// replaces the pixels in the rectangle r of an existing texture, pix being
// tightly packed in o.Format. DeleteTexture releases the texture.
//
type Uploader interface {
	UploadTexture(width, height int, pix []byte, o *Options) (id uint32, err error)
	UpdateTexture(id uint32, r image.Rectangle, pix []byte, o *Options)
	DeleteTexture(id uint32)
}

// InvalidDataError is returned by FromBytes when the length of the pixel data
// does not match the requested texture dimensions and format.
//
type InvalidDataError struct {
	PixelSize int
	Width     int
	Height    int
	Len       int
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("invalid texture data: %dx%dx%d != %d",
		e.PixelSize, e.Width, e.Height, e.Len)
}

// A Texture is a GPU texture. It owns the underlying GPU resource which is
// released by Close.
//
// Textures must not be copied: always pass *Texture around. Exactly one owner
// (an asset cache, a font, or the application) is responsible for closing it.
//
type Texture struct {
	id     uint32
	width  int
	height int
	opts   Options
	up     Uploader
}

// FromBytes creates a texture of the given size from raw pixel data in the
// format selected by the Format parameter (RGBA by default).
//
// If len(data) does not match the texture size, FromBytes returns an
// *InvalidDataError and no GPU resource is allocated.
//
func FromBytes(up Uploader, data []byte, width, height int, params ...Parameter) (*Texture, error) {
	o := DefaultOptions()
	o.set(params...)
	ps := o.Format.PixelSize()
	if !validSize(ps, width, height) || len(data) != ps*width*height {
		return nil, &InvalidDataError{PixelSize: ps, Width: width, Height: height, Len: len(data)}
	}
	return newTexture(up, width, height, data, o)
}

// New returns a new uninitialized texture of the given size.
//
func New(up Uploader, width, height int, params ...Parameter) (*Texture, error) {
	o := DefaultOptions()
	o.set(params...)
	if !validSize(o.Format.PixelSize(), width, height) {
		return nil, errors.Errorf("invalid texture size %dx%d", width, height)
	}
	return newTexture(up, width, height, nil, o)
}

// validSize reports whether a width x height texture with ps bytes per pixel
// has positive GL sized dimensions and a byte size that fits in an int.
//
func validSize(ps, width, height int) bool {
	return width > 0 && height > 0 &&
		width <= math.MaxInt32 && height <= math.MaxInt32 &&
		height <= math.MaxInt/(ps*width)
}

// FromImage creates a new texture of the same dimensions as the source image.
// Regardless of the source image type, the resulting texture is always in RGBA
// format with non-premultiplied alpha.
//
func FromImage(up Uploader, src image.Image, params ...Parameter) (*Texture, error) {
	sr := src.Bounds()
	dr := image.Rectangle{Max: sr.Size()}
	var pix []byte
	if i, ok := src.(*image.NRGBA); ok && i.Stride == 4*dr.Dx() && sr.Min == (image.Point{}) {
		pix = i.Pix[:4*dr.Dx()*dr.Dy()]
	} else {
		dst := image.NewNRGBA(dr)
		draw.Draw(dst, dr, src, sr.Min, draw.Src)
		pix = dst.Pix
	}
	params = append(params[:len(params):len(params)], Format(RGBA))
	return FromBytes(up, pix, dr.Dx(), dr.Dy(), params...)
}

// Decode decodes an encoded image (PNG, JPEG or BMP) and creates a texture
// from it.
//
func Decode(up Uploader, data []byte, params ...Parameter) (*Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode texture")
	}
	return FromImage(up, img, params...)
}

func newTexture(up Uploader, width, height int, pix []byte, o Options) (*Texture, error) {
	id, err := up.UploadTexture(width, height, pix, &o)
	if err != nil {
		return nil, errors.Wrap(err, "upload texture")
	}
	return &Texture{id: id, width: width, height: height, opts: o, up: up}, nil
}

// SetSubImage draws src to the texture. It works identically to draw.Draw with
// op set to draw.Src.
//
func (t *Texture) SetSubImage(dr image.Rectangle, src image.Image, sp image.Point) {
	sz := dr.Size()
	if sz.X <= 0 || sz.Y <= 0 || t.up == nil {
		return
	}
	var pix []byte
	switch t.opts.Format {
	case RGB:
		pix = make([]byte, 0, 3*sz.X*sz.Y)
		for y := 0; y < sz.Y; y++ {
			for x := 0; x < sz.X; x++ {
				c := color.NRGBAModel.Convert(src.At(sp.X+x, sp.Y+y)).(color.NRGBA)
				pix = append(pix, c.R, c.G, c.B)
			}
		}
	default:
		if i, ok := src.(*image.NRGBA); ok {
			if sr := (image.Rectangle{Min: sp, Max: sp.Add(sz)}); sr.In(i.Bounds()) {
				pix = make([]byte, 0, 4*sz.X*sz.Y)
				for y := sr.Min.Y; y < sr.Max.Y; y++ {
					o := i.PixOffset(sr.Min.X, y)
					pix = append(pix, i.Pix[o:o+4*sz.X]...)
				}
				break
			}
		}
		r := image.Rectangle{Max: sz}
		dst := image.NewNRGBA(r)
		draw.Draw(dst, r, src, sp, draw.Src)
		pix = dst.Pix
	}
	t.up.UpdateTexture(t.id, dr, pix, &t.opts)
}

// NativeID returns the native identifier of the texture. It returns 0 once the
// texture has been closed.
//
func (t *Texture) NativeID() uint32 {
	return t.id
}

// Size returns the size of the texture in pixels.
//
func (t *Texture) Size() image.Point {
	return image.Point{t.width, t.height}
}

// Options returns the options the texture was created with.
//
func (t *Texture) Options() Options {
	return t.opts
}

// GLCoords returns the coordinates of the point pt mapped to the range [0, 1].
//
func (t *Texture) GLCoords(pt image.Point) (glX float32, glY float32) {
	return float32(pt.X) / float32(t.width),
		float32(pt.Y) / float32(t.height)
}

// Texture returns t. It makes a *Texture usable wherever a whole-texture
// drawable is expected.
//
func (t *Texture) Texture() *Texture { return t }

// TexRegion returns the whole texture region (0, 0, 1, 1).
//
func (t *Texture) TexRegion() mgl32.Vec4 {
	return mgl32.Vec4{0, 0, 1, 1}
}

// Close releases the GPU texture. Calling Close more than once is a no-op.
//
func (t *Texture) Close() error {
	if t.id == 0 || t.up == nil {
		return nil
	}
	t.up.DeleteTexture(t.id)
	t.id = 0
	return nil
}
