// Package text lays out and rasterizes TrueType text into a glyph atlas.
//
// A Font owns a single RGBA atlas texture. Glyphs are rasterized on demand in
// the requested color and packed into the atlas with a simple shelf packer.
// Glyphs returns, for each visible character of a string, its region in the
// atlas and its position and size in world units, ready to be drawn as
// textured quads.
//
// When the atlas is full, it is flushed and the current string rasterized
// again. Glyph regions returned by earlier calls are invalidated by a flush.
//
package text

import (
	"image"
	"image/color"
	"unicode"

	"github.com/db47h/sprig/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// DefaultAtlasSize is the width and height of the glyph atlas texture.
//
const DefaultAtlasSize = 1024

// Defaults for zero Settings fields.
//
const (
	DefaultScale         = 24
	DefaultPixelsPerUnit = 100
)

// ErrAtlasFull is returned by Glyphs when a string cannot fit in an empty
// atlas.
//
var ErrAtlasFull = errors.New("glyph atlas full")

// Settings controls text layout.
//
type Settings struct {
	Scale         float32     // font size in pixels
	Color         color.NRGBA // zero value is opaque white
	LineWidth     int         // wrap width in pixels, 0 disables wrapping
	PixelsPerUnit float32     // atlas pixels per world unit
}

func (s Settings) withDefaults() Settings {
	if s.Scale <= 0 {
		s.Scale = DefaultScale
	}
	if s.Color == (color.NRGBA{}) {
		s.Color = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	if s.PixelsPerUnit <= 0 {
		s.PixelsPerUnit = DefaultPixelsPerUnit
	}
	return s
}

// Glyph is a positioned character.
//
// Region is the glyph's offset and size in normalized atlas coordinates.
// World is the glyph's center (x, y) and size (w, h) in world units, relative
// to the text origin. Y grows upwards: lines go down.
//
type Glyph struct {
	Region mgl32.Vec4
	World  mgl32.Vec4
}

// Option configures a Font.
//
type Option func(*Font)

// AtlasSize sets the width and height of the atlas texture.
//
func AtlasSize(n int) Option {
	return func(f *Font) { f.size = n }
}

// Hinting sets the glyph hinting mode.
//
func Hinting(h font.Hinting) Option {
	return func(f *Font) { f.hinting = h }
}

type cacheKey struct {
	r     rune
	scale float32
	c     color.NRGBA
}

type entry struct {
	atlas  image.Rectangle // empty for blank glyphs
	bounds image.Rectangle // relative to the dot
}

// A Font is a TrueType font together with its glyph atlas. Fonts are not safe
// for concurrent use.
//
type Font struct {
	ttf     *truetype.Font
	tex     *texture.Texture
	size    int
	hinting font.Hinting
	faces   map[float32]font.Face
	cache   map[cacheKey]entry

	// shelf packer state
	p  image.Point
	lh int

	flushes int
	glyphs  []Glyph
}

// Parse parses TrueType data and allocates the font's atlas texture.
//
func Parse(up texture.Uploader, data []byte, opts ...Option) (*Font, error) {
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}
	return New(up, ttf, opts...)
}

// New returns a Font for an already parsed TrueType font.
//
func New(up texture.Uploader, ttf *truetype.Font, opts ...Option) (*Font, error) {
	f := &Font{
		ttf:     ttf,
		size:    DefaultAtlasSize,
		hinting: font.HintingFull,
		faces:   make(map[float32]font.Face),
		cache:   make(map[cacheKey]entry),
	}
	for _, o := range opts {
		o(f)
	}
	tex, err := texture.FromBytes(up, make([]byte, 4*f.size*f.size), f.size, f.size,
		texture.Wrap(texture.ClampToEdge, texture.ClampToEdge),
		texture.Filter(texture.MinLinear, texture.MagLinear))
	if err != nil {
		return nil, errors.Wrap(err, "create glyph atlas")
	}
	f.tex = tex
	f.reset()
	return f, nil
}

// Name returns the font's full name.
//
func (f *Font) Name() string {
	return f.ttf.Name(truetype.NameIDFontFullName)
}

// Texture returns the atlas texture. It remains owned by the font.
//
func (f *Font) Texture() *texture.Texture {
	return f.tex
}

func (f *Font) face(scale float32) font.Face {
	if fc, ok := f.faces[scale]; ok {
		return fc
	}
	fc := truetype.NewFace(f.ttf, &truetype.Options{
		Size:    float64(scale),
		DPI:     72,
		Hinting: f.hinting,
	})
	f.faces[scale] = fc
	return fc
}

// layout calls fn for every visible rune of s with the pixel position of its
// dot. Y grows downwards and the first baseline is at the face ascent.
//
func layout(face font.Face, s string, lineWidth int, fn func(r rune, dot image.Point) error) error {
	m := face.Metrics()
	dot := fixed.Point26_6{Y: m.Ascent}
	prev := rune(-1)
	for _, r := range norm.NFC.String(s) {
		if unicode.IsControl(r) {
			if r == '\n' {
				dot.X = 0
				dot.Y += m.Height
				prev = -1
			}
			continue
		}
		if prev >= 0 {
			dot.X += face.Kern(prev, r)
		}
		b, adv, ok := face.GlyphBounds(r)
		if !ok {
			prev = -1
			continue
		}
		if lineWidth > 0 && dot.X > 0 && (dot.X+b.Max.X).Ceil() > lineWidth {
			dot.X = 0
			dot.Y += m.Height
		}
		if err := fn(r, image.Pt(dot.X.Round(), dot.Y.Round())); err != nil {
			return err
		}
		dot.X += adv
		prev = r
	}
	return nil
}

// Glyphs lays out s and returns its visible glyphs. Glyphs missing from the
// atlas are rasterized and uploaded. The returned slice is only valid until
// the next call to Glyphs.
//
func (f *Font) Glyphs(s string, st Settings) ([]Glyph, error) {
	st = st.withDefaults()
	face := f.face(st.Scale)
	for attempt := 0; ; attempt++ {
		f.glyphs = f.glyphs[:0]
		err := layout(face, s, st.LineWidth, func(r rune, dot image.Point) error {
			e, err := f.glyph(face, cacheKey{r, st.Scale, st.Color})
			if err != nil || e.atlas.Empty() {
				return err
			}
			f.glyphs = append(f.glyphs, f.position(e, dot, st.PixelsPerUnit))
			return nil
		})
		if err == nil {
			return f.glyphs, nil
		}
		if err != ErrAtlasFull || attempt > 0 {
			return nil, err
		}
		f.flush()
	}
}

func (f *Font) position(e entry, dot image.Point, ppu float32) Glyph {
	x, y := f.tex.GLCoords(e.atlas.Min)
	w, h := f.tex.GLCoords(e.atlas.Size())
	b := e.bounds.Add(dot)
	bw, bh := float32(b.Dx()), float32(b.Dy())
	return Glyph{
		Region: mgl32.Vec4{x, y, w, h},
		World: mgl32.Vec4{
			float32(b.Min.X) + bw/2,
			-(float32(b.Min.Y) + bh/2),
			bw,
			bh,
		}.Mul(1 / ppu),
	}
}

func (f *Font) glyph(face font.Face, k cacheKey) (entry, error) {
	if e, ok := f.cache[k]; ok {
		return e, nil
	}
	dr, mask, mp, _, ok := face.Glyph(fixed.Point26_6{}, k.r)
	if !ok || dr.Empty() {
		f.cache[k] = entry{}
		return entry{}, nil
	}
	sz := dr.Size()
	ar, ok := f.place(sz)
	if !ok {
		return entry{}, ErrAtlasFull
	}
	img := image.NewNRGBA(image.Rectangle{Max: sz})
	for y := 0; y < sz.Y; y++ {
		for x := 0; x < sz.X; x++ {
			a := color.AlphaModel.Convert(mask.At(mp.X+x, mp.Y+y)).(color.Alpha).A
			img.SetNRGBA(x, y, color.NRGBA{R: k.c.R, G: k.c.G, B: k.c.B, A: uint8(uint16(a) * uint16(k.c.A) / 255)})
		}
	}
	f.tex.SetSubImage(ar, img, image.Point{})
	e := entry{atlas: ar, bounds: dr}
	f.cache[k] = e
	return e, nil
}

// place reserves a rectangle of size sz in the atlas. Glyphs are separated by
// one pixel of padding.
//
func (f *Font) place(sz image.Point) (image.Rectangle, bool) {
	if f.p.X+sz.X+1 > f.size {
		f.p = image.Pt(1, f.p.Y+f.lh)
		f.lh = 0
	}
	if f.p.X+sz.X+1 > f.size || f.p.Y+sz.Y+1 > f.size {
		return image.Rectangle{}, false
	}
	r := image.Rectangle{Min: f.p, Max: f.p.Add(sz)}
	f.p.X += sz.X + 1
	if h := sz.Y + 1; h > f.lh {
		f.lh = h
	}
	return r, true
}

func (f *Font) reset() {
	f.p = image.Pt(1, 1)
	f.lh = 0
}

// flush empties the atlas.
//
func (f *Font) flush() {
	f.tex.SetSubImage(image.Rect(0, 0, f.size, f.size), image.Transparent, image.Point{})
	for k := range f.cache {
		delete(f.cache, k)
	}
	f.reset()
	f.flushes++
}

// Measure returns the pixel bounds of s laid out with st, relative to the
// top-left corner of the first line. Y grows downwards.
//
func (f *Font) Measure(s string, st Settings) image.Rectangle {
	st = st.withDefaults()
	face := f.face(st.Scale)
	var r image.Rectangle
	_ = layout(face, s, st.LineWidth, func(c rune, dot image.Point) error {
		b, _, _ := face.GlyphBounds(c)
		gb := image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil()).Add(dot)
		r = r.Union(gb)
		return nil
	})
	return r
}

// Close releases the atlas texture and font faces.
//
func (f *Font) Close() error {
	for k, fc := range f.faces {
		fc.Close()
		delete(f.faces, k)
	}
	return f.tex.Close()
}
