package texture

import (
	"image/color"
)

// WrapMode selects how textures wrap when texture coordinates get outside of
// the range [0, 1].
//
type WrapMode uint8

// Supported wrap modes.
//
const (
	Repeat WrapMode = iota
	ClampToEdge
	ClampToBorder
	MirroredRepeat
	MirrorClampToEdge
)

var wrapNames = [...]string{"Repeat", "ClampToEdge", "ClampToBorder", "MirroredRepeat", "MirrorClampToEdge"}

func (m WrapMode) String() string {
	if int(m) < len(wrapNames) {
		return wrapNames[m]
	}
	return "WrapMode(?)"
}

// MinFilter selects how to filter textures when minifying.
//
type MinFilter uint8

// Supported minification filters.
//
const (
	MinNearest MinFilter = iota
	MinLinear
	NearestMipmapNearest
	LinearMipmapNearest
	NearestMipmapLinear
	LinearMipmapLinear
)

var minNames = [...]string{"Nearest", "Linear", "NearestMipmapNearest", "LinearMipmapNearest", "NearestMipmapLinear", "LinearMipmapLinear"}

func (f MinFilter) String() string {
	if int(f) < len(minNames) {
		return minNames[f]
	}
	return "MinFilter(?)"
}

// Mipmap reports whether the filter samples mipmap levels.
//
func (f MinFilter) Mipmap() bool {
	switch f {
	case NearestMipmapNearest, LinearMipmapNearest, NearestMipmapLinear, LinearMipmapLinear:
		return true
	}
	return false
}

// MagFilter selects how to filter textures when magnifying.
//
type MagFilter uint8

// Supported magnification filters.
//
const (
	MagNearest MagFilter = iota
	MagLinear
)

func (f MagFilter) String() string {
	switch f {
	case MagNearest:
		return "Nearest"
	case MagLinear:
		return "Linear"
	}
	return "MagFilter(?)"
}

// PixelFormat is the layout of texture pixel data.
//
type PixelFormat uint8

// Supported pixel formats.
//
const (
	RGBA PixelFormat = iota
	RGB
)

// PixelSize returns the size in bytes of one pixel.
//
func (f PixelFormat) PixelSize() int {
	if f == RGB {
		return 3
	}
	return 4
}

func (f PixelFormat) String() string {
	if f == RGB {
		return "RGB"
	}
	return "RGBA"
}

// Options holds the texture parameters.
//
type Options struct {
	Format    PixelFormat
	WrapS     WrapMode // horizontal
	WrapT     WrapMode // vertical
	MinFilter MinFilter
	MagFilter MagFilter
	Border    color.Color // border color for ClampToBorder, nil for the GPU default
}

// DefaultOptions returns the default texture options: RGBA, repeat in both
// directions, NearestMipmapNearest minification and Nearest magnification.
//
func DefaultOptions() Options {
	return Options{
		Format:    RGBA,
		WrapS:     Repeat,
		WrapT:     Repeat,
		MinFilter: NearestMipmapNearest,
		MagFilter: MagNearest,
	}
}

func (o *Options) set(params ...Parameter) {
	for _, p := range params {
		if p != nil {
			p.set(o)
		}
	}
}

// Parameter is implemented by functions setting texture parameters. See
// FromBytes.
//
type Parameter interface {
	set(*Options)
}

type optionFunc func(*Options)

func (f optionFunc) set(o *Options) {
	f(o)
}

// Wrap sets the horizontal and vertical wrap modes.
//
func Wrap(wrapS, wrapT WrapMode) Parameter {
	return optionFunc(func(o *Options) {
		o.WrapS = wrapS
		o.WrapT = wrapT
	})
}

// Filter sets the minification and magnification filters.
//
func Filter(min MinFilter, mag MagFilter) Parameter {
	return optionFunc(func(o *Options) {
		o.MinFilter = min
		o.MagFilter = mag
	})
}

// Format sets the pixel format of the data passed to FromBytes.
//
func Format(f PixelFormat) Parameter {
	return optionFunc(func(o *Options) {
		o.Format = f
	})
}

// BorderColor sets the texture border color.
//
func BorderColor(c color.Color) Parameter {
	return optionFunc(func(o *Options) {
		o.Border = c
	})
}

// WithOptions replaces all options with o.
//
func WithOptions(opts Options) Parameter {
	return optionFunc(func(o *Options) {
		*o = opts
	})
}
