package texture

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Region is a rectangular sub-region of a Texture.
//
type Region struct {
	tex    *Texture
	bounds image.Rectangle
}

// Region returns a region within the texture. bounds are in pixels.
//
func (t *Texture) Region(bounds image.Rectangle) *Region {
	return &Region{tex: t, bounds: bounds.Canon()}
}

// Texture returns the parent texture.
//
func (r *Region) Texture() *Texture { return r.tex }

// Rect returns the region's bounding rectangle within the parent texture.
//
func (r *Region) Rect() image.Rectangle { return r.bounds }

// Size returns the size of the region.
//
func (r *Region) Size() image.Point { return r.bounds.Size() }

// TexRegion returns the region's offset and size in normalized texture
// coordinates.
//
func (r *Region) TexRegion() mgl32.Vec4 {
	return texRegion(r.tex, r.bounds)
}

// Region returns a sub-region within the Region. bounds are relative to the
// region's top-left corner.
//
func (r *Region) Region(bounds image.Rectangle) *Region {
	return &Region{tex: r.tex, bounds: bounds.Canon().Add(r.bounds.Min)}
}

func texRegion(t *Texture, r image.Rectangle) mgl32.Vec4 {
	x, y := t.GLCoords(r.Min)
	w, h := t.GLCoords(r.Size())
	return mgl32.Vec4{x, y, w, h}
}

// SpriteSheet slices a texture into a grid of equally sized sprites.
//
type SpriteSheet struct {
	tex    *Texture
	sprite image.Point
	uvSize mgl32.Vec2
}

// NewSpriteSheet returns a sprite sheet over t where each sprite is
// spriteWidth x spriteHeight pixels. The sprite size must be positive and no
// larger than the texture.
//
func NewSpriteSheet(t *Texture, spriteWidth, spriteHeight int) (*SpriteSheet, error) {
	sz := t.Size()
	if spriteWidth <= 0 || spriteHeight <= 0 || spriteWidth > sz.X || spriteHeight > sz.Y {
		return nil, errors.Errorf("invalid sprite size %dx%d for a %dx%d texture",
			spriteWidth, spriteHeight, sz.X, sz.Y)
	}
	w, h := t.GLCoords(image.Pt(spriteWidth, spriteHeight))
	return &SpriteSheet{
		tex:    t,
		sprite: image.Pt(spriteWidth, spriteHeight),
		uvSize: mgl32.Vec2{w, h},
	}, nil
}

// Texture returns the sprite sheet texture.
//
func (s *SpriteSheet) Texture() *Texture { return s.tex }

// SpriteSize returns the size of a sprite in pixels.
//
func (s *SpriteSheet) SpriteSize() image.Point { return s.sprite }

// Grid returns the number of whole sprites in each direction.
//
func (s *SpriteSheet) Grid() image.Point {
	sz := s.tex.Size()
	return image.Pt(sz.X/s.sprite.X, sz.Y/s.sprite.Y)
}

// Sprite returns the sprite at grid position (x, y).
//
func (s *SpriteSheet) Sprite(x, y int) Sprite {
	return Sprite{sheet: s, X: x, Y: y}
}

// TexRegion returns the texture region of the sprite at grid position (x, y).
//
func (s *SpriteSheet) TexRegion(x, y int) mgl32.Vec4 {
	u, v := s.tex.GLCoords(image.Pt(s.sprite.X*x, s.sprite.Y*y))
	return mgl32.Vec4{u, v, s.uvSize[0], s.uvSize[1]}
}

// A Sprite is one cell of a SpriteSheet.
//
type Sprite struct {
	sheet *SpriteSheet
	X, Y  int
}

// Texture returns the sprite sheet texture.
//
func (s Sprite) Texture() *Texture { return s.sheet.tex }

// TexRegion returns the sprite's texture region in normalized texture
// coordinates.
//
func (s Sprite) TexRegion() mgl32.Vec4 {
	return s.sheet.TexRegion(s.X, s.Y)
}
