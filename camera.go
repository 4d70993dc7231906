package sprig

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ScaleMode selects how the camera width and height are derived from
// Camera.Size and the window aspect ratio.
//
type ScaleMode int

// Scale modes.
//
const (
	ScaleWidth  ScaleMode = iota // Size is the width (horizontal FOV)
	ScaleHeight                  // Size is the height (vertical FOV)
	ScaleMin                     // Size is the smaller dimension
	ScaleMax                     // Size is the larger dimension
)

var up = mgl32.Vec3{0, 1, 0}

// Camera computes view and projection matrices. Matrices are recomputed on
// every call.
//
type Camera struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Near, Far float32

	// Size is the frustum size in world units for orthographic cameras and
	// the field of view in degrees for perspective cameras. See ScaleMode.
	Size        float32
	ScaleMode   ScaleMode
	Perspective bool
}

// NewOrtho returns an orthographic camera at pos looking down the negative Z
// axis.
//
func NewOrtho(pos mgl32.Vec3, size float32, mode ScaleMode) *Camera {
	return &Camera{
		Position:  pos,
		Direction: mgl32.Vec3{0, 0, -1},
		Near:      0.1,
		Far:       100,
		Size:      size,
		ScaleMode: mode,
	}
}

// LookAt points the camera at target.
//
func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Direction = target.Sub(c.Position)
}

// Matrix returns the combined projection * view matrix for a window of the
// given size.
//
func (c *Camera) Matrix(width, height int) mgl32.Mat4 {
	return c.ProjMatrix(width, height).Mul4(c.ViewMatrix())
}

// Extent returns the camera width and height for a window of the given size.
//
func (c *Camera) Extent(width, height int) (w, h float32) {
	ratio := float32(1)
	if width > 0 && height > 0 {
		ratio = float32(width) / float32(height)
	}
	byWidth := func() (float32, float32) { return c.Size, c.Size / ratio }
	byHeight := func() (float32, float32) { return c.Size * ratio, c.Size }
	switch c.ScaleMode {
	case ScaleWidth:
		return byWidth()
	case ScaleMin:
		if ratio < 1 {
			return byWidth()
		}
	case ScaleMax:
		if ratio > 1 {
			return byWidth()
		}
	}
	return byHeight()
}

// ProjMatrix returns the projection matrix.
//
func (c *Camera) ProjMatrix(width, height int) mgl32.Mat4 {
	w, h := c.Extent(width, height)
	if c.Perspective {
		return mgl32.Perspective(mgl32.DegToRad(h), w/h, c.Near, c.Far)
	}
	return mgl32.Ortho(-w/2, w/2, -h/2, h/2, c.Near, c.Far)
}

// ViewMatrix returns the view matrix.
//
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Direction), up)
}
