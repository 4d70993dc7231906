package sprig

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a translation, scale and rotation in 3D space. Rotation holds
// Euler angles in degrees, applied in X, Y, Z order.
//
// The zero Transform has a zero scale; use NewTransform or one of the From*
// constructors.
//
type Transform struct {
	Position mgl32.Vec3
	Scale    mgl32.Vec3
	Rotation mgl32.Vec3
}

// NewTransform returns the identity transform.
//
func NewTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// FromPosition returns a transform with the given position, unit scale and no
// rotation.
//
func FromPosition(pos mgl32.Vec3) Transform {
	t := NewTransform()
	t.Position = pos
	return t
}

// FromScale returns a transform with the given scale.
//
func FromScale(scale mgl32.Vec3) Transform {
	return Transform{Scale: scale}
}

// FromRotation returns a transform with the given rotation in degrees.
//
func FromRotation(rot mgl32.Vec3) Transform {
	t := NewTransform()
	t.Rotation = rot
	return t
}

// Matrix returns translation * rotation * scale.
//
func (t Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	if t.Rotation != (mgl32.Vec3{}) {
		q := mgl32.AnglesToQuat(
			mgl32.DegToRad(t.Rotation[0]),
			mgl32.DegToRad(t.Rotation[1]),
			mgl32.DegToRad(t.Rotation[2]),
			mgl32.XYZ)
		m = m.Mul4(q.Mat4())
	}
	return m.Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}
