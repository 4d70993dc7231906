// Package sprig is an instanced sprite renderer.
//
// Applications queue sprites and text every frame through a Manager. Draw
// requests are grouped into batches sharing the same shader program, mesh and
// texture; each batch is then rendered with a single instanced draw call.
//
// Batches are filled first-fit: a draw request goes to the first batch of the
// frame that accepts it. Within a batch, submission order is preserved, but
// batches are drawn in creation order. Depth testing resolves occlusion between
// opaque sprites. Overlapping alpha-blended sprites that land in different
// batches may however be blended out of submission order.
//
package sprig

import (
	"image/color"

	"github.com/db47h/sprig/batch"
	"github.com/db47h/sprig/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// Drawable is implemented by anything that can be drawn as a textured quad:
// *texture.Texture, *texture.Region, texture.Sprite.
//
type Drawable interface {
	Texture() *texture.Texture
	TexRegion() mgl32.Vec4
}

// Vertex is a mesh vertex.
//
type Vertex struct {
	Position mgl32.Vec3
	UV       mgl32.Vec2
}

// Mesh describes GPU vertex state. VAO doubles as the mesh identifier in draw
// calls.
//
type Mesh struct {
	VAO       uint32
	VBO       uint32
	EBO       uint32
	Instances uint32 // per-instance attribute buffer
	Indices   int32  // index count
}

// Check returns ErrMeshVAONotInitialized or ErrMeshEBONotInitialized if the
// mesh cannot be drawn.
//
func (m *Mesh) Check() error {
	if m == nil || m.VAO == 0 {
		return ErrMeshVAONotInitialized
	}
	if m.EBO == 0 || m.Indices <= 0 {
		return ErrMeshEBONotInitialized
	}
	return nil
}

// Device is the narrow GPU interface used by Manager. It is implemented by
// *gl.Device.
//
// Meshes are created with an attached per-instance buffer laid out as
// batch.InstanceSize floats per instance: the texture region followed by the
// column-major model-view-projection matrix.
//
type Device interface {
	texture.Uploader
	batch.InstanceUploader

	NewProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(id uint32)
	NewMesh(vertices []Vertex, indices []uint32) (Mesh, error)
	DeleteMesh(m *Mesh)

	// Setup enables depth testing and alpha blending and sets the clear color.
	Setup(clear color.Color)
	Clear()
	Viewport(x, y, width, height int)

	UseProgram(id uint32)
	BindTexture(id uint32)
	BindMesh(m *Mesh)
	DrawInstanced(indices int32, instances int)
}

// Window is the window collaborator: it reports its framebuffer size and
// presents frames.
//
type Window interface {
	Size() (width, height int)
	SwapBuffers()
}
