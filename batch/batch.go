// Package batch groups draw calls into instanced draw batches.
//
// A Batch holds the per-instance data of up to MaxSize objects that share the
// same shader program, mesh and texture. A List partitions the draw calls of
// a frame into batches using greedy first-fit: each call goes to the first
// batch that accepts it, or to a new batch.
//
// Batches are drawn in creation order, so two overlapping objects that end up
// in different batches may be drawn in a different order than they were
// submitted. Depth testing hides this for opaque sprites but not for alpha
// blended ones.
//
package batch

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MaxSize is the default maximum number of instances in a single batch.
	MaxSize = 256
	// InstanceSize is the number of floats per instance: a texture region
	// (4 floats) followed by a column-major 4x4 matrix (16 floats).
	InstanceSize = 4 + 16
)

// A DrawCall is a request to draw one instance of a mesh.
//
type DrawCall struct {
	Program uint32
	Mesh    uint32
	Texture uint32
	// Region is the texture region to map onto the mesh: offset x, y, size x,
	// y in normalized texture coordinates.
	Region mgl32.Vec4
	// Matrix is the model-view-projection matrix.
	Matrix mgl32.Mat4
}

// Key returns the compatibility key of the draw call.
//
func (dc *DrawCall) Key() Key {
	return Key{dc.Program, dc.Mesh, dc.Texture}
}

// Key identifies the GPU state shared by all instances of a batch.
//
type Key struct {
	Program uint32
	Mesh    uint32
	Texture uint32
}

// InstanceUploader wraps the UploadInstances method.
//
// UploadInstances replaces the contents of the per-instance buffer attached to
// the given mesh with data. The buffer is rewritten every frame.
//
type InstanceUploader interface {
	UploadInstances(mesh uint32, data []float32)
}

// A Batch accumulates instance data for objects sharing the same Key.
//
type Batch struct {
	key  Key
	n    int
	size int
	buf  []float32
}

// New returns a new Batch of capacity MaxSize, keyed on dc and containing dc
// as its first instance.
//
func New(dc *DrawCall) *Batch {
	return NewSize(dc, MaxSize)
}

// NewSize is like New but with a capacity of size instances. It panics if size
// is less than 1.
//
func NewSize(dc *DrawCall, size int) *Batch {
	if size < 1 {
		panic("batch: invalid batch size")
	}
	b := &Batch{size: size, buf: make([]float32, size*InstanceSize)}
	b.reset(dc.Key())
	b.Add(dc)
	return b
}

func (b *Batch) reset(k Key) {
	b.key = k
	b.n = 0
}

// Add appends dc to the batch. It returns false and leaves the batch untouched
// if dc is not compatible with the batch or if the batch is full.
//
func (b *Batch) Add(dc *DrawCall) bool {
	if dc.Key() != b.key || b.n >= b.size {
		return false
	}
	i := b.n * InstanceSize
	copy(b.buf[i:i+4], dc.Region[:])
	copy(b.buf[i+4:i+InstanceSize], dc.Matrix[:])
	b.n++
	return true
}

// Key returns the batch key.
//
func (b *Batch) Key() Key { return b.key }

// Len returns the number of instances in the batch.
//
func (b *Batch) Len() int { return b.n }

// Cap returns the maximum number of instances in the batch.
//
func (b *Batch) Cap() int { return b.size }

// Full reports whether the batch has reached its capacity.
//
func (b *Batch) Full() bool { return b.n >= b.size }

// Instances returns the instance data. The returned slice aliases the batch
// buffer and is only valid until the next call to Add or until the owning
// List is cleared.
//
func (b *Batch) Instances() []float32 {
	return b.buf[:b.n*InstanceSize]
}

// Instance returns the texture region and matrix of the i-th instance.
//
func (b *Batch) Instance(i int) (region mgl32.Vec4, m mgl32.Mat4) {
	if i < 0 || i >= b.n {
		panic("batch: instance index out of range")
	}
	o := i * InstanceSize
	copy(region[:], b.buf[o:o+4])
	copy(m[:], b.buf[o+4:o+InstanceSize])
	return region, m
}

// BufferData uploads the instance data (and only the used part of the buffer)
// to the per-instance buffer of the batch's mesh.
//
func (b *Batch) BufferData(u InstanceUploader) {
	u.UploadInstances(b.key.Mesh, b.Instances())
}
