package gl

import (
	"unsafe"

	"github.com/db47h/sprig"
	"github.com/db47h/sprig/batch"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

const (
	floatSize    = 4
	vertexSize   = int32(unsafe.Sizeof(sprig.Vertex{}))
	instanceSize = batch.InstanceSize * floatSize
)

// NewMesh uploads vertices and indices and creates the mesh instance buffer.
// If indices is empty, no element buffer is created.
//
func (d *Device) NewMesh(vertices []sprig.Vertex, indices []uint32) (sprig.Mesh, error) {
	var m sprig.Mesh
	if len(vertices) == 0 {
		return m, errors.New("mesh has no vertices")
	}
	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(vertexSize), unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(sprig.AttribPosition)
	gl.VertexAttribPointer(sprig.AttribPosition, 3, gl.FLOAT, false, vertexSize, nil)
	gl.EnableVertexAttribArray(sprig.AttribUV)
	gl.VertexAttribPointer(sprig.AttribUV, 2, gl.FLOAT, false, vertexSize, gl.PtrOffset(3*floatSize))

	if len(indices) > 0 {
		gl.GenBuffers(1, &m.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
		m.Indices = int32(len(indices))
	}

	// per instance: texture region, then the 4 matrix columns
	gl.GenBuffers(1, &m.Instances)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.Instances)
	gl.BufferData(gl.ARRAY_BUFFER, batch.MaxSize*instanceSize, nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(sprig.AttribRegion)
	gl.VertexAttribPointer(sprig.AttribRegion, 4, gl.FLOAT, false, instanceSize, nil)
	gl.VertexAttribDivisor(sprig.AttribRegion, 1)
	for i := uint32(0); i < 4; i++ {
		loc := sprig.AttribMatrix + i
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, 4, gl.FLOAT, false, instanceSize, gl.PtrOffset(int(4+4*i)*floatSize))
		gl.VertexAttribDivisor(loc, 1)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if err := glError("create mesh"); err != nil {
		d.DeleteMesh(&m)
		return sprig.Mesh{}, err
	}
	d.instances[m.VAO] = m.Instances
	sprig.Logger().Debug("created mesh", "vao", m.VAO, "vertices", len(vertices), "indices", len(indices))
	return m, nil
}

// DeleteMesh releases all buffers of a mesh.
//
func (d *Device) DeleteMesh(m *sprig.Mesh) {
	for _, b := range []*uint32{&m.VBO, &m.EBO, &m.Instances} {
		if *b != 0 {
			gl.DeleteBuffers(1, b)
		}
	}
	if m.VAO != 0 {
		delete(d.instances, m.VAO)
		gl.DeleteVertexArrays(1, &m.VAO)
	}
}

// BindMesh binds the mesh vertex array and element buffer.
//
func (d *Device) BindMesh(m *sprig.Mesh) {
	gl.BindVertexArray(m.VAO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
}

// UploadInstances streams per-instance data to the instance buffer of mesh.
// Only len(data) floats are uploaded; the buffer is orphaned every call.
//
func (d *Device) UploadInstances(mesh uint32, data []float32) {
	vbo, ok := d.instances[mesh]
	if !ok || len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*floatSize, gl.Ptr(data), gl.STREAM_DRAW)
}
