package sprig

import (
	"image/color"

	"github.com/db47h/sprig/batch"
	"github.com/db47h/sprig/text"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// DefaultClearColor is the clear color used when Config.ClearColor is nil.
//
var DefaultClearColor color.Color = color.NRGBA64{R: 0x4ccc, G: 0x4ccc, B: 0x8000, A: 0xffff}

// Config holds Manager settings. The zero Config is valid.
//
type Config struct {
	VertexShader   string      // defaults to DefaultVertexShader
	FragmentShader string      // defaults to DefaultFragmentShader
	ClearColor     color.Color // defaults to DefaultClearColor
	BatchSize      int         // maximum instances per batch, defaults to batch.MaxSize
}

// FrameStats describes the last rendered frame.
//
type FrameStats struct {
	Batches   int
	Instances int
	Draws     int
}

var (
	quadVertices = []Vertex{
		{Position: mgl32.Vec3{0.5, 0.5, 0}, UV: mgl32.Vec2{1, 0}},   // top right
		{Position: mgl32.Vec3{0.5, -0.5, 0}, UV: mgl32.Vec2{1, 1}},  // bottom right
		{Position: mgl32.Vec3{-0.5, -0.5, 0}, UV: mgl32.Vec2{0, 1}}, // bottom left
		{Position: mgl32.Vec3{-0.5, 0.5, 0}, UV: mgl32.Vec2{0, 0}},  // top left
	}
	quadIndices = []uint32{0, 1, 2, 0, 2, 3}
)

// A Manager queues draw requests during a frame and renders them in batches.
//
// It owns the base shader program, the unit quad mesh used for sprites and
// glyphs, and the batch list. A Manager must only be used from the goroutine
// owning the GPU context.
//
type Manager struct {
	dev     Device
	win     Window
	program uint32
	quad    Mesh
	meshes  map[uint32]*Mesh
	list    batch.List
	stats   FrameStats
	frames  uint64
	dc      batch.DrawCall
	closed  bool
}

// NewManager sets up the device pipeline state and builds the base program and
// quad mesh.
//
func NewManager(dev Device, win Window, cfg Config) (*Manager, error) {
	if cfg.VertexShader == "" {
		cfg.VertexShader = DefaultVertexShader
	}
	if cfg.FragmentShader == "" {
		cfg.FragmentShader = DefaultFragmentShader
	}
	if cfg.ClearColor == nil {
		cfg.ClearColor = DefaultClearColor
	}
	dev.Setup(cfg.ClearColor)

	prog, err := dev.NewProgram(cfg.VertexShader, cfg.FragmentShader)
	if err != nil {
		return nil, errors.Wrap(err, "build base program")
	}
	quad, err := dev.NewMesh(quadVertices, quadIndices)
	if err != nil {
		dev.DeleteProgram(prog)
		return nil, errors.Wrap(err, "build quad mesh")
	}
	m := &Manager{
		dev:     dev,
		win:     win,
		program: prog,
		quad:    quad,
		meshes:  make(map[uint32]*Mesh),
		list:    batch.List{Size: cfg.BatchSize},
	}
	m.meshes[quad.VAO] = &m.quad
	w, h := win.Size()
	dev.Viewport(0, 0, w, h)
	Logger().Info("sprite manager ready",
		"program", prog, "quad", quad.VAO, "batchSize", m.list.Cap(), "width", w, "height", h)
	return m, nil
}

// Program returns the base shader program.
//
func (m *Manager) Program() uint32 { return m.program }

// Quad returns the unit quad mesh used for sprites.
//
func (m *Manager) Quad() *Mesh { return &m.quad }

// NewMesh creates a mesh and registers it for rendering. Meshes created
// without indices cannot be drawn: Render reports ErrMeshEBONotInitialized.
//
func (m *Manager) NewMesh(vertices []Vertex, indices []uint32) (*Mesh, error) {
	mesh, err := m.dev.NewMesh(vertices, indices)
	if err != nil {
		return nil, errors.Wrap(err, "create mesh")
	}
	p := &mesh
	m.meshes[mesh.VAO] = p
	return p, nil
}

// DeleteMesh releases a mesh created by NewMesh.
//
func (m *Manager) DeleteMesh(mesh *Mesh) {
	if mesh == nil || mesh == &m.quad || m.meshes[mesh.VAO] != mesh {
		return
	}
	delete(m.meshes, mesh.VAO)
	m.dev.DeleteMesh(mesh)
	*mesh = Mesh{}
}

// WindowSize returns the current window size.
//
func (m *Manager) WindowSize() (width, height int) {
	return m.win.Size()
}

// Resize updates the viewport. Call it when the window framebuffer is resized.
//
func (m *Manager) Resize(width, height int) {
	m.dev.Viewport(0, 0, width, height)
}

// DrawSprite queues d for drawing with the quad mesh and base program.
//
// Sprites sharing a texture are grouped into the first batch with room for
// them, so translucent sprites with different textures may not be blended
// in submission order.
//
func (m *Manager) DrawSprite(d Drawable, t Transform, c *Camera) {
	w, h := m.win.Size()
	m.dc = batch.DrawCall{
		Program: m.program,
		Mesh:    m.quad.VAO,
		Texture: d.Texture().NativeID(),
		Region:  d.TexRegion(),
		Matrix:  c.Matrix(w, h).Mul4(t.Matrix()),
	}
	m.list.Insert(&m.dc)
}

// DrawText queues one quad per visible glyph of s. t positions the text
// origin: the top-left corner of the first line.
//
func (m *Manager) DrawText(s string, f *text.Font, st text.Settings, t Transform, c *Camera) error {
	gs, err := f.Glyphs(s, st)
	if err != nil {
		return errors.Wrapf(err, "draw text %q", s)
	}
	w, h := m.win.Size()
	pvm := c.Matrix(w, h).Mul4(t.Matrix())
	tex := f.Texture().NativeID()
	for i := range gs {
		g := &gs[i]
		m.dc = batch.DrawCall{
			Program: m.program,
			Mesh:    m.quad.VAO,
			Texture: tex,
			Region:  g.Region,
			Matrix: pvm.Mul4(mgl32.Translate3D(g.World[0], g.World[1], 0)).
				Mul4(mgl32.Scale3D(g.World[2], g.World[3], 1)),
		}
		m.list.Insert(&m.dc)
	}
	return nil
}

// QueueDrawCall queues a raw draw call. dc is copied.
//
func (m *Manager) QueueDrawCall(dc *batch.DrawCall) {
	m.list.Insert(dc)
}

// Render draws all queued batches, clears the queue and swaps buffers.
//
// If a batch cannot be drawn, Render stops, drops the rest of the frame
// without swapping and returns the error. The queue is cleared in any case.
//
func (m *Manager) Render() error {
	m.dev.Clear()
	var (
		bound uint32
		stats FrameStats
		err   error
	)
	for i, b := range m.list.Batches() {
		if err = m.draw(b, &bound); err != nil {
			err = errors.Wrapf(err, "render batch %d", i)
			break
		}
		stats.Draws++
	}
	s := m.list.Stats()
	stats.Batches, stats.Instances = s.Batches, s.Instances
	m.list.Clear()
	m.stats = stats
	m.frames++
	if err != nil {
		Logger().Warn("frame dropped", "frame", m.frames, "err", err)
		return err
	}
	m.win.SwapBuffers()
	if m.frames == 1 {
		Logger().Debug("first frame", "batches", stats.Batches, "instances", stats.Instances)
	}
	return nil
}

func (m *Manager) draw(b *batch.Batch, bound *uint32) error {
	k := b.Key()
	mesh := m.meshes[k.Mesh]
	if err := mesh.Check(); err != nil {
		return err
	}
	if k.Program != *bound {
		m.dev.UseProgram(k.Program)
		*bound = k.Program
	}
	m.dev.BindTexture(k.Texture)
	m.dev.BindMesh(mesh)
	b.BufferData(m.dev)
	m.dev.DrawInstanced(mesh.Indices, b.Len())
	return nil
}

// FrameStats returns statistics about the last rendered frame.
//
func (m *Manager) FrameStats() FrameStats {
	return m.stats
}

// Close releases the program and all meshes. Subsequent calls are no-ops.
//
func (m *Manager) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	for k, mesh := range m.meshes {
		m.dev.DeleteMesh(mesh)
		delete(m.meshes, k)
	}
	m.dev.DeleteProgram(m.program)
	m.list.Clear()
	return nil
}
