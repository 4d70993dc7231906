package sprig

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/db47h/sprig/batch"
	"github.com/db47h/sprig/text"
	"github.com/db47h/sprig/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"
)

type draw struct {
	program, texture, mesh uint32
	indices                int32
	instances              int
	data                   []float32
}

// fakeDevice records GPU calls.
type fakeDevice struct {
	next       uint32
	programErr error
	calls      []string
	uses       []uint32
	draws      []draw
	clears     int
	viewport   image.Rectangle
	clearColor color.Color
	deleted    []string

	program, texture uint32
	mesh             *Mesh
	data             []float32
}

func (d *fakeDevice) id() uint32 { d.next++; return d.next }

func (d *fakeDevice) UploadTexture(width, height int, pix []byte, o *texture.Options) (uint32, error) {
	return d.id(), nil
}
func (d *fakeDevice) UpdateTexture(id uint32, r image.Rectangle, pix []byte, o *texture.Options) {}
func (d *fakeDevice) DeleteTexture(id uint32) {
	d.deleted = append(d.deleted, fmt.Sprint("texture ", id))
}

func (d *fakeDevice) NewProgram(vs, fs string) (uint32, error) {
	d.calls = append(d.calls, "program")
	if d.programErr != nil {
		return 0, d.programErr
	}
	return d.id(), nil
}

func (d *fakeDevice) DeleteProgram(id uint32) {
	d.deleted = append(d.deleted, fmt.Sprint("program ", id))
}

func (d *fakeDevice) NewMesh(vertices []Vertex, indices []uint32) (Mesh, error) {
	d.calls = append(d.calls, fmt.Sprintf("mesh %d/%d", len(vertices), len(indices)))
	m := Mesh{VAO: d.id(), VBO: d.id(), Instances: d.id(), Indices: int32(len(indices))}
	if len(indices) > 0 {
		m.EBO = d.id()
	}
	return m, nil
}

func (d *fakeDevice) DeleteMesh(m *Mesh) {
	d.deleted = append(d.deleted, fmt.Sprint("mesh ", m.VAO))
}

func (d *fakeDevice) Setup(c color.Color) {
	d.calls = append(d.calls, "setup")
	d.clearColor = c
}

func (d *fakeDevice) Clear() { d.clears++ }

func (d *fakeDevice) Viewport(x, y, w, h int) {
	d.viewport = image.Rect(x, y, x+w, y+h)
}

func (d *fakeDevice) UseProgram(id uint32) {
	d.uses = append(d.uses, id)
	d.program = id
}

func (d *fakeDevice) BindTexture(id uint32) { d.texture = id }
func (d *fakeDevice) BindMesh(m *Mesh)      { d.mesh = m }

func (d *fakeDevice) UploadInstances(mesh uint32, data []float32) {
	if d.mesh == nil || d.mesh.VAO != mesh {
		panic("instances uploaded to unbound mesh")
	}
	d.data = append(d.data[:0], data...)
}

func (d *fakeDevice) DrawInstanced(indices int32, instances int) {
	d.draws = append(d.draws, draw{
		program:   d.program,
		texture:   d.texture,
		mesh:      d.mesh.VAO,
		indices:   indices,
		instances: instances,
		data:      append([]float32(nil), d.data...),
	})
}

type fakeWindow struct {
	w, h  int
	swaps int
}

func (w *fakeWindow) Size() (int, int) { return w.w, w.h }
func (w *fakeWindow) SwapBuffers()     { w.swaps++ }

func newManager(t *testing.T, cfg Config) (*Manager, *fakeDevice, *fakeWindow) {
	t.Helper()
	dev := new(fakeDevice)
	win := &fakeWindow{w: 800, h: 600}
	m, err := NewManager(dev, win, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return m, dev, win
}

func newTexture(t *testing.T, dev *fakeDevice, w, h int) *texture.Texture {
	t.Helper()
	tex, err := texture.New(dev, w, h)
	if err != nil {
		t.Fatal(err)
	}
	return tex
}

func TestNewManager(t *testing.T) {
	m, dev, _ := newManager(t, Config{})
	want := []string{"setup", "program", "mesh 4/6"}
	if fmt.Sprint(dev.calls) != fmt.Sprint(want) {
		t.Errorf("calls = %v, want %v", dev.calls, want)
	}
	if dev.clearColor != DefaultClearColor {
		t.Errorf("clear color = %v", dev.clearColor)
	}
	if dev.viewport != image.Rect(0, 0, 800, 600) {
		t.Errorf("viewport = %v", dev.viewport)
	}
	if err := m.Quad().Check(); err != nil {
		t.Error(err)
	}
	if m.Program() == 0 {
		t.Error("zero program id")
	}
}

func TestNewManagerShaderError(t *testing.T) {
	dev := &fakeDevice{programErr: &ShaderError{Kind: ProgramLinkingFailed, Log: "undefined aMVP"}}
	_, err := NewManager(dev, &fakeWindow{w: 1, h: 1}, Config{})
	var se *ShaderError
	if !errors.As(err, &se) {
		t.Fatalf("error %v is not a *ShaderError", err)
	}
	if se.Kind != ProgramLinkingFailed || se.Log != "undefined aMVP" {
		t.Errorf("got %+v", se)
	}
}

func TestRenderEmpty(t *testing.T) {
	m, dev, win := newManager(t, Config{})
	if err := m.Render(); err != nil {
		t.Fatal(err)
	}
	if dev.clears != 1 || win.swaps != 1 || len(dev.draws) != 0 {
		t.Errorf("clears %d, swaps %d, draws %d; want 1, 1, 0", dev.clears, win.swaps, len(dev.draws))
	}
	if s := m.FrameStats(); s != (FrameStats{}) {
		t.Errorf("stats = %+v", s)
	}
}

func alternate(t *testing.T, cfg Config) (*fakeDevice, []uint32, *Manager) {
	m, dev, win := newManager(t, cfg)
	a, b := newTexture(t, dev, 16, 16), newTexture(t, dev, 16, 16)
	cam := NewOrtho(mgl32.Vec3{0, 0, 10}, 10, ScaleHeight)
	for i := 0; i < 300; i++ {
		d := a
		if i%2 == 1 {
			d = b
		}
		m.DrawSprite(d, FromPosition(mgl32.Vec3{float32(i), 0, 0}), cam)
	}
	if err := m.Render(); err != nil {
		t.Fatal(err)
	}
	if win.swaps != 1 {
		t.Errorf("%d swaps, want 1", win.swaps)
	}
	return dev, []uint32{a.NativeID(), b.NativeID()}, m
}

func TestRenderAlternating(t *testing.T) {
	dev, tex, m := alternate(t, Config{BatchSize: 128})
	want := []struct {
		tex       uint32
		instances int
	}{{tex[0], 128}, {tex[1], 128}, {tex[0], 22}, {tex[1], 22}}
	if len(dev.draws) != len(want) {
		t.Fatalf("%d draws, want %d", len(dev.draws), len(want))
	}
	for i, w := range want {
		d := dev.draws[i]
		if d.texture != w.tex || d.instances != w.instances || d.indices != 6 {
			t.Errorf("draw %d: texture %d, %d instances, %d indices; want %d, %d, 6", i, d.texture, d.instances, d.indices, w.tex, w.instances)
		}
		if len(d.data) != d.instances*batch.InstanceSize {
			t.Errorf("draw %d: %d floats uploaded", i, len(d.data))
		}
	}
	if len(dev.uses) != 1 || dev.uses[0] != m.Program() {
		t.Errorf("UseProgram calls = %v, want [%d]", dev.uses, m.Program())
	}
	if s := m.FrameStats(); s != (FrameStats{Batches: 4, Instances: 300, Draws: 4}) {
		t.Errorf("stats = %+v", s)
	}
}

func TestRenderAlternatingDefaultSize(t *testing.T) {
	dev, _, _ := alternate(t, Config{})
	if len(dev.draws) != 2 {
		t.Fatalf("%d draws, want 2", len(dev.draws))
	}
	for _, d := range dev.draws {
		if d.instances != 150 {
			t.Errorf("%d instances, want 150", d.instances)
		}
	}
}

func TestDrawSpriteInstance(t *testing.T) {
	m, dev, _ := newManager(t, Config{})
	tex := newTexture(t, dev, 64, 32)
	sheet, err := texture.NewSpriteSheet(tex, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	cam := NewOrtho(mgl32.Vec3{0, 0, 10}, 10, ScaleHeight)
	tr := Transform{Position: mgl32.Vec3{1, 2, 0}, Scale: mgl32.Vec3{2, 2, 1}, Rotation: mgl32.Vec3{0, 0, 30}}
	m.DrawSprite(sheet.Sprite(1, 1), tr, cam)
	if err := m.Render(); err != nil {
		t.Fatal(err)
	}
	if len(dev.draws) != 1 {
		t.Fatalf("%d draws, want 1", len(dev.draws))
	}
	data := dev.draws[0].data
	if r := (mgl32.Vec4{data[0], data[1], data[2], data[3]}); r != sheet.TexRegion(1, 1) {
		t.Errorf("region = %v, want %v", r, sheet.TexRegion(1, 1))
	}
	want := cam.Matrix(800, 600).Mul4(tr.Matrix())
	var got mgl32.Mat4
	copy(got[:], data[4:20])
	if got != want {
		t.Errorf("matrix = %v, want %v", got, want)
	}
}

func TestRenderMeshErrors(t *testing.T) {
	m, dev, win := newManager(t, Config{})
	noIndices, err := m.NewMesh(quadVertices, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		mesh uint32
		err  error
	}{
		{999, ErrMeshVAONotInitialized},
		{noIndices.VAO, ErrMeshEBONotInitialized},
	} {
		m.QueueDrawCall(&batch.DrawCall{Program: m.Program(), Mesh: tc.mesh, Texture: 1})
		err := m.Render()
		if !errors.Is(err, tc.err) || !errors.Is(err, ErrMeshNotInitialized) {
			t.Errorf("mesh %d: got %v, want %v", tc.mesh, err, tc.err)
		}
	}
	if win.swaps != 0 || len(dev.draws) != 0 {
		t.Errorf("%d swaps, %d draws after failed frames", win.swaps, len(dev.draws))
	}
	// the queue was dropped
	if err := m.Render(); err != nil {
		t.Fatal(err)
	}
	if win.swaps != 1 || len(dev.draws) != 0 {
		t.Errorf("%d swaps, %d draws", win.swaps, len(dev.draws))
	}
}

func TestRenderCustomMesh(t *testing.T) {
	m, dev, _ := newManager(t, Config{})
	tri, err := m.NewMesh(quadVertices[:3], []uint32{0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	m.QueueDrawCall(&batch.DrawCall{Program: m.Program(), Mesh: tri.VAO, Texture: 7})
	m.QueueDrawCall(&batch.DrawCall{Program: m.Program(), Mesh: m.Quad().VAO, Texture: 7})
	if err := m.Render(); err != nil {
		t.Fatal(err)
	}
	if len(dev.draws) != 2 || dev.draws[0].indices != 3 || dev.draws[1].indices != 6 {
		t.Errorf("draws = %+v", dev.draws)
	}
	m.DeleteMesh(tri)
	m.QueueDrawCall(&batch.DrawCall{Program: m.Program(), Mesh: tri.VAO, Texture: 7})
	if err := m.Render(); !errors.Is(err, ErrMeshVAONotInitialized) {
		t.Errorf("deleted mesh: got %v", err)
	}
}

func TestResize(t *testing.T) {
	m, dev, _ := newManager(t, Config{})
	m.Resize(1024, 768)
	if dev.viewport != image.Rect(0, 0, 1024, 768) {
		t.Errorf("viewport = %v", dev.viewport)
	}
}

func TestDrawText(t *testing.T) {
	m, dev, _ := newManager(t, Config{})
	f, err := text.Parse(dev, goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cam := NewOrtho(mgl32.Vec3{0, 0, 10}, 10, ScaleHeight)
	if err := m.DrawText("Hello, world", f, text.Settings{Scale: 32}, NewTransform(), cam); err != nil {
		t.Fatal(err)
	}
	if err := m.Render(); err != nil {
		t.Fatal(err)
	}
	if len(dev.draws) != 1 {
		t.Fatalf("%d draws, want 1", len(dev.draws))
	}
	d := dev.draws[0]
	if d.texture != f.Texture().NativeID() || d.instances != 11 {
		t.Errorf("texture %d, %d instances; want %d, 11", d.texture, d.instances, f.Texture().NativeID())
	}
}

func TestDrawTextAtlasFull(t *testing.T) {
	m, dev, _ := newManager(t, Config{})
	f, err := text.Parse(dev, goregular.TTF, text.AtlasSize(16))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	err = m.DrawText("W", f, text.Settings{Scale: 64}, NewTransform(), NewOrtho(mgl32.Vec3{}, 1, ScaleHeight))
	if errors.Cause(err) != text.ErrAtlasFull {
		t.Errorf("got %v, want ErrAtlasFull", err)
	}
}

func TestClose(t *testing.T) {
	m, dev, _ := newManager(t, Config{})
	prog, quad := m.Program(), m.Quad().VAO
	m.Close()
	m.Close()
	want := []string{fmt.Sprint("mesh ", quad), fmt.Sprint("program ", prog)}
	if fmt.Sprint(dev.deleted) != fmt.Sprint(want) {
		t.Errorf("deleted = %v, want %v", dev.deleted, want)
	}
}
