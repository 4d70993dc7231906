package text

import (
	"image"
	"image/color"
	"testing"

	"github.com/db47h/sprig/texture"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font/gofont/goregular"
)

type fakeUploader struct {
	updates int
	deleted int
}

func (u *fakeUploader) UploadTexture(width, height int, pix []byte, o *texture.Options) (uint32, error) {
	return 1, nil
}

func (u *fakeUploader) UpdateTexture(id uint32, r image.Rectangle, pix []byte, o *texture.Options) {
	u.updates++
}

func (u *fakeUploader) DeleteTexture(id uint32) { u.deleted++ }

func newFont(t *testing.T, opts ...Option) (*Font, *fakeUploader) {
	t.Helper()
	up := new(fakeUploader)
	f, err := Parse(up, goregular.TTF, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return f, up
}

func TestParseError(t *testing.T) {
	if _, err := Parse(new(fakeUploader), []byte("not a font")); err == nil {
		t.Error("Parse succeeded on garbage")
	}
}

func TestGlyphs(t *testing.T) {
	f, up := newFont(t)
	defer f.Close()
	if f.Texture().Size() != image.Pt(DefaultAtlasSize, DefaultAtlasSize) {
		t.Errorf("atlas size %v", f.Texture().Size())
	}
	gs, err := f.Glyphs("Hi", Settings{Scale: 32})
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 2 {
		t.Fatalf("%d glyphs, want 2", len(gs))
	}
	for i, g := range gs {
		r := g.Region
		if r[0] < 0 || r[1] < 0 || r[2] <= 0 || r[3] <= 0 || r[0]+r[2] > 1 || r[1]+r[3] > 1 {
			t.Errorf("glyph %d: region %v out of atlas", i, r)
		}
		if g.World[2] <= 0 || g.World[3] <= 0 {
			t.Errorf("glyph %d: empty world size %v", i, g.World)
		}
		// atlas pixels and world units agree
		if w := r[2] * DefaultAtlasSize / DefaultPixelsPerUnit; !mgl32.FloatEqualThreshold(w, g.World[2], 1e-4) {
			t.Errorf("glyph %d: world width %v, atlas width %v", i, g.World[2], w)
		}
		if g.World[1] >= 0 {
			t.Errorf("glyph %d: center y %v is above the origin", i, g.World[1])
		}
	}
	if gs[1].World[0] <= gs[0].World[0] {
		t.Errorf("second glyph at x %v, left of first at %v", gs[1].World[0], gs[0].World[0])
	}
	if up.updates != 2 {
		t.Errorf("%d atlas updates, want 2", up.updates)
	}
}

func TestGlyphsCache(t *testing.T) {
	f, up := newFont(t)
	defer f.Close()
	st := Settings{Scale: 20}
	gs, err := f.Glyphs("abba", st)
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 4 || gs[0].Region != gs[3].Region || gs[1].Region != gs[2].Region {
		t.Fatalf("glyph regions not shared: %v", gs)
	}
	first := append([]Glyph(nil), gs...)
	n := up.updates
	if n != 2 {
		t.Errorf("%d atlas updates, want 2", n)
	}
	gs, _ = f.Glyphs("abba", st)
	if up.updates != n {
		t.Errorf("cached glyphs uploaded again")
	}
	for i := range gs {
		if gs[i] != first[i] {
			t.Errorf("glyph %d: %v, want %v", i, gs[i], first[i])
		}
	}
	// color is part of the cache key
	st.Color = color.NRGBA{R: 255, A: 255}
	if _, err := f.Glyphs("a", st); err != nil {
		t.Fatal(err)
	}
	if up.updates != n+1 {
		t.Errorf("%d atlas updates after color change, want %d", up.updates, n+1)
	}
}

func TestGlyphsControl(t *testing.T) {
	f, _ := newFont(t)
	defer f.Close()
	for _, tc := range []struct {
		s string
		n int
	}{
		{"a b", 2},
		{"a\tb", 2},
		{"a\x00\x7fb", 2},
		{"\n\n", 0},
		{"", 0},
		{"é", 1}, // NFC composes into a single glyph
	} {
		gs, err := f.Glyphs(tc.s, Settings{})
		if err != nil {
			t.Fatal(err)
		}
		if len(gs) != tc.n {
			t.Errorf("%q: %d glyphs, want %d", tc.s, len(gs), tc.n)
		}
	}
}

func TestGlyphsNewLine(t *testing.T) {
	f, _ := newFont(t)
	defer f.Close()
	st := Settings{Scale: 30, PixelsPerUnit: 1}
	gs, err := f.Glyphs("A\nA", st)
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 2 {
		t.Fatalf("%d glyphs, want 2", len(gs))
	}
	lh := float32(f.face(30).Metrics().Height.Round())
	if dy := gs[0].World[1] - gs[1].World[1]; dy < lh-1 || dy > lh+1 {
		t.Errorf("line advance %v, want %v", dy, lh)
	}
	if gs[0].World[0] != gs[1].World[0] {
		t.Errorf("second line starts at x %v, want %v", gs[1].World[0], gs[0].World[0])
	}
}

func TestGlyphsWrap(t *testing.T) {
	f, _ := newFont(t)
	defer f.Close()
	st := Settings{Scale: 20, PixelsPerUnit: 1}
	r := f.Measure("mmmm", st)
	st.LineWidth = r.Dx()/2 + 1
	gs, err := f.Glyphs("mmmm", st)
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 4 {
		t.Fatalf("%d glyphs, want 4", len(gs))
	}
	if gs[3].World[1] >= gs[0].World[1] {
		t.Errorf("last glyph not wrapped: y %v, first y %v", gs[3].World[1], gs[0].World[1])
	}
	for i, g := range gs {
		if right := g.World[0] + g.World[2]/2; right > float32(st.LineWidth)+2 {
			t.Errorf("glyph %d ends at %v past line width %d", i, right, st.LineWidth)
		}
	}
}

func TestMeasure(t *testing.T) {
	f, _ := newFont(t)
	defer f.Close()
	a := f.Measure("A", Settings{})
	aa := f.Measure("AA", Settings{})
	if a.Empty() || aa.Dx() <= a.Dx() {
		t.Errorf("Measure: A %v, AA %v", a, aa)
	}
	two := f.Measure("A\nA", Settings{})
	if two.Dy() <= a.Dy() {
		t.Errorf("Measure: two lines %v, one line %v", two, a)
	}
}

func TestAtlasFlush(t *testing.T) {
	f, _ := newFont(t, AtlasSize(64))
	defer f.Close()
	st := Settings{Scale: 24}
	for _, r := range "ABCDEFGHIJKLMNOPQRSTUVWXYZ" {
		gs, err := f.Glyphs(string(r), st)
		if err != nil {
			t.Fatalf("%c: %v", r, err)
		}
		if len(gs) != 1 {
			t.Fatalf("%c: %d glyphs", r, len(gs))
		}
	}
	if f.flushes == 0 {
		t.Error("atlas never flushed")
	}
}

func TestAtlasFull(t *testing.T) {
	f, _ := newFont(t, AtlasSize(64))
	defer f.Close()
	if _, err := f.Glyphs("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", Settings{Scale: 24}); err != ErrAtlasFull {
		t.Errorf("long string: got %v, want ErrAtlasFull", err)
	}
	if _, err := f.Glyphs("W", Settings{Scale: 200}); err != ErrAtlasFull {
		t.Errorf("huge glyph: got %v, want ErrAtlasFull", err)
	}
	// the font is still usable
	if gs, err := f.Glyphs("ok", Settings{Scale: 12}); err != nil || len(gs) != 2 {
		t.Errorf("got %d glyphs, %v", len(gs), err)
	}
}

func TestClose(t *testing.T) {
	f, up := newFont(t)
	f.Glyphs("x", Settings{})
	f.Close()
	f.Close()
	if up.deleted != 1 {
		t.Errorf("atlas deleted %d times, want 1", up.deleted)
	}
}
