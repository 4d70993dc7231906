package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

type upload struct {
	w, h int
	pix  []byte
	opts Options
}

type update struct {
	id  uint32
	r   image.Rectangle
	pix []byte
}

// fakeUploader records texture operations instead of talking to a GPU.
type fakeUploader struct {
	next    uint32
	uploads []upload
	updates []update
	deleted []uint32
	err     error
}

func (u *fakeUploader) UploadTexture(width, height int, pix []byte, o *Options) (uint32, error) {
	if u.err != nil {
		return 0, u.err
	}
	u.next++
	u.uploads = append(u.uploads, upload{width, height, append([]byte(nil), pix...), *o})
	return u.next, nil
}

func (u *fakeUploader) UpdateTexture(id uint32, r image.Rectangle, pix []byte, o *Options) {
	u.updates = append(u.updates, update{id, r, append([]byte(nil), pix...)})
}

func (u *fakeUploader) DeleteTexture(id uint32) {
	u.deleted = append(u.deleted, id)
}

func TestFromBytesInvalidData(t *testing.T) {
	var up fakeUploader
	tex, err := FromBytes(&up, make([]byte, 10), 2, 2)
	if err == nil {
		t.Fatal("FromBytes succeeded with short data")
	}
	if tex != nil {
		t.Error("FromBytes returned a texture on error")
	}
	var e *InvalidDataError
	if !errors.As(err, &e) {
		t.Fatalf("error %v (%T) is not an *InvalidDataError", err, err)
	}
	if *e != (InvalidDataError{PixelSize: 4, Width: 2, Height: 2, Len: 10}) {
		t.Errorf("got %+v, want {4 2 2 10}", *e)
	}
	if len(up.uploads) != 0 {
		t.Errorf("%d GPU textures allocated, want 0", len(up.uploads))
	}
}

func TestInvalidSize(t *testing.T) {
	var up fakeUploader
	for _, tc := range []struct {
		w, h int
	}{
		{0, 2},
		{2, -1},
		{1 << 32, 1 << 30},
		{1 << 31, 1},
		{1<<31 - 1, 1<<31 - 1},
	} {
		tex, err := FromBytes(&up, nil, tc.w, tc.h)
		var e *InvalidDataError
		if tex != nil || !errors.As(err, &e) {
			t.Errorf("FromBytes %dx%d: got %v, %v", tc.w, tc.h, tex, err)
		}
		if tex, err = New(&up, tc.w, tc.h); tex != nil || err == nil {
			t.Errorf("New %dx%d: got %v, %v", tc.w, tc.h, tex, err)
		}
	}
	if len(up.uploads) != 0 {
		t.Errorf("%d GPU textures allocated, want 0", len(up.uploads))
	}
}

func TestFromBytesRGB(t *testing.T) {
	var up fakeUploader
	if _, err := FromBytes(&up, make([]byte, 16), 2, 2, Format(RGB)); err == nil {
		t.Error("RGB texture accepted RGBA sized data")
	}
	tex, err := FromBytes(&up, make([]byte, 12), 2, 2, Format(RGB))
	if err != nil {
		t.Fatal(err)
	}
	if tex.Options().Format != RGB {
		t.Errorf("format = %v, want RGB", tex.Options().Format)
	}
}

func TestFromBytesOptions(t *testing.T) {
	var up fakeUploader
	tex, err := FromBytes(&up, make([]byte, 4*3*2), 3, 2,
		Wrap(ClampToEdge, MirrorClampToEdge),
		Filter(LinearMipmapLinear, MagLinear))
	if err != nil {
		t.Fatal(err)
	}
	if tex.NativeID() != 1 || tex.Size() != image.Pt(3, 2) {
		t.Errorf("id %d size %v", tex.NativeID(), tex.Size())
	}
	if len(up.uploads) != 1 {
		t.Fatalf("%d uploads, want 1", len(up.uploads))
	}
	o := up.uploads[0].opts
	want := Options{Format: RGBA, WrapS: ClampToEdge, WrapT: MirrorClampToEdge, MinFilter: LinearMipmapLinear, MagFilter: MagLinear}
	if o != want {
		t.Errorf("options = %+v, want %+v", o, want)
	}
	if !o.MinFilter.Mipmap() || MinLinear.Mipmap() {
		t.Error("Mipmap() mismatch")
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.WrapS != Repeat || o.WrapT != Repeat || o.MinFilter != NearestMipmapNearest || o.MagFilter != MagNearest || o.Format != RGBA {
		t.Errorf("DefaultOptions() = %+v", o)
	}
}

func TestCloseOnce(t *testing.T) {
	var up fakeUploader
	tex, err := New(&up, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := tex.Close(); err != nil {
			t.Fatal(err)
		}
	}
	if len(up.deleted) != 1 || up.deleted[0] != 1 {
		t.Errorf("deleted = %v, want [1]", up.deleted)
	}
	if tex.NativeID() != 0 {
		t.Errorf("NativeID() = %d after Close, want 0", tex.NativeID())
	}
}

func TestUploadError(t *testing.T) {
	up := fakeUploader{err: errors.New("out of memory")}
	if _, err := New(&up, 4, 4); err == nil {
		t.Error("New succeeded on upload failure")
	}
	if _, err := New(&fakeUploader{}, 0, 4); err == nil {
		t.Error("New succeeded with zero width")
	}
}

func TestDecode(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	var up fakeUploader
	tex, err := Decode(&up, buf.Bytes(), Format(RGB))
	if err != nil {
		t.Fatal(err)
	}
	if tex.Size() != image.Pt(3, 2) || tex.Options().Format != RGBA {
		t.Errorf("size %v format %v", tex.Size(), tex.Options().Format)
	}
	pix := up.uploads[0].pix
	if got := pix[len(pix)-4:]; !bytes.Equal(got, []byte{10, 20, 30, 40}) {
		t.Errorf("last pixel = %v, want [10 20 30 40]", got)
	}
	if _, err := Decode(&up, []byte("not an image")); err == nil {
		t.Error("Decode succeeded on garbage")
	}
}

func TestSetSubImage(t *testing.T) {
	var up fakeUploader
	tex, _ := New(&up, 8, 8)
	src := image.NewUniform(color.NRGBA{R: 255, A: 128})
	tex.SetSubImage(image.Rect(2, 3, 4, 4), src, image.Point{})
	tex.SetSubImage(image.Rect(2, 2, 2, 4), src, image.Point{}) // empty
	if len(up.updates) != 1 {
		t.Fatalf("%d updates, want 1", len(up.updates))
	}
	u := up.updates[0]
	if u.id != tex.NativeID() || u.r != image.Rect(2, 3, 4, 4) || len(u.pix) != 2*1*4 {
		t.Errorf("update = %d %v len %d", u.id, u.r, len(u.pix))
	}
	if !bytes.Equal(u.pix[:4], []byte{255, 0, 0, 128}) {
		t.Errorf("pixel = %v", u.pix[:4])
	}
}

func TestRegions(t *testing.T) {
	var up fakeUploader
	tex, _ := New(&up, 64, 32)
	if r := tex.TexRegion(); r != (mgl32.Vec4{0, 0, 1, 1}) {
		t.Errorf("texture region = %v", r)
	}
	r := tex.Region(image.Rect(16, 8, 32, 16))
	if got, want := r.TexRegion(), (mgl32.Vec4{0.25, 0.25, 0.25, 0.25}); got != want {
		t.Errorf("region = %v, want %v", got, want)
	}
	sub := r.Region(image.Rect(8, 0, 16, 8))
	if sub.Rect() != image.Rect(24, 8, 32, 16) || sub.Texture() != tex {
		t.Errorf("sub-region rect = %v", sub.Rect())
	}

	sheet, err := NewSpriteSheet(tex, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	if g := sheet.Grid(); g != image.Pt(4, 2) {
		t.Errorf("Grid() = %v, want (4,2)", g)
	}
	sp := sheet.Sprite(3, 1)
	if got, want := sp.TexRegion(), (mgl32.Vec4{0.75, 0.5, 0.25, 0.5}); got != want {
		t.Errorf("sprite region = %v, want %v", got, want)
	}
	if sp.Texture() != tex {
		t.Error("sprite texture mismatch")
	}
}

func TestModeStrings(t *testing.T) {
	for _, tc := range []struct {
		got, want string
	}{
		{MirrorClampToEdge.String(), "MirrorClampToEdge"},
		{LinearMipmapNearest.String(), "LinearMipmapNearest"},
		{MagLinear.String(), "Linear"},
		{RGB.String(), "RGB"},
	} {
		if tc.got != tc.want {
			t.Errorf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestSetSubImageNRGBA(t *testing.T) {
	var up fakeUploader
	tex, _ := New(&up, 8, 8)
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(1, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 3})
	src.SetNRGBA(2, 2, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	tex.SetSubImage(image.Rect(0, 0, 2, 1), src, image.Pt(1, 2))
	if len(up.updates) != 1 {
		t.Fatalf("%d updates, want 1", len(up.updates))
	}
	want := []byte{200, 100, 50, 3, 1, 2, 3, 4}
	if got := up.updates[0].pix; !bytes.Equal(got, want) {
		t.Errorf("pix = %v, want %v", got, want)
	}
}

func TestSpriteSheetInvalidSize(t *testing.T) {
	var up fakeUploader
	tex, _ := New(&up, 64, 32)
	for _, sz := range []image.Point{{0, 16}, {16, 0}, {-1, 8}, {65, 16}, {16, 33}} {
		if sheet, err := NewSpriteSheet(tex, sz.X, sz.Y); sheet != nil || err == nil {
			t.Errorf("sprite size %v: got %v, %v", sz, sheet, err)
		}
	}
}
