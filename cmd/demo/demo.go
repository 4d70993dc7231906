package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/db47h/sprig"
	"github.com/db47h/sprig/app"
	"github.com/db47h/sprig/app/event"
	"github.com/db47h/sprig/asset"
	"github.com/db47h/sprig/debug"
	"github.com/db47h/sprig/gl"
	"github.com/db47h/sprig/text"
	"github.com/db47h/sprig/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"
)

const help = "arrows: pan, q/e: zoom, n/m: more/fewer sprites, space: pause, esc: quit"

type sprite struct {
	pos, vel    mgl32.Vec2
	angle, spin float32 // degrees, degrees per second
	scale       float32
	frame       texture.Sprite
}

// demo implements app.Interface.
//
type demo struct {
	loader *asset.Loader
	cfg    settings

	win     app.Window
	dev     *gl.Device
	mgr     *sprig.Manager
	assets  *asset.Manager
	sheet   *texture.SpriteSheet
	font    *text.Font
	cam     *sprig.Camera
	overlay debug.Overlay
	sprites []sprite
	rng     *rand.Rand
	last    time.Time
	paused  bool
}

func (d *demo) Init(w app.Window) error {
	log := sprig.Logger()
	log.Info("window created", "driver", app.DriverVersion())
	d.win = w
	d.rng = rand.New(rand.NewPCG(1, 2))

	dev, err := gl.NewDevice()
	if err != nil {
		return err
	}
	d.dev = dev

	d.assets = asset.NewManager(d.loader, dev, asset.WithDatabase(&d.cfg.Assets))
	if err := d.assets.Preload(context.Background(), asset.Shader("sprite-vs"), asset.Shader("sprite-fs")); err != nil {
		return err
	}
	vs, err := d.assets.Shader("sprite-vs")
	if err != nil {
		return err
	}
	fs, err := d.assets.Shader("sprite-fs")
	if err != nil {
		return err
	}
	d.mgr, err = sprig.NewManager(dev, w, sprig.Config{
		VertexShader:   vs,
		FragmentShader: fs,
		ClearColor:     d.cfg.clearColor(),
		BatchSize:      d.cfg.BatchSize,
	})
	if err != nil {
		return err
	}

	tex, err := texture.FromImage(dev, spriteSheetImage(),
		texture.Wrap(texture.ClampToEdge, texture.ClampToEdge),
		texture.Filter(texture.LinearMipmapLinear, texture.MagLinear))
	if err != nil {
		return errors.Wrap(err, "create sprite sheet")
	}
	if d.sheet, err = texture.NewSpriteSheet(tex, cellSize, cellSize); err != nil {
		tex.Close()
		return err
	}

	if d.font, err = text.Parse(dev, goregular.TTF); err != nil {
		return err
	}
	d.overlay = debug.Overlay{Font: d.font, Settings: text.Settings{Scale: 16}, Margin: 8}

	mode, _ := d.cfg.scaleMode()
	d.cam = sprig.NewOrtho(mgl32.Vec3{0, 0, 1}, d.cfg.Camera.Size, mode)
	d.spawn(d.cfg.Sprites)
	log.Info("demo ready", "sprites", len(d.sprites), "font", d.font.Name())
	return nil
}

func (d *demo) spawn(n int) {
	g := d.sheet.Grid()
	for i := 0; i < n; i++ {
		d.sprites = append(d.sprites, sprite{
			pos:   mgl32.Vec2{d.rng.Float32()*4 - 2, d.rng.Float32()*4 - 2},
			vel:   mgl32.Vec2{d.rng.Float32()*6 - 3, d.rng.Float32()*6 - 3},
			angle: d.rng.Float32() * 360,
			spin:  d.rng.Float32()*360 - 180,
			scale: 0.2 + d.rng.Float32()*0.4,
			frame: d.sheet.Sprite(d.rng.IntN(g.X), d.rng.IntN(g.Y)),
		})
	}
}

func (d *demo) Update(dt time.Duration, in *app.Input) {
	if in.Pressed(event.KeyEscape) {
		d.win.Close()
	}
	if in.Pressed(event.KeySpace) {
		d.paused = !d.paused
	}
	if in.Pressed(event.KeyN) {
		d.spawn(500)
	}
	if in.Pressed(event.KeyM) {
		d.sprites = d.sprites[:max(0, len(d.sprites)-500)]
	}

	s := float32(dt.Seconds())
	pan := d.cam.Size * s
	switch {
	case in.Down(event.KeyLeft):
		d.cam.Position[0] -= pan
	case in.Down(event.KeyRight):
		d.cam.Position[0] += pan
	}
	switch {
	case in.Down(event.KeyUp):
		d.cam.Position[1] += pan
	case in.Down(event.KeyDown):
		d.cam.Position[1] -= pan
	}
	switch {
	case in.Down(event.KeyQ):
		d.cam.Size *= 1 + s
	case in.Down(event.KeyE):
		d.cam.Size /= 1 + s
	}

	if d.paused {
		return
	}
	w, h := d.cam.Extent(d.mgr.WindowSize())
	hw, hh := w/2, h/2
	for i := range d.sprites {
		sp := &d.sprites[i]
		sp.pos = sp.pos.Add(sp.vel.Mul(s))
		sp.angle += sp.spin * s
		if sp.pos[0] < -hw || sp.pos[0] > hw {
			sp.vel[0] = -sp.vel[0]
			sp.pos[0] = mgl32.Clamp(sp.pos[0], -hw, hw)
		}
		if sp.pos[1] < -hh || sp.pos[1] > hh {
			sp.vel[1] = -sp.vel[1]
			sp.pos[1] = mgl32.Clamp(sp.pos[1], -hh, hh)
		}
	}
}

func (d *demo) Draw(_ app.Window, _ time.Duration) error {
	now := time.Now()
	if !d.last.IsZero() {
		d.overlay.Frame(now.Sub(d.last))
	}
	d.last = now

	for i := range d.sprites {
		sp := &d.sprites[i]
		d.mgr.DrawSprite(sp.frame, sprig.Transform{
			Position: sp.pos.Vec3(0),
			Scale:    mgl32.Vec3{sp.scale, sp.scale, 1},
			Rotation: mgl32.Vec3{0, 0, sp.angle},
		}, d.cam)
	}

	// help line anchored to the bottom-left corner of the camera
	w, h := d.cam.Extent(d.mgr.WindowSize())
	origin := d.cam.Position.Add(mgl32.Vec3{-w/2 + 0.1, -h/2 + 0.5, -d.cam.Position[2]})
	label := fmt.Sprintf("%s\n%d sprites", help, len(d.sprites))
	if err := d.mgr.DrawText(label, d.font, d.cfg.textSettings(), sprig.FromPosition(origin), d.cam); err != nil {
		return err
	}
	if err := d.overlay.Draw(d.mgr); err != nil {
		return err
	}
	return d.mgr.Render()
}

func (d *demo) Resize(_ app.Window, width, height int) {
	d.mgr.Resize(width, height)
}

func (d *demo) Terminate() error {
	var errs []error
	closeAll := []interface{ Close() error }{}
	if d.font != nil {
		closeAll = append(closeAll, d.font)
	}
	if d.sheet != nil {
		closeAll = append(closeAll, d.sheet.Texture())
	}
	if d.assets != nil {
		closeAll = append(closeAll, d.assets)
	}
	if d.mgr != nil {
		closeAll = append(closeAll, d.mgr)
	}
	if d.dev != nil {
		closeAll = append(closeAll, d.dev)
	}
	for _, c := range closeAll {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Wrapf(errs[0], "terminate (%d errors)", len(errs))
	}
	return nil
}
