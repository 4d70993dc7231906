//go:build sdl2

package app

import (
	"fmt"

	"github.com/db47h/sprig/app/event"
	"github.com/veandco/go-sdl2/sdl"
)

// DriverVersion returns the name and version of the windowing library.
//
func DriverVersion() string {
	var v sdl.Version
	sdl.GetVersion(&v)
	return fmt.Sprintf("SDL %d.%d.%d", v.Major, v.Minor, v.Patch)
}

var drv driver = new(sdlDriver)

type sdlDriver struct {
	w *window
}

func (d *sdlDriver) init(cfg *config) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return err
	}
	for _, a := range []struct {
		attr sdl.GLattr
		v    int
	}{
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
		{sdl.GL_CONTEXT_MAJOR_VERSION, 3},
		{sdl.GL_CONTEXT_MINOR_VERSION, 3},
		{sdl.GL_DOUBLEBUFFER, 1},
		{sdl.GL_MULTISAMPLEBUFFERS, 1},
		{sdl.GL_MULTISAMPLESAMPLES, 4},
	} {
		if err := sdl.GLSetAttribute(a.attr, a.v); err != nil {
			sdl.Quit()
			return err
		}
	}
	if err := d.createWindow(cfg); err != nil {
		sdl.Quit()
		return err
	}
	return nil
}

func (d *sdlDriver) createWindow(cfg *config) error {
	x, y := int32(sdl.WINDOWPOS_CENTERED), int32(sdl.WINDOWPOS_CENTERED)
	if cfg.x != posUndefined && cfg.y != posUndefined {
		x, y = int32(cfg.x), int32(cfg.y)
	}
	var flags uint32 = sdl.WINDOW_OPENGL | sdl.WINDOW_ALLOW_HIGHDPI
	if cfg.resizable {
		flags |= sdl.WINDOW_RESIZABLE
	}
	if cfg.fullScreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if cfg.hidden {
		flags |= sdl.WINDOW_HIDDEN
	}

	w, err := sdl.CreateWindow(cfg.title, x, y, int32(cfg.w), int32(cfg.h), flags)
	if err != nil {
		return err
	}
	ctx, err := w.GLCreateContext()
	if err != nil {
		_ = w.Destroy()
		return err
	}
	interval := 0
	if cfg.vsync {
		interval = 1
	}
	_ = sdl.GLSetSwapInterval(interval)

	id, _ := w.GetID()
	d.w = &window{sdl: w, ctx: ctx, id: id}
	return nil
}

func (d *sdlDriver) terminate() {
	if d.w != nil {
		sdl.GLDeleteContext(d.w.ctx)
		_ = d.w.sdl.Destroy()
		d.w = nil
	}
	sdl.Quit()
}

func (d *sdlDriver) window() Window {
	return d.w
}

func (d *sdlDriver) poll(fn func(event.Interface)) {
	if d.w.closeReq {
		d.w.closeReq = false
		fn(event.WindowClose{})
	}
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch e := e.(type) {
		case *sdl.QuitEvent:
			fn(event.Quit{})
		case *sdl.WindowEvent:
			if e.WindowID != d.w.id {
				break
			}
			switch e.Event {
			case sdl.WINDOWEVENT_CLOSE:
				fn(event.WindowClose{})
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				w, h := d.w.Size()
				fn(event.FrameBufferSize{Width: w, Height: h})
			}
		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				break
			}
			fn(event.Key{Code: sdlKey(int(e.Keysym.Scancode)), Down: e.State == sdl.PRESSED})
		case *sdl.MouseButtonEvent:
			if b, ok := sdlButtons[e.Button]; ok {
				fn(event.MouseButton{Button: b, Down: e.State == sdl.PRESSED})
			}
		case *sdl.MouseMotionEvent:
			fn(event.MouseMove{X: float64(e.X), Y: float64(e.Y)})
		}
	}
}

type window struct {
	sdl      *sdl.Window
	ctx      sdl.GLContext
	id       uint32
	closeReq bool
}

func (w *window) NativeHandle() interface{} {
	return w.sdl
}

func (w *window) Size() (width, height int) {
	ww, wh := w.sdl.GLGetDrawableSize()
	return int(ww), int(wh)
}

func (w *window) SwapBuffers() {
	w.sdl.GLSwap()
}

func (w *window) SetTitle(title string) {
	w.sdl.SetTitle(title)
}

func (w *window) Close() {
	w.closeReq = true
}

var sdlButtons = map[uint8]event.Button{
	sdl.BUTTON_LEFT:   event.ButtonLeft,
	sdl.BUTTON_RIGHT:  event.ButtonRight,
	sdl.BUTTON_MIDDLE: event.ButtonMiddle,
}

var sdlKeys = map[int]event.KeyCode{
	int(sdl.SCANCODE_SPACE):     event.KeySpace,
	int(sdl.SCANCODE_ESCAPE):    event.KeyEscape,
	int(sdl.SCANCODE_RETURN):    event.KeyEnter,
	int(sdl.SCANCODE_TAB):       event.KeyTab,
	int(sdl.SCANCODE_BACKSPACE): event.KeyBackspace,
	int(sdl.SCANCODE_LEFT):      event.KeyLeft,
	int(sdl.SCANCODE_RIGHT):     event.KeyRight,
	int(sdl.SCANCODE_UP):        event.KeyUp,
	int(sdl.SCANCODE_DOWN):      event.KeyDown,
	int(sdl.SCANCODE_LSHIFT):    event.KeyLeftShift,
	int(sdl.SCANCODE_RSHIFT):    event.KeyRightShift,
	int(sdl.SCANCODE_LCTRL):     event.KeyLeftControl,
	int(sdl.SCANCODE_RCTRL):     event.KeyRightControl,
	int(sdl.SCANCODE_LALT):      event.KeyLeftAlt,
	int(sdl.SCANCODE_RALT):      event.KeyRightAlt,
	int(sdl.SCANCODE_0):         event.Key0,
}

// sdlKey maps a scancode to a key code. SDL orders 1 to 9 before 0.
func sdlKey(sc int) event.KeyCode {
	switch {
	case sc >= int(sdl.SCANCODE_A) && sc <= int(sdl.SCANCODE_Z):
		return event.KeyA + event.KeyCode(sc-int(sdl.SCANCODE_A))
	case sc >= int(sdl.SCANCODE_1) && sc <= int(sdl.SCANCODE_9):
		return event.Key1 + event.KeyCode(sc-int(sdl.SCANCODE_1))
	case sc >= int(sdl.SCANCODE_F1) && sc <= int(sdl.SCANCODE_F12):
		return event.KeyF1 + event.KeyCode(sc-int(sdl.SCANCODE_F1))
	}
	return sdlKeys[sc]
}
