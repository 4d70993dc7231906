// Package app opens a window with an OpenGL 3.3 core context and runs the
// application's fixed-timestep loop.
//
// The default driver uses GLFW. Build with the sdl2 tag to use SDL2 instead.
//
package app

import (
	"runtime"
	"time"

	"github.com/db47h/sprig"
	"github.com/db47h/sprig/app/event"
	"github.com/db47h/sprig/loop"
	"github.com/pkg/errors"
)

func init() {
	runtime.LockOSThread()
}

// Window is the application window. Its Size is the size of the frame buffer
// in pixels.
//
type Window interface {
	sprig.Window
	NativeHandle() interface{}
	SetTitle(string)
	// Close requests the window to close. The application terminates at the
	// end of the current frame.
	Close()
}

// Interface is implemented by applications run by Main.
//
// Init is called once the window and its GL context are ready. Update is called
// with a fixed timestep, or once per frame with the frame time when the
// Timestep option is 0. Draw is called once per frame with the time elapsed
// since the last Update; an error returned by Draw terminates the application.
// Terminate is always called once Init has succeeded.
//
type Interface interface {
	Init(Window) error
	Update(dt time.Duration, in *Input)
	Draw(w Window, partial time.Duration) error
	Terminate() error
}

// ResizeHandler is implemented by applications that want to be notified of
// frame buffer size changes.
//
type ResizeHandler interface {
	Resize(w Window, width, height int)
}

// EventHandler is implemented by applications that want to see every event.
// HandleEvent is called before the event is processed by Main.
//
type EventHandler interface {
	HandleEvent(event.Interface)
}

type driver interface {
	init(*config) error
	terminate()
	window() Window
	// poll calls fn for every pending event.
	poll(fn func(event.Interface))
}

// Main opens the window and runs a until the window is closed or a.Draw fails.
//
func Main(a Interface, opts ...WindowOption) error {
	cfg := defaultConfig()
	for _, o := range opts {
		o.set(&cfg)
	}
	return run(drv, a, &cfg)
}

func run(d driver, a Interface, cfg *config) (err error) {
	if err := d.init(cfg); err != nil {
		return errors.Wrap(err, "init driver")
	}
	defer d.terminate()

	w := d.window()
	if err := a.Init(w); err != nil {
		return errors.Wrap(err, "init application")
	}
	defer func() {
		if terr := a.Terminate(); terr != nil && err == nil {
			err = errors.Wrap(terr, "terminate application")
		}
	}()

	sprig.Logger().Info("app started", "title", cfg.title, "timestep", cfg.timestep)
	r := runner{drv: d, a: a, w: w}
	r.onEvent, _ = a.(EventHandler)
	r.onResize, _ = a.(ResizeHandler)
	if cfg.timestep == 0 {
		var l loop.Simple
		l.MinFrameTime(cfg.minFrameTime)
		return l.Run(variableStep{&r})
	}
	l := loop.FixedStep{DT: cfg.timestep}
	l.MinFrameTime(cfg.minFrameTime)
	return l.Run(&r)
}

// runner adapts an Interface to loop.FixedStepUpdater.
//
type runner struct {
	drv      driver
	a        Interface
	w        Window
	in       Input
	quit     bool
	onEvent  EventHandler
	onResize ResizeHandler
}

func (r *runner) ProcessEvents() bool {
	r.drv.poll(r.dispatch)
	return r.quit
}

func (r *runner) dispatch(e event.Interface) {
	if r.onEvent != nil {
		r.onEvent.HandleEvent(e)
	}
	switch e := e.(type) {
	case event.Quit, event.WindowClose:
		r.quit = true
	case event.FrameBufferSize:
		if r.onResize != nil {
			r.onResize.Resize(r.w, e.Width, e.Height)
		}
	default:
		r.in.handle(e)
	}
}

func (r *runner) Update(dt time.Duration) {
	r.a.Update(dt, &r.in)
	r.in.commit()
}

func (r *runner) Draw(_, partial time.Duration) error {
	return r.a.Draw(r.w, partial)
}

// variableStep adapts a runner to loop.SimpleUpdater. Update gets the frame
// time and Draw a zero partial timestep.
//
type variableStep struct {
	*runner
}

func (v variableStep) Draw() error {
	return v.a.Draw(v.w, 0)
}

// WindowOption configures the window created by Main.
//
type WindowOption interface {
	set(*config)
}

type config struct {
	fullScreen   bool
	hidden       bool
	resizable    bool
	vsync        bool
	x, y, w, h   int
	title        string
	timestep     time.Duration
	minFrameTime time.Duration
}

const posUndefined = -1 << 31

func defaultConfig() config {
	return config{
		title:     "sprig",
		x:         posUndefined,
		y:         posUndefined,
		w:         800,
		h:         600,
		resizable: true,
		vsync:     true,
		timestep:  time.Second / 60,
	}
}

type winOption func(*config)

func (f winOption) set(cfg *config) {
	f(cfg)
}

// Title sets the window title.
//
func Title(title string) WindowOption {
	return winOption(func(cfg *config) {
		cfg.title = title
	})
}

// Pos sets the window position. The window is centered by default.
//
func Pos(x, y int) WindowOption {
	return winOption(func(cfg *config) {
		cfg.x, cfg.y = x, y
	})
}

// Size sets the window size in screen coordinates.
//
func Size(w, h int) WindowOption {
	return winOption(func(cfg *config) {
		cfg.w, cfg.h = w, h
	})
}

// FullScreen makes the window full screen on the primary monitor.
//
func FullScreen() WindowOption {
	return winOption(func(cfg *config) {
		cfg.fullScreen = true
	})
}

// Visible sets the initial visibility of the window.
//
func Visible(b bool) WindowOption {
	return winOption(func(cfg *config) {
		cfg.hidden = !b
	})
}

// Resizable sets whether the user can resize the window.
//
func Resizable(b bool) WindowOption {
	return winOption(func(cfg *config) {
		cfg.resizable = b
	})
}

// VSync enables or disables vertical synchronization.
//
func VSync(b bool) WindowOption {
	return winOption(func(cfg *config) {
		cfg.vsync = b
	})
}

// Timestep sets the fixed update timestep. The default is 1/60s.
//
// A timestep of 0 selects a variable step loop: Update is called once per
// frame with the frame time and Draw always gets a zero partial timestep.
//
func Timestep(dt time.Duration) WindowOption {
	return winOption(func(cfg *config) {
		cfg.timestep = max(dt, 0)
	})
}

// MaxFPS caps the frame rate. It is mostly useful with VSync(false).
//
func MaxFPS(fps int) WindowOption {
	return winOption(func(cfg *config) {
		if fps > 0 {
			cfg.minFrameTime = time.Second / time.Duration(fps)
		} else {
			cfg.minFrameTime = 0
		}
	})
}
