//go:build !sdl2

package app

import (
	"github.com/db47h/sprig/app/event"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// DriverVersion returns the name and version of the windowing library.
//
func DriverVersion() string {
	return "GLFW " + glfw.GetVersionString()
}

var drv driver = new(glfwDriver)

type glfwDriver struct {
	w       *window
	pending []event.Interface
}

func (d *glfwDriver) init(cfg *config) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)
	if err := d.createWindow(cfg); err != nil {
		glfw.Terminate()
		return err
	}
	return nil
}

func (d *glfwDriver) terminate() {
	if d.w != nil {
		d.w.glfw.Destroy()
		d.w = nil
	}
	glfw.Terminate()
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

func (d *glfwDriver) createWindow(cfg *config) error {
	var (
		monitor *glfw.Monitor
		width   = cfg.w
		height  = cfg.h
		setPos  = !cfg.fullScreen && cfg.x != posUndefined && cfg.y != posUndefined
	)
	if cfg.fullScreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()
		glfw.WindowHint(glfw.RedBits, mode.RedBits)
		glfw.WindowHint(glfw.GreenBits, mode.GreenBits)
		glfw.WindowHint(glfw.BlueBits, mode.BlueBits)
		glfw.WindowHint(glfw.RefreshRate, mode.RefreshRate)
		width = mode.Width
		height = mode.Height
	}
	glfw.WindowHint(glfw.Resizable, glfwBool(cfg.resizable))
	// show the window only once positioned
	glfw.WindowHint(glfw.Visible, glfwBool(!cfg.hidden && !setPos))
	w, err := glfw.CreateWindow(width, height, cfg.title, monitor, nil)
	if err != nil {
		return err
	}
	if setPos {
		w.SetPos(cfg.x, cfg.y)
		if !cfg.hidden {
			w.Show()
		}
	}

	w.MakeContextCurrent()
	if cfg.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	d.w = &window{glfw: w}
	w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		d.pending = append(d.pending, event.FrameBufferSize{Width: width, Height: height})
	})
	w.SetCloseCallback(func(*glfw.Window) {
		d.pending = append(d.pending, event.WindowClose{})
	})
	w.SetKeyCallback(func(_ *glfw.Window, k glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		d.pending = append(d.pending, event.Key{Code: glfwKey(k), Down: action == glfw.Press})
	})
	w.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		btn, ok := glfwButtons[b]
		if !ok {
			return
		}
		d.pending = append(d.pending, event.MouseButton{Button: btn, Down: action == glfw.Press})
	})
	w.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		d.pending = append(d.pending, event.MouseMove{X: x, Y: y})
	})
	return nil
}

func (d *glfwDriver) window() Window {
	return d.w
}

func (d *glfwDriver) poll(fn func(event.Interface)) {
	glfw.PollEvents()
	if d.w.closeReq {
		d.pending = append(d.pending, event.WindowClose{})
		d.w.closeReq = false
	}
	for _, e := range d.pending {
		fn(e)
	}
	d.pending = d.pending[:0]
}

type window struct {
	glfw     *glfw.Window
	closeReq bool
}

func (w *window) NativeHandle() interface{} {
	return w.glfw
}

func (w *window) Size() (width, height int) {
	return w.glfw.GetFramebufferSize()
}

func (w *window) SwapBuffers() {
	w.glfw.SwapBuffers()
}

func (w *window) SetTitle(title string) {
	w.glfw.SetTitle(title)
}

func (w *window) Close() {
	w.glfw.SetShouldClose(true)
	w.closeReq = true
}

var glfwButtons = map[glfw.MouseButton]event.Button{
	glfw.MouseButtonLeft:   event.ButtonLeft,
	glfw.MouseButtonRight:  event.ButtonRight,
	glfw.MouseButtonMiddle: event.ButtonMiddle,
}

var glfwKeys = map[glfw.Key]event.KeyCode{
	glfw.KeySpace:        event.KeySpace,
	glfw.KeyEscape:       event.KeyEscape,
	glfw.KeyEnter:        event.KeyEnter,
	glfw.KeyTab:          event.KeyTab,
	glfw.KeyBackspace:    event.KeyBackspace,
	glfw.KeyLeft:         event.KeyLeft,
	glfw.KeyRight:        event.KeyRight,
	glfw.KeyUp:           event.KeyUp,
	glfw.KeyDown:         event.KeyDown,
	glfw.KeyLeftShift:    event.KeyLeftShift,
	glfw.KeyRightShift:   event.KeyRightShift,
	glfw.KeyLeftControl:  event.KeyLeftControl,
	glfw.KeyRightControl: event.KeyRightControl,
	glfw.KeyLeftAlt:      event.KeyLeftAlt,
	glfw.KeyRightAlt:     event.KeyRightAlt,
}

func glfwKey(k glfw.Key) event.KeyCode {
	switch {
	case k >= glfw.KeyA && k <= glfw.KeyZ:
		return event.KeyA + event.KeyCode(k-glfw.KeyA)
	case k >= glfw.Key0 && k <= glfw.Key9:
		return event.Key0 + event.KeyCode(k-glfw.Key0)
	case k >= glfw.KeyF1 && k <= glfw.KeyF12:
		return event.KeyF1 + event.KeyCode(k-glfw.KeyF1)
	}
	return glfwKeys[k]
}
