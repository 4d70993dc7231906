// Package event defines the platform independent input and window events
// produced by the app drivers.
//
package event

// Interface is implemented by all event types.
//
type Interface interface {
	isEvent()
}

// Quit is sent when the application is requested to terminate.
//
type Quit struct{}

// WindowClose is sent when the user closes the main window.
//
type WindowClose struct{}

// FrameBufferSize is sent when the size of the window's frame buffer changes.
//
type FrameBufferSize struct {
	Width, Height int
}

// Key is sent when a keyboard key changes state.
//
type Key struct {
	Code KeyCode
	Down bool
}

// MouseButton is sent when a mouse button changes state.
//
type MouseButton struct {
	Button Button
	Down   bool
}

// MouseMove is sent when the cursor moves. Coordinates are in window pixels
// from the top-left corner.
//
type MouseMove struct {
	X, Y float64
}

func (Quit) isEvent() {}
func (WindowClose) isEvent() {}
func (FrameBufferSize) isEvent() {}
func (Key) isEvent() {}
func (MouseButton) isEvent() {}
func (MouseMove) isEvent() {}

// KeyCode identifies a keyboard key independently of the driver.
//
type KeyCode int

// Key codes.
//
const (
	KeyUnknown KeyCode = iota
	KeySpace
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyLeftShift
	KeyRightShift
	KeyLeftControl
	KeyRightControl
	KeyLeftAlt
	KeyRightAlt
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyCount
)

// Button identifies a mouse button.
//
type Button int

// Mouse buttons.
//
const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
	ButtonCount
)
