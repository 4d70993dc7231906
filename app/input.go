package app

import (
	"github.com/db47h/sprig/app/event"
)

// Input is a snapshot of the keyboard and mouse state.
//
// Pressed and Released report state changes since the previous call to
// Update: an edge is visible to exactly one Update, even when several updates
// run in the same frame or none at all.
//
type Input struct {
	keys, prevKeys [event.KeyCount]bool
	btns, prevBtns [event.ButtonCount]bool
	mx, my         float64
}

func validKey(k event.KeyCode) bool { return k > event.KeyUnknown && k < event.KeyCount }
func validButton(b event.Button) bool { return b >= 0 && b < event.ButtonCount }

// Down reports whether the key is currently held down.
//
func (in *Input) Down(k event.KeyCode) bool {
	return validKey(k) && in.keys[k]
}

// Up reports whether the key is currently up.
//
func (in *Input) Up(k event.KeyCode) bool {
	return !in.Down(k)
}

// Pressed reports whether the key went from up to down.
//
func (in *Input) Pressed(k event.KeyCode) bool {
	return validKey(k) && in.keys[k] && !in.prevKeys[k]
}

// Released reports whether the key went from down to up.
//
func (in *Input) Released(k event.KeyCode) bool {
	return validKey(k) && !in.keys[k] && in.prevKeys[k]
}

// ButtonDown reports whether the mouse button is held down.
//
func (in *Input) ButtonDown(b event.Button) bool {
	return validButton(b) && in.btns[b]
}

// ButtonPressed reports whether the mouse button went from up to down.
//
func (in *Input) ButtonPressed(b event.Button) bool {
	return validButton(b) && in.btns[b] && !in.prevBtns[b]
}

// ButtonReleased reports whether the mouse button went from down to up.
//
func (in *Input) ButtonReleased(b event.Button) bool {
	return validButton(b) && !in.btns[b] && in.prevBtns[b]
}

// Mouse returns the cursor position in window pixels.
//
func (in *Input) Mouse() (x, y float64) {
	return in.mx, in.my
}

// handle updates the state from an input event. It ignores other events.
func (in *Input) handle(e event.Interface) {
	switch e := e.(type) {
	case event.Key:
		if validKey(e.Code) {
			in.keys[e.Code] = e.Down
		}
	case event.MouseButton:
		if validButton(e.Button) {
			in.btns[e.Button] = e.Down
		}
	case event.MouseMove:
		in.mx, in.my = e.X, e.Y
	}
}

// commit makes the current state the reference for edge detection.
func (in *Input) commit() {
	in.prevKeys = in.keys
	in.prevBtns = in.btns
}
