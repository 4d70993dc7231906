// Package debug provides a frame timer and an on-screen statistics overlay.
//
package debug

import (
	"fmt"
	"time"

	"github.com/db47h/sprig"
	"github.com/db47h/sprig/text"
	"github.com/go-gl/mathgl/mgl32"
)

const samples = 32

// Timer computes a rolling average over the last 32 durations.
//
type Timer struct {
	times [samples]time.Duration
	index int
	n     int
}

// Add records a duration.
//
func (t *Timer) Add(dt time.Duration) {
	t.times[t.index] = dt
	t.index = (t.index + 1) & (samples - 1)
	if t.n < samples {
		t.n++
	}
}

// Average returns the average of the recorded durations, or 0 if none has been
// recorded.
//
func (t *Timer) Average() time.Duration {
	if t.n == 0 {
		return 0
	}
	var avg time.Duration
	for _, dt := range t.times[:t.n] {
		avg += dt
	}
	return avg / time.Duration(t.n)
}

// AveragePerSecond returns the number of average durations per second: the
// frame rate when timing frames.
//
func (t *Timer) AveragePerSecond() float64 {
	avg := t.Average()
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// Renderer is the subset of *sprig.Manager used by Overlay.
//
type Renderer interface {
	WindowSize() (width, height int)
	FrameStats() sprig.FrameStats
	DrawText(s string, f *text.Font, st text.Settings, t sprig.Transform, c *sprig.Camera) error
}

// Overlay draws frame statistics in the top-left corner of the window.
//
type Overlay struct {
	Font     *text.Font
	Settings text.Settings
	Margin   int // pixels
	Timer    Timer
}

// Frame records the duration of a frame.
//
func (o *Overlay) Frame(dt time.Duration) {
	o.Timer.Add(dt)
}

// Text returns the overlay text for the given stats.
//
func (o *Overlay) Text(st sprig.FrameStats) string {
	avg := o.Timer.Average()
	return fmt.Sprintf("%.0f fps (%.2f ms)\nbatches %d, draws %d, sprites %d",
		o.Timer.AveragePerSecond(), float64(avg)/float64(time.Millisecond),
		st.Batches, st.Draws, st.Instances)
}

// Draw queues the overlay text, using the stats of the previous frame. It uses
// its own pixel-aligned camera. Nothing is drawn while the window has a zero
// size.
//
func (o *Overlay) Draw(r Renderer) error {
	w, h := r.WindowSize()
	if w <= 0 || h <= 0 {
		return nil
	}
	ppu := o.Settings.PixelsPerUnit
	if ppu <= 0 {
		ppu = text.DefaultPixelsPerUnit
	}
	cam := sprig.NewOrtho(mgl32.Vec3{0, 0, 1}, float32(h)/ppu, sprig.ScaleHeight)
	pos := mgl32.Vec3{
		(float32(o.Margin) - float32(w)/2) / ppu,
		(float32(h)/2 - float32(o.Margin)) / ppu,
		0,
	}
	return r.DrawText(o.Text(r.FrameStats()), o.Font, o.Settings, sprig.FromPosition(pos), cam)
}
