// Package loop provides the frame loops used to drive an application: a
// simple one-update-per-frame loop and a fixed-timestep loop.
//
package loop

import (
	"time"
)

// EventProcessor wraps the ProcessEvents method.
//
// It is up to the implementation to either poll events or wait for events.
// Applications using a wait-for-event model should however only use the Simple
// event loop.
//
type EventProcessor interface {
	ProcessEvents() (quit bool)
}

// FixedStepUpdater is driven by FixedStep. Update is called zero or more times
// per frame with a constant timestep. Draw receives the real frame time and
// the time accumulated since the last Update, to be used for interpolation.
//
type FixedStepUpdater interface {
	EventProcessor
	Update(timestep time.Duration)
	Draw(frameTime, partialTimestep time.Duration) error
}

// FrameStarter is the interface implemented by any App that wants the time
// stamp at the beginning of each loop iteration.
//
type FrameStarter interface {
	FrameStart(time.Time)
}

// SimpleUpdater is driven by Simple.
//
type SimpleUpdater interface {
	EventProcessor
	Update(frameTime time.Duration)
	Draw() error
}

// Simple provides a very simple event loop suited for applications that use a
// wait-for-event model.
//
type Simple struct {
	ticker *time.Ticker
	minFT  time.Duration
	clock  func() time.Time
}

// MinFrameTime sets the minimum frame time.
//
// If the t value is greater than 0, the frame rate will be clamped
// to time.Second/t.
//
func (l *Simple) MinFrameTime(t time.Duration) {
	if t == l.minFT {
		return
	}
	l.stopTicker()
	l.minFT = t
	if l.minFT > 0 {
		l.ticker = time.NewTicker(l.minFT)
	}
}

func (l *Simple) now() time.Time {
	if l.clock != nil {
		return l.clock()
	}
	if l.ticker != nil {
		return <-l.ticker.C
	}
	return time.Now()
}

func (l *Simple) stopTicker() {
	if l.ticker != nil {
		l.ticker.Stop()
		l.ticker = nil
	}
}

// Run runs the loop until a.ProcessEvents returns true or a.Draw fails. The
// Draw error is returned as is.
//
func (l *Simple) Run(a SimpleUpdater) error {
	defer l.stopTicker()
	fStart, _ := a.(FrameStarter)
	tPrev := l.now()
	for !a.ProcessEvents() {
		now := l.now()
		if fStart != nil {
			fStart.FrameStart(now)
		}
		a.Update(now.Sub(tPrev))
		tPrev = now
		if err := a.Draw(); err != nil {
			return err
		}
	}
	return nil
}

// FixedStep is a fixed-timestep loop. Frame times longer than MaxFT are
// clamped to MaxFT, which drops simulation time rather than spiraling.
//
type FixedStep struct {
	Simple
	MaxFT time.Duration // maximum frame time
	DT    time.Duration // timestep
}

// Default timings for FixedStep.
//
const (
	DefaultDT    time.Duration = time.Second / 240
	DefaultMaxFT time.Duration = time.Second / 4
)

// Run runs the loop until a.ProcessEvents returns true or a.Draw fails. The
// Draw error is returned as is.
//
func (l *FixedStep) Run(a FixedStepUpdater) error {
	defer l.stopTicker()
	if l.DT <= 0 {
		l.DT = DefaultDT
	}
	if l.MaxFT <= 0 {
		l.MaxFT = DefaultMaxFT
	}

	var (
		tPrev     = l.now()
		tAcc      time.Duration
		fStart, _ = a.(FrameStarter)
	)
	for !a.ProcessEvents() {
		now := l.now()
		ft := now.Sub(tPrev)
		if ft > l.MaxFT {
			ft = l.MaxFT
		}
		tAcc += ft
		tPrev = now
		if fStart != nil {
			fStart.FrameStart(now)
		}
		for dt := l.DT; tAcc >= dt; tAcc -= dt {
			a.Update(dt)
		}
		if err := a.Draw(ft, tAcc); err != nil {
			return err
		}
	}
	return nil
}
