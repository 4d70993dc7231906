package sprig

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all records. Enabled returns false so that callers skip
// formatting altogether.
//
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger used by sprig and its sub-packages. By default,
// nothing is logged. Passing nil restores the default.
//
// Levels in use:
//
//	Debug: per-resource events (textures created and deleted, meshes)
//	Info:  lifecycle events (device ready, manager initialized)
//	Warn:  recoverable failures (dropped frames, asset errors)
//
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. It is safe for concurrent use.
//
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
