package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"

	"gopkg.in/natefinch/lumberjack.v2"
)

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
}

// newLogger returns a text logger on stderr, or a JSON logger writing to a
// rotated file if filename is not empty.
//
func newLogger(level, filename string) (*slog.Logger, io.Closer) {
	lvl, err := parseLevel(level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var (
		h  slog.Handler
		cl io.Closer = io.NopCloser(nil)
	)
	if filename != "" {
		w := &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    32, // MB
			MaxBackups: 1,
		}
		if lvl == slog.LevelDebug {
			w.MaxSize = 256
		}
		h = slog.NewJSONHandler(w, opts)
		cl = w
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}

	l := slog.New(h)
	l.Info("system information",
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("GOOS", runtime.GOOS),
		slog.Int("NumCPUs", runtime.NumCPU()))
	if bi, ok := debug.ReadBuildInfo(); ok {
		var deps []any
		for _, dep := range bi.Deps {
			deps = append(deps, slog.String(dep.Path, dep.Version))
		}
		l.Debug("build",
			slog.String("go", bi.GoVersion),
			slog.String("path", bi.Path),
			slog.Group("dependencies", deps...))
	}
	return l, cl
}
