// Command demo draws a few thousand bouncing sprites and some text with sprig.
//
// Assets are loaded from the directory given by -assets, or from an assets
// directory next to the executable, or from cmd/demo/assets when run from the
// repository root.
//
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/db47h/sprig"
	"github.com/db47h/sprig/app"
	"github.com/db47h/sprig/asset"
)

var (
	assetDir = flag.String("assets", "", "asset `directory`")
	logFile  = flag.String("logfile", "", "write logs to `file` instead of stderr")
	logLevel = flag.String("loglevel", "info", "log level: debug, info, warn or error")
	nSprites = flag.Int("n", 0, "number of sprites, overrides settings.yaml")
	batchSz  = flag.Int("batch", 0, "maximum sprites per batch, overrides settings.yaml")
)

func main() {
	flag.Parse()
	l, cl := newLogger(*logLevel, *logFile)
	sprig.SetLogger(l)
	err := run()
	if err != nil {
		l.Error("demo failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
	}
	cl.Close()
	if err != nil {
		os.Exit(1)
	}
}

func findAssets() string {
	if *assetDir != "" {
		return *assetDir
	}
	if exe, err := asset.ExecutableDir(); err == nil {
		dir := filepath.Join(exe, "assets")
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir
		}
	}
	return filepath.Join("cmd", "demo", "assets")
}

func run() error {
	dir := findAssets()
	fs, err := asset.DirFS(dir)
	if err != nil {
		return err
	}
	loader := asset.NewLoader(fs)
	cfg, err := loadSettings(loader, "settings.yaml")
	if err != nil {
		return err
	}
	if *nSprites > 0 {
		cfg.Sprites = *nSprites
	}
	if *batchSz > 0 {
		cfg.BatchSize = *batchSz
	}
	sprig.Logger().Info("settings loaded", "dir", dir, "sprites", cfg.Sprites, "assets", cfg.Assets.Len())

	opts := []app.WindowOption{
		app.Title(cfg.Window.Title),
		app.Size(cfg.Window.Width, cfg.Window.Height),
		app.VSync(cfg.Window.VSync),
	}
	if cfg.Window.FullScreen {
		opts = append(opts, app.FullScreen())
	}
	return app.Main(&demo{loader: loader, cfg: cfg}, opts...)
}
