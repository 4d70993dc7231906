package main

import (
	"image/color"

	"github.com/db47h/sprig"
	"github.com/db47h/sprig/asset"
	"github.com/db47h/sprig/text"
	"github.com/pkg/errors"
)

// settings is the contents of settings.yaml.
//
type settings struct {
	Window struct {
		Title      string `yaml:"title"`
		Width      int    `yaml:"width"`
		Height     int    `yaml:"height"`
		VSync      bool   `yaml:"vsync"`
		FullScreen bool   `yaml:"fullscreen"`
	} `yaml:"window"`
	Camera struct {
		Size float32 `yaml:"size"`
		Mode string  `yaml:"mode"`
	} `yaml:"camera"`
	ClearColor [4]uint8 `yaml:"clear_color"`
	Sprites    int      `yaml:"sprites"`
	BatchSize  int      `yaml:"batch_size"`
	Text       struct {
		Scale float32  `yaml:"scale"`
		Color [4]uint8 `yaml:"color"`
	} `yaml:"text"`
	Assets asset.Database `yaml:"assets"`
}

func defaultSettings() settings {
	var s settings
	s.Window.Title = "sprig demo"
	s.Window.Width, s.Window.Height = 1280, 720
	s.Window.VSync = true
	s.Camera.Size = 10
	s.Camera.Mode = "min"
	s.ClearColor = [4]uint8{25, 25, 50, 255}
	s.Sprites = 1000
	s.Text.Scale = 24
	s.Text.Color = [4]uint8{255, 255, 255, 255}
	return s
}

func loadSettings(l *asset.Loader, name string) (settings, error) {
	s := defaultSettings()
	if err := l.Object(name, &s); err != nil {
		return s, err
	}
	if _, err := s.scaleMode(); err != nil {
		return s, err
	}
	return s, nil
}

func (s *settings) scaleMode() (sprig.ScaleMode, error) {
	switch s.Camera.Mode {
	case "width":
		return sprig.ScaleWidth, nil
	case "height":
		return sprig.ScaleHeight, nil
	case "min", "":
		return sprig.ScaleMin, nil
	case "max":
		return sprig.ScaleMax, nil
	}
	return sprig.ScaleMin, errors.Errorf("invalid camera mode %q", s.Camera.Mode)
}

func (s *settings) clearColor() color.Color {
	c := s.ClearColor
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

func (s *settings) textSettings() text.Settings {
	c := s.Text.Color
	return text.Settings{
		Scale: s.Text.Scale,
		Color: color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]},
	}
}
