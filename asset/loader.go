// Package asset loads and caches application resources: raw files, images,
// YAML objects, textures, fonts and shader sources.
//
// Paths are resolved against an explicit file system, usually an overlay of
// directories built with DirFS. Nothing in this package depends on the working
// directory or the location of the executable; use ExecutableDir to build
// paths relative to the executable.
//
package asset

import (
	"bytes"
	"image"
	_ "image/jpeg" // image decoders
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/db47h/ofs"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	"gopkg.in/yaml.v3"
)

// DirFS returns an ofs.Overlay of the given directories. All directories must
// exist.
//
func DirFS(dirs ...string) (ofs.FileSystem, error) {
	var ovl ofs.Overlay
	if err := ovl.Add(true, dirs...); err != nil {
		return nil, errors.Wrap(err, "asset overlay")
	}
	return &ovl, nil
}

// ExecutableDir returns the directory containing the running executable.
//
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "locate executable")
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", errors.Wrap(err, "locate executable")
	}
	return filepath.Dir(exe), nil
}

// A Loader reads resources from a file system. It does no caching and is safe
// for concurrent use.
//
type Loader struct {
	fs ofs.FileSystem
}

// NewLoader returns a Loader for fs.
//
func NewLoader(fs ofs.FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Bytes returns the contents of the named file.
//
func (l *Loader) Bytes(name string) ([]byte, error) {
	f, err := l.fs.Open(name)
	if err != nil {
		return nil, &Error{Kind: KindIO, Path: name, Err: err}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &Error{Kind: KindIO, Path: name, Err: err}
	}
	return data, nil
}

// String returns the contents of the named file as a string.
//
func (l *Loader) String(name string) (string, error) {
	data, err := l.Bytes(name)
	return string(data), err
}

// Image decodes the named PNG, JPEG or BMP image.
//
func (l *Loader) Image(name string) (image.Image, error) {
	data, err := l.Bytes(name)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &Error{Kind: KindImage, Path: name, Err: err}
	}
	return img, nil
}

// Object decodes the named YAML file into v.
//
func (l *Loader) Object(name string, v interface{}) error {
	data, err := l.Bytes(name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return &Error{Kind: KindObject, Path: name, Err: err}
	}
	return nil
}
