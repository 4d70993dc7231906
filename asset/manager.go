package asset

import (
	"context"
	"image"
	"path"
	"runtime"
	"sync"

	"github.com/db47h/sprig"
	"github.com/db47h/sprig/text"
	"github.com/db47h/sprig/texture"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Type designates the type of an asset.
//
type Type int

// Asset types.
//
const (
	TypeTexture Type = iota
	TypeFont
	TypeShader
	TypeFile
)

// Asset uniquely describes an asset.
//
type Asset struct {
	Type
	Name string
}

func (a Asset) String() string {
	switch a.Type {
	case TypeFont:
		return "font asset " + a.Name
	case TypeTexture:
		return "texture asset " + a.Name
	case TypeShader:
		return "shader asset " + a.Name
	case TypeFile:
		return "file asset " + a.Name
	}
	return "unknown asset " + a.Name
}

// Texture returns a texture asset descriptor.
//
func Texture(name string) Asset { return Asset{TypeTexture, name} }

// Font returns a font asset descriptor.
//
func Font(name string) Asset { return Asset{TypeFont, name} }

// Shader returns a shader source asset descriptor.
//
func Shader(name string) Asset { return Asset{TypeShader, name} }

// File returns a raw file asset descriptor.
//
func File(name string) Asset { return Asset{TypeFile, name} }

type config struct {
	dirs    [TypeFile + 1]string
	db      *Database
	workers int
}

// Option is implemented by option functions passed as arguments to NewManager.
//
type Option interface {
	set(*config)
}

type cfn func(*config)

func (f cfn) set(cfg *config) {
	f(cfg)
}

// TexturePath sets the directory textures are loaded from.
//
func TexturePath(dir string) Option {
	return cfn(func(cfg *config) { cfg.dirs[TypeTexture] = dir })
}

// FontPath sets the directory fonts are loaded from.
//
func FontPath(dir string) Option {
	return cfn(func(cfg *config) { cfg.dirs[TypeFont] = dir })
}

// ShaderPath sets the directory shader sources are loaded from.
//
func ShaderPath(dir string) Option {
	return cfn(func(cfg *config) { cfg.dirs[TypeShader] = dir })
}

// FilePath sets the directory raw files are loaded from.
//
func FilePath(dir string) Option {
	return cfn(func(cfg *config) { cfg.dirs[TypeFile] = dir })
}

// WithDatabase makes the manager resolve asset names through db. Names found
// in db are used as is, without the type directory prefix.
//
func WithDatabase(db *Database) Option {
	return cfn(func(cfg *config) { cfg.db = db })
}

// Workers sets the maximum number of assets decoded concurrently by Preload.
// The default is 2*runtime.NumCPU().
//
func Workers(n int) Option {
	return cfn(func(cfg *config) { cfg.workers = n })
}

// decoded forms kept in the cache until first use
type (
	texImage struct{ img image.Image }
	ttfFont  struct{ ttf *truetype.Font }
)

// A Manager manages asynchronous preloading and caching of textures, fonts,
// shader sources and raw files.
//
// Decoding can happen on any goroutine, but GPU resources are only created by
// Texture and Font, on the caller's goroutine, which must be the one owning
// the GL context. The Manager owns the textures and fonts it returns; they are
// released by Discard or Close.
//
type Manager struct {
	l       *Loader
	up      texture.Uploader
	cfg     config
	m       sync.Mutex
	cond    *sync.Cond
	assets  map[Asset]interface{}
	pending map[Asset]struct{}
}

// NewManager returns a new asset Manager loading files through l and creating
// GPU textures through up.
//
func NewManager(l *Loader, up texture.Uploader, options ...Option) *Manager {
	m := &Manager{
		l:       l,
		up:      up,
		cfg:     config{workers: 2 * runtime.NumCPU()},
		assets:  make(map[Asset]interface{}),
		pending: make(map[Asset]struct{}),
	}
	for _, o := range options {
		o.set(&m.cfg)
	}
	m.cond = sync.NewCond(&m.m)
	return m
}

func (m *Manager) assetPath(a Asset) (string, error) {
	if m.cfg.db != nil {
		return m.cfg.db.Path(a.Name)
	}
	if a.Type < 0 || a.Type > TypeFile {
		return "", errors.Errorf("invalid asset type %d", a.Type)
	}
	return path.Join(m.cfg.dirs[a.Type], a.Name), nil
}

// decode loads an asset from disk. It does not create GPU resources and is
// safe to call concurrently.
//
func (m *Manager) decode(a Asset) (interface{}, error) {
	name, err := m.assetPath(a)
	if err != nil {
		return nil, err
	}
	switch a.Type {
	case TypeTexture:
		img, err := m.l.Image(name)
		if err != nil {
			return nil, err
		}
		return &texImage{img}, nil
	case TypeFont:
		data, err := m.l.Bytes(name)
		if err != nil {
			return nil, err
		}
		ttf, err := truetype.Parse(data)
		if err != nil {
			return nil, &Error{Kind: KindFont, Path: name, Err: err}
		}
		return &ttfFont{ttf}, nil
	case TypeShader:
		return m.l.String(name)
	default:
		return m.l.Bytes(name)
	}
}

type loadState int

const (
	stateMissing loadState = iota
	statePending
	stateLoaded
)

func (m *Manager) lookup(a Asset) (data interface{}, state loadState) {
	if data, ok := m.assets[a]; ok {
		return data, stateLoaded
	}
	if _, ok := m.pending[a]; ok {
		return nil, statePending
	}
	return nil, stateMissing
}

// get returns an asset from cache or synchronously loads it if not in the
// cache. If the asset is being loaded from another goroutine, get waits for it.
// m.m must be held.
//
func (m *Manager) get(a Asset) (interface{}, error) {
	for {
		data, s := m.lookup(a)
		switch s {
		case stateMissing:
			m.pending[a] = struct{}{}
			m.m.Unlock()
			data, err := m.decode(a)
			m.m.Lock()
			delete(m.pending, a)
			m.cond.Broadcast()
			if err != nil {
				return nil, errors.Wrapf(err, "load %s", a)
			}
			m.assets[a] = data
			return data, nil
		case stateLoaded:
			return data, nil
		}
		m.cond.Wait()
	}
}

// Texture returns the named texture. The first call for a given name uploads
// the decoded image with the given parameters; later calls return the cached
// texture and ignore params.
//
func (m *Manager) Texture(name string, params ...texture.Parameter) (*texture.Texture, error) {
	a := Texture(name)
	m.m.Lock()
	defer m.m.Unlock()
	data, err := m.get(a)
	if err != nil {
		return nil, err
	}
	switch t := data.(type) {
	case *texture.Texture:
		return t, nil
	case *texImage:
		tex, err := texture.FromImage(m.up, t.img, params...)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", a)
		}
		m.assets[a] = tex
		sprig.Logger().Debug("texture uploaded", "name", name, "size", tex.Size())
		return tex, nil
	}
	return nil, errors.Errorf("%s is not a texture", a)
}

// Font returns the named font. The first call for a given name creates its
// glyph atlas with the given options.
//
func (m *Manager) Font(name string, opts ...text.Option) (*text.Font, error) {
	a := Font(name)
	m.m.Lock()
	defer m.m.Unlock()
	data, err := m.get(a)
	if err != nil {
		return nil, err
	}
	switch f := data.(type) {
	case *text.Font:
		return f, nil
	case *ttfFont:
		fnt, err := text.New(m.up, f.ttf, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", a)
		}
		m.assets[a] = fnt
		return fnt, nil
	}
	return nil, errors.Errorf("%s is not a font", a)
}

// Shader returns the named shader source.
//
func (m *Manager) Shader(name string) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	data, err := m.get(Shader(name))
	if err != nil {
		return "", err
	}
	return data.(string), nil
}

// File returns the contents of the named raw file. The returned slice must not
// be modified.
//
func (m *Manager) File(name string) ([]byte, error) {
	m.m.Lock()
	defer m.m.Unlock()
	data, err := m.get(File(name))
	if err != nil {
		return nil, err
	}
	return data.([]byte), nil
}

// Preload decodes the given assets concurrently, at most Workers at a time,
// and blocks until all of them are loaded or ctx is done. Already cached
// assets are skipped. GPU resources are created on first use by Texture and
// Font.
//
// All load errors are reported.
//
func (m *Manager) Preload(ctx context.Context, assets ...Asset) error {
	m.m.Lock()
	todo := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if _, s := m.lookup(a); s != stateMissing {
			continue
		}
		m.pending[a] = struct{}{}
		todo = append(todo, a)
	}
	m.m.Unlock()

	var (
		errs errorList
		mu   sync.Mutex
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.workers)
	for _, a := range todo {
		g.Go(func() error {
			var (
				data interface{}
				err  = ctx.Err()
			)
			if err == nil {
				data, err = m.decode(a)
			}
			m.m.Lock()
			if err == nil {
				m.assets[a] = data
			}
			delete(m.pending, a)
			m.cond.Broadcast()
			m.m.Unlock()
			if err != nil {
				mu.Lock()
				errs = append(errs, errors.Wrapf(err, "preload %s", a))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	sprig.Logger().Info("assets preloaded", "count", len(todo), "errors", len(errs))
	return errs.err()
}

// Discard removes the given asset from the cache and releases its GPU
// resources.
//
func (m *Manager) Discard(a Asset) error {
	m.m.Lock()
	for {
		if data, ok := m.assets[a]; ok {
			delete(m.assets, a)
			m.m.Unlock()
			if err := release(data); err != nil {
				return errors.Wrapf(err, "discard %s", a)
			}
			return nil
		}
		if _, ok := m.pending[a]; !ok {
			m.m.Unlock()
			return &Error{Kind: KindNotFound, Path: a.Name, Err: ErrNameNotFound}
		}
		m.cond.Wait()
	}
}

// Close discards all assets. Pending loads are not waited for.
//
func (m *Manager) Close() error {
	m.m.Lock()
	defer m.m.Unlock()
	var errs errorList
	for a, data := range m.assets {
		if err := release(data); err != nil {
			errs = append(errs, errors.Wrapf(err, "close %s", a))
		}
		delete(m.assets, a)
	}
	return errs.err()
}

func release(data interface{}) error {
	switch d := data.(type) {
	case *texture.Texture:
		return d.Close()
	case *text.Font:
		return d.Close()
	}
	return nil
}
