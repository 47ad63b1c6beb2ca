package engine

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/fwmaker/pkg/layout"
	"github.com/arthur-debert/fwmaker/pkg/logging"
)

// Engine validates layouts and composes images.
type Engine struct {
	fs         afero.Fs
	catalog    layout.Catalog
	regionSize uint64
	baseDir    string
	logger     zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithFs sets the filesystem component files and images live on.
func WithFs(fs afero.Fs) Option {
	return func(e *Engine) { e.fs = fs }
}

// WithCatalog sets the recognized and essential component names.
func WithCatalog(c layout.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithRegionSize sets the region size used by GenerateDefaultLayout.
func WithRegionSize(size uint64) Option {
	return func(e *Engine) { e.regionSize = size }
}

// WithBaseDir resolves relative component paths against dir.
func WithBaseDir(dir string) Option {
	return func(e *Engine) { e.baseDir = dir }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an engine working on the OS filesystem with the default
// catalog unless options say otherwise.
func New(opts ...Option) *Engine {
	e := &Engine{
		fs:         afero.NewOsFs(),
		catalog:    layout.DefaultCatalog(),
		regionSize: layout.DefaultRegionSize,
		logger:     logging.GetLogger("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the engine's component catalog.
func (e *Engine) Catalog() layout.Catalog {
	return e.catalog
}

// GenerateDefaultLayout gives each name a region of the configured size in
// listed order, starting at offset 0, with source file "<name>.bin".
func (e *Engine) GenerateDefaultLayout(names []string) (layout.Layout, error) {
	l, err := layout.Generate(names, e.catalog, e.regionSize)
	if err != nil {
		return nil, err
	}
	e.logger.Debug().Strs("components", names).Uint64("regionSize", e.regionSize).Msg("Generated default layout")
	return l, nil
}

func (e *Engine) resolvePath(path string) string {
	if e.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.baseDir, path)
}
