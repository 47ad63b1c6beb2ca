package config

import (
	"github.com/arthur-debert/fwmaker/pkg/errors"
	"github.com/arthur-debert/fwmaker/pkg/layout"
	"github.com/arthur-debert/fwmaker/pkg/numparse"
)

// Config is the merged result of every configuration layer.
type Config struct {
	Components ComponentsConfig `koanf:"components"`
	Layout     LayoutConfig     `koanf:"layout"`
	Output     OutputConfig     `koanf:"output"`

	// Sources lists the files that were loaded, lowest precedence first.
	Sources []string `koanf:"-"`
}

// ComponentsConfig holds the component catalog.
type ComponentsConfig struct {
	Recognized []string `koanf:"recognized"`
	Essential  []string `koanf:"essential"`
}

// LayoutConfig holds layout description settings.
type LayoutConfig struct {
	Path       string `koanf:"path"`
	RegionSize string `koanf:"region_size"`
}

// OutputConfig holds image output settings.
type OutputConfig struct {
	Path string `koanf:"path"`
}

// Catalog returns the configured component catalog.
func (c *Config) Catalog() layout.Catalog {
	return layout.Catalog{
		Recognized: append([]string(nil), c.Components.Recognized...),
		Essential:  append([]string(nil), c.Components.Essential...),
	}
}

// RegionSize parses layout.region_size.
func (c *Config) RegionSize() (uint64, error) {
	size, err := numparse.Parse(c.Layout.RegionSize)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrConfigValid, "invalid layout.region_size %q", c.Layout.RegionSize).
			WithDetail("key", "layout.region_size")
	}
	if size == 0 {
		return 0, errors.New(errors.ErrConfigValid, "layout.region_size must be greater than zero").
			WithDetail("key", "layout.region_size")
	}
	return size, nil
}

// Validate checks the merged settings for consistency.
func (c *Config) Validate() error {
	if err := c.Catalog().Validate(); err != nil {
		return err
	}
	if _, err := c.RegionSize(); err != nil {
		return err
	}
	if c.Layout.Path == "" {
		return errors.New(errors.ErrConfigValid, "layout.path must not be empty").
			WithDetail("key", "layout.path")
	}
	if c.Output.Path == "" {
		return errors.New(errors.ErrConfigValid, "output.path must not be empty").
			WithDetail("key", "output.path")
	}
	return nil
}
