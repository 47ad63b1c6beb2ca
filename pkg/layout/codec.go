package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/arthur-debert/fwmaker/pkg/errors"
)

// Format identifies a description encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatXML  Format = "xml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".xml":
		return FormatXML, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "cannot tell layout format of %q (use .json, .yaml, .toml or .xml)", path).
			WithDetail("path", path)
	}
}

// Marshal encodes a layout.
func Marshal(l Layout, f Format) ([]byte, error) {
	if l == nil {
		l = Layout{}
	}
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(l, "", "    ")
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigFormat, "cannot encode layout as JSON")
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return marshalYAML(l)
	case FormatTOML:
		return marshalTOML(l)
	case FormatXML:
		return marshalXML(l)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown layout format %q", f)
	}
}

// Unmarshal decodes a layout. Malformed input is an ErrConfigFormat error.
func Unmarshal(data []byte, f Format) (Layout, error) {
	switch f {
	case FormatJSON:
		var l Layout
		if err := json.Unmarshal(data, &l); err != nil {
			if errors.IsErrorCode(err, errors.ErrConfigFormat) {
				return nil, err
			}
			return nil, errors.Wrap(err, errors.ErrConfigFormat, "invalid layout description")
		}
		return l, nil
	case FormatYAML:
		return unmarshalYAML(data)
	case FormatTOML:
		return unmarshalTOML(data)
	case FormatXML:
		return unmarshalXML(data)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown layout format %q", f)
	}
}

// Load reads a description file, choosing the codec by extension.
func Load(fs afero.Fs, path string) (Layout, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "layout file %s does not exist", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read layout file %s", path).
			WithDetail("path", path)
	}

	l, err := Unmarshal(data, f)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigFormat, "cannot load layout file %s", path).
			WithDetail("path", path)
	}
	return l, nil
}

// Save writes a description file, choosing the codec by extension. Missing
// parent directories are created.
func Save(fs afero.Fs, path string, l Layout) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := Marshal(l, f)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrConfigLoad, "cannot create directory %s", dir)
		}
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot write layout file %s", path).
			WithDetail("path", path)
	}
	return nil
}
