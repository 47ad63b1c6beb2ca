package layout

import (
	toml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/fwmaker/pkg/errors"
)

// tomlDocument wraps the list in a table since a TOML document cannot be an
// array. Each [[component]] table holds a single name-keyed sub-table.
type tomlDocument struct {
	Component []map[string]map[string]interface{} `toml:"component"`
}

type tomlOutBody struct {
	Path   string      `toml:"path"`
	Size   interface{} `toml:"size"`
	Offset interface{} `toml:"offset"`
}

type tomlOutDocument struct {
	Component []map[string]tomlOutBody `toml:"component"`
}

func marshalTOML(l Layout) ([]byte, error) {
	doc := tomlOutDocument{Component: make([]map[string]tomlOutBody, 0, len(l))}
	for _, e := range l {
		doc.Component = append(doc.Component, map[string]tomlOutBody{
			e.Name: {Path: e.Path, Size: e.Size.native(), Offset: e.Offset.native()},
		})
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigFormat, "cannot encode layout as TOML")
	}
	return data, nil
}

func unmarshalTOML(data []byte) (Layout, error) {
	var doc tomlDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigFormat, "invalid layout description")
	}

	l := make(Layout, 0, len(doc.Component))
	for i, item := range doc.Component {
		name, body, err := single(i, item)
		if err != nil {
			return nil, err
		}
		path, ok := body["path"].(string)
		if !ok {
			return nil, missingField(i, name, "path")
		}
		e := Entry{Name: name, Path: path}
		if e.Size, err = valueFrom("size", body["size"]); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigFormat, "item %d (%s)", i, name)
		}
		if e.Offset, err = valueFrom("offset", body["offset"]); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigFormat, "item %d (%s)", i, name)
		}
		l = append(l, e)
	}
	return l, nil
}
