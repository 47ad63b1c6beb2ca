package layout

import (
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/fwmaker/pkg/errors"
)

type yamlBody struct {
	Path   *string     `yaml:"path"`
	Size   interface{} `yaml:"size"`
	Offset interface{} `yaml:"offset"`
}

type yamlOutBody struct {
	Path   string `yaml:"path"`
	Size   Value  `yaml:"size"`
	Offset Value  `yaml:"offset"`
}

func marshalYAML(l Layout) ([]byte, error) {
	items := make([]map[string]yamlOutBody, 0, len(l))
	for _, e := range l {
		items = append(items, map[string]yamlOutBody{
			e.Name: {Path: e.Path, Size: e.Size, Offset: e.Offset},
		})
	}
	data, err := yaml.Marshal(items)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigFormat, "cannot encode layout as YAML")
	}
	return data, nil
}

func unmarshalYAML(data []byte) (Layout, error) {
	var items []map[string]yamlBody
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigFormat, "invalid layout description")
	}

	l := make(Layout, 0, len(items))
	for i, item := range items {
		name, body, err := single(i, item)
		if err != nil {
			return nil, err
		}
		if body.Path == nil {
			return nil, missingField(i, name, "path")
		}
		e := Entry{Name: name, Path: *body.Path}
		if e.Size, err = valueFrom("size", body.Size); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigFormat, "item %d (%s)", i, name)
		}
		if e.Offset, err = valueFrom("offset", body.Offset); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigFormat, "item %d (%s)", i, name)
		}
		l = append(l, e)
	}
	return l, nil
}
