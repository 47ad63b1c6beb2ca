package layout

import (
	"encoding/json"

	"github.com/arthur-debert/fwmaker/pkg/errors"
)

// Entry describes one component: its name, the file holding its bytes and
// the region [Offset, Offset+Size) reserved for it in the image.
type Entry struct {
	Name   string
	Path   string
	Size   Value
	Offset Value
}

// Layout is an ordered list of entries. The order is both the validation
// order and the write order.
type Layout []Entry

// NewEntry builds an entry with hex literals for size and offset.
func NewEntry(name, path string, size, offset uint64) Entry {
	return Entry{
		Name:   name,
		Path:   path,
		Size:   Hex(size),
		Offset: Hex(offset),
	}
}

// Names returns the entry names in listed order.
func (l Layout) Names() []string {
	names := make([]string, 0, len(l))
	for _, e := range l {
		names = append(names, e.Name)
	}
	return names
}

// entryBody is the per-component object of the JSON form.
type entryBody struct {
	Path   *string `json:"path"`
	Size   *Value  `json:"size"`
	Offset *Value  `json:"offset"`
}

// MarshalJSON writes the layout as an array of single-key objects.
func (l Layout) MarshalJSON() ([]byte, error) {
	items := make([]map[string]entryBody, 0, len(l))
	for i := range l {
		e := l[i]
		items = append(items, map[string]entryBody{
			e.Name: {Path: &e.Path, Size: &e.Size, Offset: &e.Offset},
		})
	}
	return json.Marshal(items)
}

// UnmarshalJSON reads an array of single-key objects.
func (l *Layout) UnmarshalJSON(data []byte) error {
	var items []map[string]entryBody
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, errors.ErrConfigFormat, "invalid layout description")
	}

	out := make(Layout, 0, len(items))
	for i, item := range items {
		name, body, err := single(i, item)
		if err != nil {
			return err
		}
		if body.Path == nil {
			return missingField(i, name, "path")
		}
		if body.Size == nil {
			return missingField(i, name, "size")
		}
		if body.Offset == nil {
			return missingField(i, name, "offset")
		}
		out = append(out, Entry{Name: name, Path: *body.Path, Size: *body.Size, Offset: *body.Offset})
	}

	*l = out
	return nil
}

// single extracts the only key of a list item.
func single[T any](index int, item map[string]T) (string, T, error) {
	var zero T
	if len(item) != 1 {
		return "", zero, errors.Newf(errors.ErrConfigFormat, "item %d: expected exactly one component name, got %d", index, len(item)).
			WithDetail("index", index)
	}
	for name, body := range item {
		return name, body, nil
	}
	return "", zero, nil
}

func missingField(index int, name, field string) error {
	return errors.Newf(errors.ErrConfigFormat, "item %d (%s): missing %q", index, name, field).
		WithDetail("index", index).
		WithDetail("component", name)
}
