package engine

import (
	"math"
	"os"

	"github.com/arthur-debert/fwmaker/pkg/errors"
	"github.com/arthur-debert/fwmaker/pkg/layout"
	"github.com/arthur-debert/fwmaker/pkg/numparse"
)

// MsgInvalidSettings is reported for an empty or malformed layout.
const MsgInvalidSettings = "Invalid settings!"

// Region is a checked layout entry with its size and offset resolved.
type Region struct {
	Name     string
	Path     string
	Offset   uint64
	Size     uint64
	FileSize int64
}

// End returns the first byte past the reserved region.
func (r Region) End() uint64 {
	return r.Offset + r.Size
}

// Plan is the result of a successful Check, in layout order.
type Plan []Region

// End returns the furthest reserved byte of any region.
func (p Plan) End() uint64 {
	var end uint64
	for _, r := range p {
		if r.End() > end {
			end = r.End()
		}
	}
	return end
}

// ImageSize returns the length of the image Compose writes for the plan.
func (p Plan) ImageSize() uint64 {
	var size uint64
	for _, r := range p {
		if end := r.Offset + uint64(r.FileSize); end > size {
			size = end
		}
	}
	return size
}

// Check validates a layout and resolves it into a Plan. Failures are
// errors.ErrValidation errors carrying the component and the offending
// values in their details.
func (e *Engine) Check(l layout.Layout) (Plan, error) {
	if len(l) == 0 {
		return nil, errors.New(errors.ErrValidation, MsgInvalidSettings)
	}

	present := make(map[string]bool, len(l))
	for i, entry := range l {
		if entry.Name == "" {
			return nil, errors.New(errors.ErrValidation, MsgInvalidSettings).
				WithDetail("index", i)
		}
		present[entry.Name] = true
	}

	for _, name := range e.catalog.Essential {
		if !present[name] {
			return nil, errors.Newf(errors.ErrValidation, "essential component %q is missing", name).
				WithDetail("component", name)
		}
	}

	plan := make(Plan, 0, len(l))
	seen := make(map[string]bool, len(l))
	var cursor uint64
	for _, entry := range l {
		region, err := e.checkEntry(entry, cursor, seen)
		if err != nil {
			e.logger.Debug().Err(err).Str("name", entry.Name).Msg("Region rejected")
			return nil, err
		}

		e.logger.Info().
			Str("name", region.Name).
			Str("offset", numparse.FormatHex(region.Offset)).
			Str("size", numparse.FormatHex(region.Size)).
			Int64("fileSize", region.FileSize).
			Msg("Region accepted")

		cursor = region.End()
		seen[region.Name] = true
		plan = append(plan, region)
	}

	return plan, nil
}

// Validate reports whether a layout passes Check, with a message suitable
// for showing to a user when it does not.
func (e *Engine) Validate(l layout.Layout) (bool, string) {
	if _, err := e.Check(l); err != nil {
		return false, errors.UserMessage(err)
	}
	return true, ""
}

func (e *Engine) checkEntry(entry layout.Entry, cursor uint64, seen map[string]bool) (Region, error) {
	name := entry.Name

	if !e.catalog.IsRecognized(name) {
		return Region{}, errors.Newf(errors.ErrValidation, "[%s] unknown component", name).
			WithDetail("component", name)
	}
	if seen[name] {
		return Region{}, errors.Newf(errors.ErrValidation, "[%s] listed more than once", name).
			WithDetail("component", name)
	}

	size, err := entry.Size.Resolve()
	if err != nil {
		return Region{}, errors.Wrapf(err, errors.ErrValidation, "[%s] invalid size %q", name, entry.Size.String()).
			WithDetail("component", name)
	}
	offset, err := entry.Offset.Resolve()
	if err != nil {
		return Region{}, errors.Wrapf(err, errors.ErrValidation, "[%s] invalid offset %q", name, entry.Offset.String()).
			WithDetail("component", name)
	}

	if offset < cursor {
		return Region{}, errors.Newf(errors.ErrValidation, "[%s] offset: %s invalid, current offset: %s", name, numparse.FormatHex(offset), numparse.FormatHex(cursor)).
			WithDetail("component", name).
			WithDetail("offset", offset).
			WithDetail("cursor", cursor)
	}
	if size > math.MaxUint64-offset {
		return Region{}, errors.Newf(errors.ErrValidation, "[%s] region %s+%s overflows", name, numparse.FormatHex(offset), numparse.FormatHex(size)).
			WithDetail("component", name).
			WithDetail("offset", offset).
			WithDetail("size", size)
	}

	path := e.resolvePath(entry.Path)
	fileSize, err := e.sourceSize(name, path)
	if err != nil {
		return Region{}, err
	}

	if uint64(fileSize) > size {
		return Region{}, errors.Newf(errors.ErrValidation, "[%s]: %s is too large, actual size: %s, reserved size: %s", name, path, numparse.FormatHex(uint64(fileSize)), numparse.FormatHex(size)).
			WithDetail("component", name).
			WithDetail("path", path).
			WithDetail("actual", uint64(fileSize)).
			WithDetail("reserved", size)
	}

	return Region{Name: name, Path: path, Offset: offset, Size: size, FileSize: fileSize}, nil
}

// sourceSize checks that path is a readable regular file and returns its
// length.
func (e *Engine) sourceSize(name, path string) (int64, error) {
	if path == "" {
		return 0, errors.Newf(errors.ErrValidation, "[%s]: no source file given", name).
			WithDetail("component", name)
	}

	info, err := e.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.Newf(errors.ErrValidation, "[%s]: %s does not exist", name, path).
				WithDetail("component", name).
				WithDetail("path", path)
		}
		return 0, errors.Wrapf(err, errors.ErrValidation, "[%s]: cannot stat %s", name, path).
			WithDetail("component", name).
			WithDetail("path", path)
	}
	if !info.Mode().IsRegular() {
		return 0, errors.Newf(errors.ErrValidation, "[%s]: %s is not a regular file", name, path).
			WithDetail("component", name).
			WithDetail("path", path)
	}

	f, err := e.fs.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrValidation, "[%s]: %s is not readable", name, path).
			WithDetail("component", name).
			WithDetail("path", path)
	}
	_ = f.Close()

	return info.Size(), nil
}
