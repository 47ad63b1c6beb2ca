package layout

import (
	"math"

	"github.com/arthur-debert/fwmaker/pkg/errors"
	"github.com/arthur-debert/fwmaker/pkg/numparse"
)

// DefaultRegionSize is the region reserved per component by Generate.
const DefaultRegionSize = numparse.MiB

// DefaultComponents lists the components of an AT91 style boot chain in
// flash order.
var DefaultComponents = []string{"bootstrap", "u-boot", "u-boot env", "dtb", "kernel", "rootfs"}

// EssentialComponents must be present for an image to boot.
var EssentialComponents = []string{"bootstrap", "kernel", "rootfs"}

// Catalog is the set of component names a layout may use. An empty
// Recognized list accepts any name.
type Catalog struct {
	Recognized []string
	Essential  []string
}

// DefaultCatalog returns a catalog of DefaultComponents and EssentialComponents.
func DefaultCatalog() Catalog {
	return Catalog{
		Recognized: append([]string(nil), DefaultComponents...),
		Essential:  append([]string(nil), EssentialComponents...),
	}
}

// IsRecognized reports whether name may appear in a layout.
func (c Catalog) IsRecognized(name string) bool {
	if len(c.Recognized) == 0 {
		return true
	}
	return contains(c.Recognized, name)
}

// IsEssential reports whether name must appear in a layout.
func (c Catalog) IsEssential(name string) bool {
	return contains(c.Essential, name)
}

// Validate checks that names are unique and every essential name is
// recognized.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Recognized))
	for _, name := range c.Recognized {
		if name == "" {
			return errors.New(errors.ErrConfigValid, "recognized component names must not be empty")
		}
		if seen[name] {
			return errors.Newf(errors.ErrConfigValid, "component %q is listed twice", name).
				WithDetail("component", name)
		}
		seen[name] = true
	}
	for _, name := range c.Essential {
		if !c.IsRecognized(name) {
			return errors.Newf(errors.ErrConfigValid, "essential component %q is not a recognized component", name).
				WithDetail("component", name)
		}
	}
	return nil
}

// Generate builds a layout giving each name a regionSize region, packed in
// listed order from offset 0, with source file "<name>.bin".
func Generate(names []string, c Catalog, regionSize uint64) (Layout, error) {
	if len(names) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no components given")
	}

	l := make(Layout, 0, len(names))
	seen := make(map[string]bool, len(names))
	var offset uint64
	for i, name := range names {
		if !c.IsRecognized(name) {
			return nil, errors.Newf(errors.ErrValidation, "unknown component %q", name).
				WithDetail("component", name)
		}
		if seen[name] {
			return nil, errors.Newf(errors.ErrValidation, "component %q is listed twice", name).
				WithDetail("component", name)
		}
		seen[name] = true
		if i > 0 {
			if offset > math.MaxUint64-regionSize {
				return nil, errors.Newf(errors.ErrValidation, "[%s] offset overflows", name).
					WithDetail("component", name)
			}
			offset += regionSize
		}
		l = append(l, NewEntry(name, name+".bin", regionSize, offset))
	}
	return l, nil
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}
