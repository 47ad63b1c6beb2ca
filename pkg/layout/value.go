package layout

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/arthur-debert/fwmaker/pkg/errors"
	"github.com/arthur-debert/fwmaker/pkg/numparse"
)

// Value is a size or offset as written in a description: either a text
// literal understood by numparse or a raw integer. It remembers its form so
// that descriptions round-trip unchanged.
type Value struct {
	text    string
	num     uint64
	numeric bool
}

// Text returns a literal value such as "0x100000" or "512k".
func Text(s string) Value {
	return Value{text: s}
}

// Number returns a raw integer value.
func Number(n uint64) Value {
	return Value{num: n, numeric: true}
}

// Hex returns n as a 0x-prefixed text literal.
func Hex(n uint64) Value {
	return Text(numparse.FormatHex(n))
}

// IsNumber reports whether the value was given as a raw integer.
func (v Value) IsNumber() bool {
	return v.numeric
}

// String returns the literal, or the decimal form of a raw integer.
func (v Value) String() string {
	if v.numeric {
		return strconv.FormatUint(v.num, 10)
	}
	return v.text
}

// Resolve converts the value to a byte count.
func (v Value) Resolve() (uint64, error) {
	if v.numeric {
		return v.num, nil
	}
	return numparse.Parse(v.text)
}

// native returns the value as the encoders should see it.
func (v Value) native() interface{} {
	if v.numeric {
		return v.num
	}
	return v.text
}

// MarshalJSON writes raw integers as JSON numbers and literals as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.native())
}

// UnmarshalJSON accepts a JSON string or a non-negative JSON integer.
func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	}
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigFormat, "expected a literal string or a non-negative integer, got %s", data)
	}
	*v = Number(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.native(), nil
}

// valueFrom converts a decoded scalar from a generic decoder.
func valueFrom(field string, raw interface{}) (Value, error) {
	switch x := raw.(type) {
	case string:
		return Text(x), nil
	case nil:
		return Value{}, errors.Newf(errors.ErrConfigFormat, "missing %q", field)
	case float32, float64, bool:
		return Value{}, errors.Newf(errors.ErrConfigFormat, "%q must be a literal string or a non-negative integer, got %v", field, x)
	default:
		n, err := numparse.ParseValue(x)
		if err != nil {
			return Value{}, errors.Wrapf(err, errors.ErrConfigFormat, "%q must be a literal string or a non-negative integer", field)
		}
		return Number(n), nil
	}
}

// GoString keeps test failure output readable.
func (v Value) GoString() string {
	if v.numeric {
		return fmt.Sprintf("layout.Number(%d)", v.num)
	}
	return fmt.Sprintf("layout.Text(%q)", v.text)
}
