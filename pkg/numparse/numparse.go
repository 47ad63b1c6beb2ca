package numparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arthur-debert/fwmaker/pkg/errors"
)

const (
	// KiB is the multiplier of the "k" and "kb" suffixes
	KiB uint64 = 1024
	// MiB is the multiplier of the "m" and "mb" suffixes
	MiB uint64 = 1024 * 1024
)

// Parse converts a numeric literal into its value.
func Parse(text string) (uint64, error) {
	s := strings.ToLower(strings.TrimSpace(text))

	switch {
	case s == "true":
		return 1, nil
	case s == "false":
		return 0, nil
	case strings.HasPrefix(s, "0b"):
		return parseDigits(text, s[2:], 2, 1)
	case strings.HasPrefix(s, "0x"):
		return parseDigits(text, s[2:], 16, 1)
	case len(s) > 1 && s[0] == '0':
		return parseDigits(text, s[1:], 8, 1)
	case strings.HasSuffix(s, "kb"):
		return parseDigits(text, s[:len(s)-2], 10, KiB)
	case strings.HasSuffix(s, "k"):
		return parseDigits(text, s[:len(s)-1], 10, KiB)
	case strings.HasSuffix(s, "mb"):
		return parseDigits(text, s[:len(s)-2], 10, MiB)
	case strings.HasSuffix(s, "m"):
		return parseDigits(text, s[:len(s)-1], 10, MiB)
	default:
		return parseDigits(text, s, 10, 1)
	}
}

// parseDigits parses digits in base and scales the result, reporting
// failures against the original literal.
func parseDigits(literal, digits string, base int, multiplier uint64) (uint64, error) {
	if digits == "" {
		return 0, errors.Wrapf(strconv.ErrSyntax, errors.ErrParse, "invalid literal %q: no digits", literal).
			WithDetail("literal", literal).
			WithDetail("base", base)
	}

	// ParseUint would accept "+" and "_" separators in some bases; literals
	// in layout descriptions are plain digit strings.
	for _, r := range digits {
		if !isDigit(r, base) {
			return 0, errors.Wrapf(strconv.ErrSyntax, errors.ErrParse, "invalid literal %q: %q is not a base %d digit", literal, r, base).
				WithDetail("literal", literal).
				WithDetail("base", base)
		}
	}

	value, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrParse, "invalid literal %q", literal).
			WithDetail("literal", literal).
			WithDetail("base", base)
	}

	if multiplier > 1 && value > math.MaxUint64/multiplier {
		return 0, errors.Wrapf(strconv.ErrRange, errors.ErrParse, "invalid literal %q: value out of range", literal).
			WithDetail("literal", literal).
			WithDetail("base", base)
	}

	return value * multiplier, nil
}

func isDigit(r rune, base int) bool {
	switch {
	case r >= '0' && r <= '9':
		return int(r-'0') < base
	case r >= 'a' && r <= 'f':
		return base == 16
	default:
		return false
	}
}

// ParseValue accepts an already-integer value unchanged and parses strings
// with Parse. Negative integers and other types are rejected.
func ParseValue(v interface{}) (uint64, error) {
	switch n := v.(type) {
	case string:
		return Parse(n)
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case int:
		return fromSigned(int64(n))
	case int64:
		return fromSigned(n)
	case int32:
		return fromSigned(int64(n))
	case int16:
		return fromSigned(int64(n))
	case int8:
		return fromSigned(int64(n))
	default:
		return 0, errors.Newf(errors.ErrParse, "unsupported numeric value %v (%T)", v, v).
			WithDetail("type", fmt.Sprintf("%T", v))
	}
}

func fromSigned(n int64) (uint64, error) {
	if n < 0 {
		return 0, errors.Newf(errors.ErrParse, "negative value %d", n).
			WithDetail("literal", n)
	}
	return uint64(n), nil
}

// MustParse is like Parse but panics on error. Use it for constants.
func MustParse(text string) uint64 {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// FormatHex renders a value the way layout descriptions store it.
func FormatHex(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}
