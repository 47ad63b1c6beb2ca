package config

import (
	_ "embed"
	"errors"
	"strings"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultContent returns the embedded defaults file.
func DefaultContent() string {
	return string(defaultConfig)
}

// Template returns the defaults with every setting commented out, ready to
// be saved as a user or project file.
func Template() string {
	return commentOutValues(DefaultContent())
}

// commentOutValues comments out assignment lines, leaving blank lines,
// comments and section headers alone.
func commentOutValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}
