package style

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/fwmaker/pkg/engine"
	"github.com/arthur-debert/fwmaker/pkg/errors"
	"github.com/arthur-debert/fwmaker/pkg/layout"
)

func samplePlan() engine.Plan {
	return engine.Plan{
		{Name: "bootstrap", Path: "/work/bootstrap.bin", Offset: 0, Size: 0x100000, FileSize: 512},
		{Name: "kernel", Path: "/work/kernel.bin", Offset: 0x100000, Size: 0x100000, FileSize: 0x2000},
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		format   Format
		expected string
	}{
		{FormatAuto, "auto"},
		{FormatTerminal, "term"},
		{FormatText, "text"},
		{FormatJSON, "json"},
		{Format(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.format.String())
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"", FormatAuto, false},
		{"auto", FormatAuto, false},
		{"TERM", FormatTerminal, false},
		{"terminal", FormatTerminal, false},
		{"plain", FormatText, false},
		{"Json", FormatJSON, false},
		{"xml", FormatAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	t.Run("regular_file_is_text", func(t *testing.T) {
		assert.Equal(t, FormatText, DetectFormat(f))
		assert.Equal(t, FormatText, FormatAuto.Resolve(f))
	})

	t.Run("no_color", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, FormatText, DetectFormat(f))
	})

	t.Run("explicit_format_is_kept", func(t *testing.T) {
		assert.Equal(t, FormatJSON, FormatJSON.Resolve(f))
		assert.Equal(t, FormatTerminal, FormatTerminal.Resolve(f))
	})
}

func TestNewRenderer(t *testing.T) {
	assert.IsType(t, &TerminalRenderer{}, NewRenderer(FormatTerminal))
	assert.IsType(t, &TextRenderer{}, NewRenderer(FormatText))
	assert.IsType(t, &JSONRenderer{}, NewRenderer(FormatJSON))
	assert.IsType(t, &TextRenderer{}, NewRenderer(FormatAuto))
}

func TestTextRenderer(t *testing.T) {
	r := &TextRenderer{}

	t.Run("plan", func(t *testing.T) {
		out := r.RenderPlan(samplePlan())
		for _, want := range []string{"Component", "bootstrap", "kernel", "0x100000", "0x200", "/work/kernel.bin"} {
			assert.Contains(t, out, want)
		}
		assert.Contains(t, out, "2 regions, image size 0x102000")
		assert.NotContains(t, out, "\x1b[")
		assert.Equal(t, "No regions", r.RenderPlan(nil))
	})

	t.Run("result", func(t *testing.T) {
		out := r.RenderResult(&engine.Result{Output: "firmware/firmware.bin", Checksum: "d41d8cd98f00b204e9800998ecf8427e", Size: 0x2000})
		assert.Equal(t, "Wrote firmware/firmware.bin (0x2000 bytes)\nmd5 d41d8cd98f00b204e9800998ecf8427e", out)
	})

	t.Run("catalog", func(t *testing.T) {
		out := r.RenderCatalog(layout.Catalog{Recognized: []string{"spl", "kernel"}, Essential: []string{"kernel"}})
		assert.Equal(t, "spl\nkernel (essential)", out)
		assert.Equal(t, "any name is accepted", r.RenderCatalog(layout.Catalog{}))
	})

	t.Run("error", func(t *testing.T) {
		err := errors.New(errors.ErrValidation, "Invalid settings!")
		assert.Equal(t, "Error: Invalid settings!", r.RenderError(err))
		assert.Empty(t, r.RenderError(nil))
	})
}

func TestTerminalRenderer(t *testing.T) {
	r := &TerminalRenderer{}

	out := r.RenderPlan(samplePlan())
	assert.Contains(t, out, "Image layout")
	assert.Contains(t, out, "bootstrap")
	assert.Contains(t, out, "0x102000")

	out = r.RenderResult(&engine.Result{Output: "image.bin", Checksum: "abc", Size: 16})
	assert.Contains(t, out, "image.bin")
	assert.Contains(t, out, "abc")

	out = r.RenderCatalog(layout.DefaultCatalog())
	assert.Contains(t, out, "u-boot env")

	out = r.RenderError(errors.Newf(errors.ErrValidation, "essential component %q is missing", "rootfs"))
	assert.Contains(t, out, `essential component "rootfs" is missing`)
}

func TestJSONRenderer(t *testing.T) {
	r := &JSONRenderer{}

	t.Run("plan", func(t *testing.T) {
		var got planJSON
		require.NoError(t, json.Unmarshal([]byte(r.RenderPlan(samplePlan())), &got))
		assert.True(t, got.Valid)
		assert.Equal(t, uint64(0x102000), got.ImageSize)
		require.Len(t, got.Regions, 2)
		assert.Equal(t, regionJSON{Name: "kernel", Path: "/work/kernel.bin", Offset: 0x100000, Size: 0x100000, FileSize: 0x2000}, got.Regions[1])
	})

	t.Run("result", func(t *testing.T) {
		var got map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(r.RenderResult(&engine.Result{Output: "o.bin", Checksum: "abc", Size: 3, Plan: samplePlan()})), &got))
		assert.Equal(t, "abc", got["md5"])
		assert.Equal(t, "o.bin", got["output"])
		assert.Len(t, got["regions"], 2)
	})

	t.Run("empty_catalog", func(t *testing.T) {
		assert.JSONEq(t, `{"recognized": [], "essential": []}`, r.RenderCatalog(layout.Catalog{}))
	})

	t.Run("error", func(t *testing.T) {
		err := errors.New(errors.ErrValidation, "[kernel] listed more than once").WithDetail("component", "kernel")
		assert.JSONEq(t, `{"error": "[kernel] listed more than once", "code": "VALIDATION", "details": {"component": "kernel"}}`, r.RenderError(err))
	})
}
