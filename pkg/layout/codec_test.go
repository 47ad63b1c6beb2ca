package layout

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/fwmaker/pkg/errors"
)

func sampleLayout() Layout {
	return Layout{
		{Name: "bootstrap", Path: "images/at91bootstrap.bin", Size: Text("0x20000"), Offset: Text("0x0")},
		{Name: "u-boot env", Path: "env.bin", Size: Text("128k"), Offset: Number(131072)},
		{Name: "kernel", Path: "zImage", Size: Number(3145728), Offset: Text("0x100000")},
		{Name: "rootfs", Path: "rootfs.ubi", Size: Text("64m"), Offset: Text("0x400000")},
	}
}

func TestJSONContract(t *testing.T) {
	l := Layout{NewEntry("kernel", "kernel.bin", 0x100000, 0x200000)}

	data, err := Marshal(l, FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, `[
    {
        "kernel": {
            "path": "kernel.bin",
            "size": "0x100000",
            "offset": "0x200000"
        }
    }
]
`, string(data))
}

func TestJSONRawIntegers(t *testing.T) {
	l, err := Unmarshal([]byte(`[{"dtb": {"path": "board.dtb", "size": 65536, "offset": "0x300000"}}]`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, l, 1)
	assert.Equal(t, Number(65536), l[0].Size)
	assert.Equal(t, Text("0x300000"), l[0].Offset)

	data, err := Marshal(l, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"size": 65536`)
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Marshal(sampleLayout(), f)
			require.NoError(t, err)

			got, err := Unmarshal(data, f)
			require.NoError(t, err)
			assert.Equal(t, sampleLayout(), got)
		})
	}
}

func TestXMLRoundTrip(t *testing.T) {
	l := Layout{
		NewEntry("bootstrap", "bootstrap.bin", 0x1000, 0),
		{Name: "u-boot env", Path: "env.bin", Size: Text("4k"), Offset: Text("0x1000")},
	}

	data, err := Marshal(l, FormatXML)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<component name="u-boot env" path="env.bin" size="4k" offset="0x1000"/>`)

	got, err := Unmarshal(data, FormatXML)
	require.NoError(t, err)
	assert.Equal(t, l, got)

	t.Run("numbers_come_back_as_text", func(t *testing.T) {
		data, err := Marshal(Layout{{Name: "dtb", Path: "a.dtb", Size: Number(16), Offset: Number(0)}}, FormatXML)
		require.NoError(t, err)
		got, err := Unmarshal(data, FormatXML)
		require.NoError(t, err)
		assert.Equal(t, Text("16"), got[0].Size)
	})
}

func TestYAMLQuotesNumericLookingText(t *testing.T) {
	data, err := Marshal(Layout{NewEntry("kernel", "k.bin", 0x10, 0)}, FormatYAML)
	require.NoError(t, err)

	got, err := Unmarshal(data, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Text("0x10"), got[0].Size)
}

func TestYAMLPlainScalars(t *testing.T) {
	got, err := Unmarshal([]byte(`
- bootstrap:
    path: boot.bin
    size: 4k
    offset: 0
- kernel:
    path: zImage
    size: "0x200000"
    offset: 4096
`), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, Layout{
		{Name: "bootstrap", Path: "boot.bin", Size: Text("4k"), Offset: Number(0)},
		{Name: "kernel", Path: "zImage", Size: Text("0x200000"), Offset: Number(4096)},
	}, got)
}

func TestTOMLDocument(t *testing.T) {
	got, err := Unmarshal([]byte(`
[[component]]
[component.bootstrap]
path = "boot.bin"
size = "0x1000"
offset = 0

[[component]]
[component."u-boot env"]
path = "env.bin"
size = 4096
offset = "0x1000"
`), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, Layout{
		{Name: "bootstrap", Path: "boot.bin", Size: Text("0x1000"), Offset: Number(0)},
		{Name: "u-boot env", Path: "env.bin", Size: Number(4096), Offset: Text("0x1000")},
	}, got)
}

func TestMalformedDescriptions(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"json_not_a_list", FormatJSON, `{"kernel": {"path": "k", "size": "1", "offset": "0"}}`},
		{"json_syntax", FormatJSON, `[{"kernel": `},
		{"json_two_keys", FormatJSON, `[{"kernel": {"path": "k", "size": "1", "offset": "0"}, "dtb": {"path": "d", "size": "1", "offset": "1"}}]`},
		{"json_empty_item", FormatJSON, `[{}]`},
		{"json_missing_path", FormatJSON, `[{"kernel": {"size": "1", "offset": "0"}}]`},
		{"json_missing_size", FormatJSON, `[{"kernel": {"path": "k", "offset": "0"}}]`},
		{"json_missing_offset", FormatJSON, `[{"kernel": {"path": "k", "size": "1"}}]`},
		{"json_negative_size", FormatJSON, `[{"kernel": {"path": "k", "size": -1, "offset": "0"}}]`},
		{"json_float_offset", FormatJSON, `[{"kernel": {"path": "k", "size": "1", "offset": 1.5}}]`},
		{"json_bool_size", FormatJSON, `[{"kernel": {"path": "k", "size": true, "offset": "0"}}]`},
		{"yaml_mapping", FormatYAML, "kernel:\n  path: k\n"},
		{"yaml_missing_size", FormatYAML, "- kernel:\n    path: k\n    offset: 0\n"},
		{"yaml_float_size", FormatYAML, "- kernel:\n    path: k\n    size: 1.5\n    offset: 0\n"},
		{"yaml_negative_offset", FormatYAML, "- kernel:\n    path: k\n    size: 1\n    offset: -4\n"},
		{"toml_syntax", FormatTOML, "[[component]\n"},
		{"toml_missing_path", FormatTOML, "[[component]]\n[component.kernel]\nsize = 1\noffset = 0\n"},
		{"xml_wrong_root", FormatXML, `<image><component name="k" path="k" size="1" offset="0"/></image>`},
		{"xml_missing_offset", FormatXML, `<layout><component name="k" path="k" size="1"/></layout>`},
		{"xml_unexpected_element", FormatXML, `<layout><region/></layout>`},
		{"xml_syntax", FormatXML, `<layout><component name="k" path=k/></layout>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigFormat), "got %v", err)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"settings.json":   FormatJSON,
		"layout.YAML":     FormatYAML,
		"layout.yml":      FormatYAML,
		"dir/layout.toml": FormatTOML,
		"layout.xml":      FormatXML,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("layout.ini")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestLoadSave(t *testing.T) {
	fs := afero.NewMemMapFs()

	for _, name := range []string{"settings.json", "conf/layout.yaml", "layout.toml"} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Save(fs, name, sampleLayout()))

			got, err := Load(fs, name)
			require.NoError(t, err)
			assert.Equal(t, sampleLayout(), got)
		})
	}

	t.Run("missing_file", func(t *testing.T) {
		_, err := Load(fs, filepath.Join("nowhere", "settings.json"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})

	t.Run("malformed_file", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fs, "broken.json", []byte("not json"), 0644))
		_, err := Load(fs, "broken.json")
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigFormat))
	})
}
