package engine

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/fwmaker/pkg/errors"
	"github.com/arthur-debert/fwmaker/pkg/layout"
	"github.com/arthur-debert/fwmaker/pkg/testutil"
)

// newTestEngine returns an engine on the OS filesystem rooted at a fresh
// temp dir, so layouts can use relative paths.
func newTestEngine(t *testing.T, opts ...Option) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	base := []Option{WithBaseDir(dir), WithLogger(zerolog.Nop())}
	return New(append(base, opts...)...), dir
}

// essentialLayout writes bootstrap, kernel and rootfs sources and returns a
// valid layout for them.
func essentialLayout(t *testing.T, dir string) layout.Layout {
	t.Helper()
	testutil.CreateFile(t, dir, "bootstrap.bin", testutil.Pattern(512, 1))
	testutil.CreateFile(t, dir, "kernel.bin", testutil.Pattern(3000, 2))
	testutil.CreateFile(t, dir, "rootfs.bin", testutil.Pattern(100, 3))
	return layout.Layout{
		layout.NewEntry("bootstrap", "bootstrap.bin", 0x1000, 0),
		layout.NewEntry("kernel", "kernel.bin", 0x1000, 0x1000),
		layout.NewEntry("rootfs", "rootfs.bin", 0x1000, 0x2000),
	}
}

func abCatalog() layout.Catalog {
	return layout.Catalog{Recognized: []string{"A", "B"}}
}

func TestValidateAcceptsLayout(t *testing.T) {
	e, dir := newTestEngine(t)
	l := essentialLayout(t, dir)

	ok, msg := e.Validate(l)
	assert.True(t, ok)
	assert.Empty(t, msg)

	plan, err := e.Check(l)
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.Equal(t, Region{Name: "kernel", Path: filepath.Join(dir, "kernel.bin"), Offset: 0x1000, Size: 0x1000, FileSize: 3000}, plan[1])
	assert.Equal(t, uint64(0x3000), plan.End())
	assert.Equal(t, uint64(0x2000+100), plan.ImageSize())
}

func TestValidateRejects(t *testing.T) {
	e, dir := newTestEngine(t)
	valid := essentialLayout(t, dir)
	testutil.CreateFile(t, dir, "big.bin", testutil.Pattern(0x1001, 4))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "adir"), 0755))

	with := func(i int, change func(*layout.Entry)) layout.Layout {
		l := append(layout.Layout(nil), valid...)
		change(&l[i])
		return l
	}

	tests := []struct {
		name    string
		layout  layout.Layout
		wantMsg string
	}{
		{
			name:    "empty_layout",
			layout:  layout.Layout{},
			wantMsg: "Invalid settings!",
		},
		{
			name:    "nil_layout",
			layout:  nil,
			wantMsg: "Invalid settings!",
		},
		{
			name:    "unnamed_entry",
			layout:  with(1, func(e *layout.Entry) { e.Name = "" }),
			wantMsg: "Invalid settings!",
		},
		{
			name:    "missing_essential",
			layout:  valid[:2],
			wantMsg: `essential component "rootfs" is missing`,
		},
		{
			name:    "first_missing_essential_in_catalog_order",
			layout:  valid[1:2],
			wantMsg: `essential component "bootstrap" is missing`,
		},
		{
			name:    "unknown_component",
			layout:  append(append(layout.Layout(nil), valid...), layout.NewEntry("initrd", "rootfs.bin", 0x1000, 0x3000)),
			wantMsg: "[initrd] unknown component",
		},
		{
			name:    "duplicate_component",
			layout:  append(append(layout.Layout(nil), valid...), layout.NewEntry("kernel", "kernel.bin", 0x1000, 0x3000)),
			wantMsg: "[kernel] listed more than once",
		},
		{
			name:    "overlapping_region",
			layout:  with(1, func(e *layout.Entry) { e.Offset = layout.Text("0x800") }),
			wantMsg: "[kernel] offset: 0x800 invalid, current offset: 0x1000",
		},
		{
			name:    "missing_file",
			layout:  with(2, func(e *layout.Entry) { e.Path = "nope.bin" }),
			wantMsg: "[rootfs]: " + filepath.Join(dir, "nope.bin") + " does not exist",
		},
		{
			name:    "directory_instead_of_file",
			layout:  with(2, func(e *layout.Entry) { e.Path = "adir" }),
			wantMsg: "is not a regular file",
		},
		{
			name:    "empty_path",
			layout:  with(2, func(e *layout.Entry) { e.Path = "" }),
			wantMsg: "[rootfs]: no source file given",
		},
		{
			name:    "oversized_file",
			layout:  with(1, func(e *layout.Entry) { e.Path = "big.bin" }),
			wantMsg: "is too large, actual size: 0x1001, reserved size: 0x1000",
		},
		{
			name:    "bad_size_literal",
			layout:  with(0, func(e *layout.Entry) { e.Size = layout.Text("0xZZ") }),
			wantMsg: `[bootstrap] invalid size "0xZZ": invalid literal "0xZZ"`,
		},
		{
			name:    "bad_offset_literal",
			layout:  with(0, func(e *layout.Entry) { e.Offset = layout.Text("") }),
			wantMsg: `[bootstrap] invalid offset ""`,
		},
		{
			name:    "region_overflow",
			layout:  with(2, func(e *layout.Entry) { e.Offset = layout.Text("0xffffffffffffffff") }),
			wantMsg: "[rootfs] region 0xffffffffffffffff+0x1000 overflows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := e.Validate(tt.layout)
			assert.False(t, ok)
			assert.Contains(t, msg, tt.wantMsg)

			_, err := e.Check(tt.layout)
			assert.True(t, errors.IsErrorCode(err, errors.ErrValidation), "got %v", err)
		})
	}
}

func TestCheckOverlapUsesListedOrder(t *testing.T) {
	e, dir := newTestEngine(t, WithCatalog(abCatalog()))
	testutil.CreateFile(t, dir, "a.bin", testutil.Pattern(10, 0))
	testutil.CreateFile(t, dir, "b.bin", testutil.Pattern(10, 0))

	t.Run("overlap", func(t *testing.T) {
		_, err := e.Check(layout.Layout{
			{Name: "A", Path: "a.bin", Offset: layout.Number(0), Size: layout.Number(100)},
			{Name: "B", Path: "b.bin", Offset: layout.Number(50), Size: layout.Number(10)},
		})
		require.Error(t, err)
		details := errors.GetErrorDetails(err)
		assert.Equal(t, "B", details["component"])
		assert.Equal(t, uint64(50), details["offset"])
		assert.Equal(t, uint64(100), details["cursor"])
	})

	t.Run("out_of_order_is_rejected_not_sorted", func(t *testing.T) {
		ok, msg := e.Validate(layout.Layout{
			{Name: "B", Path: "b.bin", Offset: layout.Number(100), Size: layout.Number(10)},
			{Name: "A", Path: "a.bin", Offset: layout.Number(0), Size: layout.Number(100)},
		})
		assert.False(t, ok)
		assert.Equal(t, "[A] offset: 0x0 invalid, current offset: 0x6e", msg)
	})

	t.Run("adjacent_and_gapped_regions", func(t *testing.T) {
		plan, err := e.Check(layout.Layout{
			{Name: "A", Path: "a.bin", Offset: layout.Number(0), Size: layout.Number(100)},
			{Name: "B", Path: "b.bin", Offset: layout.Text("1k"), Size: layout.Text("10")},
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(1024), plan[1].Offset)

		_, err = e.Check(layout.Layout{
			{Name: "A", Path: "a.bin", Offset: layout.Number(0), Size: layout.Number(100)},
			{Name: "B", Path: "b.bin", Offset: layout.Number(100), Size: layout.Number(10)},
		})
		require.NoError(t, err)
	})
}

func TestCheckOversizedReportsSizes(t *testing.T) {
	e, dir := newTestEngine(t, WithCatalog(abCatalog()))
	testutil.CreateFile(t, dir, "a.bin", testutil.Pattern(200, 0))

	_, err := e.Check(layout.Layout{{Name: "A", Path: "a.bin", Offset: layout.Number(0), Size: layout.Number(100)}})
	require.Error(t, err)
	details := errors.GetErrorDetails(err)
	assert.Equal(t, uint64(200), details["actual"])
	assert.Equal(t, uint64(100), details["reserved"])
	assert.Contains(t, err.Error(), "actual size: 0xc8, reserved size: 0x64")
}

func TestCheckParseErrorIsWrapped(t *testing.T) {
	e, dir := newTestEngine(t, WithCatalog(abCatalog()))
	testutil.CreateFile(t, dir, "a.bin", testutil.Pattern(1, 0))

	_, err := e.Check(layout.Layout{{Name: "A", Path: "a.bin", Offset: layout.Text("0b2"), Size: layout.Number(1)}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrValidation))
	assert.True(t, stderrors.Is(err, errors.New(errors.ErrParse, "")))
}

func TestCheckAbsolutePathIgnoresBaseDir(t *testing.T) {
	other := t.TempDir()
	testutil.CreateFile(t, other, "a.bin", testutil.Pattern(4, 0))
	e, _ := newTestEngine(t, WithCatalog(abCatalog()))

	plan, err := e.Check(layout.Layout{{Name: "A", Path: filepath.Join(other, "a.bin"), Offset: layout.Number(0), Size: layout.Number(4)}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(other, "a.bin"), plan[0].Path)
}

func TestGenerateDefaultLayout(t *testing.T) {
	e, _ := newTestEngine(t)

	l, err := e.GenerateDefaultLayout([]string{"bootstrap", "kernel", "rootfs"})
	require.NoError(t, err)
	assert.Equal(t, layout.Layout{
		layout.NewEntry("bootstrap", "bootstrap.bin", 0x100000, 0),
		layout.NewEntry("kernel", "kernel.bin", 0x100000, 0x100000),
		layout.NewEntry("rootfs", "rootfs.bin", 0x100000, 0x200000),
	}, l)

	_, err = e.GenerateDefaultLayout([]string{"kernel", "ramdisk"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrValidation))

	small, _ := newTestEngine(t, WithRegionSize(0x400))
	l, err = small.GenerateDefaultLayout([]string{"dtb", "kernel"})
	require.NoError(t, err)
	assert.Equal(t, layout.Text("0x400"), l[1].Offset)
}
