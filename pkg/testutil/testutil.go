package testutil

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// Pattern returns n bytes of a repeating sequence starting at seed, so that
// misplaced data shows up in comparisons.
func Pattern(n int, seed byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = seed + byte(i%251)
	}
	return b
}

// CreateFile writes data to dir/name, creating parent directories, and
// returns the path.
func CreateFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// CreateMemFile is CreateFile on an afero filesystem.
func CreateMemFile(t *testing.T, fs afero.Fs, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, data, 0644))
	return path
}

// CreateComponents writes "<name>.bin" in dir for every entry of files.
func CreateComponents(t *testing.T, dir string, files map[string][]byte) {
	t.Helper()
	for name, data := range files {
		CreateFile(t, dir, name+".bin", data)
	}
}

// Image builds the expected contents of an image with each part copied at
// its offset. Gaps are zero.
func Image(parts map[uint64][]byte) []byte {
	var size uint64
	for offset, data := range parts {
		if end := offset + uint64(len(data)); end > size {
			size = end
		}
	}
	image := make([]byte, size)
	for offset, data := range parts {
		copy(image[offset:], data)
	}
	return image
}

// MD5 returns the lowercase hex MD5 of data.
func MD5(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// AssertFileContent checks that path holds exactly want.
func AssertFileContent(t *testing.T, path string, want []byte) {
	t.Helper()
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, want, got, "content of %s", path)
}
