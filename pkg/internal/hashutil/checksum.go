package hashutil

import (
	"crypto/md5"
	"encoding/hex"
	"io"

	"github.com/spf13/afero"
)

// MD5 returns the lowercase hex MD5 digest of everything read from r and
// the number of bytes read.
func MD5(r io.Reader) (string, int64, error) {
	hash := md5.New()
	n, err := io.Copy(hash, r)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(hash.Sum(nil)), n, nil
}

// FileMD5 calculates the MD5 checksum and length of a file.
func FileMD5(fs afero.Fs, path string) (string, int64, error) {
	file, err := fs.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer func() {
		_ = file.Close()
	}()

	return MD5(file)
}
