package engine

import (
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/arthur-debert/fwmaker/pkg/errors"
	"github.com/arthur-debert/fwmaker/pkg/internal/hashutil"
	"github.com/arthur-debert/fwmaker/pkg/layout"
	"github.com/arthur-debert/fwmaker/pkg/logging"
	"github.com/arthur-debert/fwmaker/pkg/numparse"
)

// Result describes a composed image.
type Result struct {
	Output   string `json:"output"`
	Checksum string `json:"md5"`
	Size     int64  `json:"size"`
	Plan     Plan   `json:"-"`
}

// Build checks a layout and composes it into outputPath.
func (e *Engine) Build(l layout.Layout, outputPath string) (*Result, error) {
	plan, err := e.Check(l)
	if err != nil {
		return nil, err
	}

	sum, size, err := e.compose(plan, outputPath)
	if err != nil {
		return nil, err
	}

	return &Result{Output: outputPath, Checksum: sum, Size: size, Plan: plan}, nil
}

// Compose writes every region's source file at its offset in outputPath
// and returns the lowercase hex MD5 of the result. The plan must come from
// Check; Compose does not validate it again. A failed Compose may leave a
// partial image behind.
func (e *Engine) Compose(plan Plan, outputPath string) (string, error) {
	sum, _, err := e.compose(plan, outputPath)
	return sum, err
}

func (e *Engine) compose(plan Plan, outputPath string) (string, int64, error) {
	done := logging.LogOperationStart(e.logger, "compose")
	defer done()

	for _, r := range plan {
		if samePath(r.Path, outputPath) {
			return "", 0, errors.Newf(errors.ErrCompose, "[%s]: output %s would overwrite its source", r.Name, outputPath).
				WithDetail("component", r.Name).
				WithDetail("output", outputPath)
		}
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := e.fs.MkdirAll(dir, 0755); err != nil {
			return "", 0, errors.Wrapf(err, errors.ErrCompose, "cannot create directory %s", dir).
				WithDetail("output", outputPath)
		}
	}

	out, err := e.fs.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return "", 0, errors.Wrapf(err, errors.ErrCompose, "cannot create %s", outputPath).
			WithDetail("output", outputPath)
	}

	for _, r := range plan {
		n, err := e.writeRegion(out, r)
		if err != nil {
			_ = out.Close()
			return "", 0, err.WithDetail("output", outputPath)
		}
		e.logger.Info().
			Str("name", r.Name).
			Str("size", numparse.FormatHex(uint64(n))).
			Str("output", filepath.Base(outputPath)).
			Str("offset", numparse.FormatHex(r.Offset)).
			Msg("Write")
	}

	if err := out.Close(); err != nil {
		return "", 0, errors.Wrapf(err, errors.ErrCompose, "cannot finish %s", outputPath).
			WithDetail("output", outputPath)
	}

	return e.checksum(outputPath)
}

func (e *Engine) writeRegion(out afero.File, r Region) (int64, *errors.FwError) {
	if r.Offset > math.MaxInt64 {
		return 0, errors.Newf(errors.ErrCompose, "[%s] offset %s is beyond the largest file offset", r.Name, numparse.FormatHex(r.Offset)).
			WithDetail("component", r.Name)
	}

	src, err := e.fs.Open(r.Path)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrCompose, "[%s] cannot open %s", r.Name, r.Path).
			WithDetail("component", r.Name).
			WithDetail("path", r.Path)
	}
	defer func() {
		_ = src.Close()
	}()

	if _, err := out.Seek(int64(r.Offset), io.SeekStart); err != nil {
		return 0, errors.Wrapf(err, errors.ErrCompose, "[%s] cannot seek to %s", r.Name, numparse.FormatHex(r.Offset)).
			WithDetail("component", r.Name)
	}

	n, err := io.Copy(out, src)
	if err != nil {
		return n, errors.Wrapf(err, errors.ErrCompose, "[%s] cannot write %s", r.Name, r.Path).
			WithDetail("component", r.Name).
			WithDetail("path", r.Path)
	}
	return n, nil
}

// checksum reads the image back and returns its MD5 and length.
func (e *Engine) checksum(path string) (string, int64, error) {
	sum, n, err := hashutil.FileMD5(e.fs, path)
	if err != nil {
		return "", 0, errors.Wrapf(err, errors.ErrCompose, "cannot read back %s", path).
			WithDetail("output", path)
	}
	return sum, n, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

