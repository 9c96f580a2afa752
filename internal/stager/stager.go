package stager

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/uuid"
	"github.com/spf13/afero"
)

const (
	chunkSize = 32 * 1024
	// 36 byte uuid + "_" + base stays below 255
	maxBaseBytes = 200
)

var ErrOutsideStaging = errors.New("stager: path is outside the staging directory")

// TempStager keeps raw uploads under dir until a worker is done with them.
type TempStager struct {
	fs  afero.Fs
	dir string
}

// compile-time check: *TempStager must satisfy port.Stager
var _ port.Stager = (*TempStager)(nil)

func NewTempStager(fs afero.Fs, dir string) *TempStager {
	return &TempStager{fs: fs, dir: filepath.Clean(dir)}
}

// NewOSStager stages on the local disk.
func NewOSStager(dir string) *TempStager {
	return NewTempStager(afero.NewOsFs(), dir)
}

// Stage copies r to "<dir>/<uuid>_<base name>" and returns that path.
// Long base names are shortened to keep the file name under the usual
// 255 byte limit.
func (s *TempStager) Stage(r io.Reader, originalName string) (string, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", s.dir, err)
	}

	dstPath := filepath.Join(s.dir, uuid.NewUUID().String()+"_"+stagedBase(originalName))
	dst, err := s.fs.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", dstPath, err)
	}

	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(dst, r, buf); err != nil {
		_ = dst.Close()
		_ = s.fs.Remove(dstPath)
		return "", fmt.Errorf("failed to save file %s: %w", dstPath, err)
	}
	if err := dst.Close(); err != nil {
		_ = s.fs.Remove(dstPath)
		return "", fmt.Errorf("failed to close file %s: %w", dstPath, err)
	}

	return dstPath, nil
}

func (s *TempStager) Open(path string) (io.ReadCloser, error) {
	if err := s.check(path); err != nil {
		return nil, err
	}
	return s.fs.Open(path)
}

func (s *TempStager) Exists(path string) (bool, error) {
	if err := s.check(path); err != nil {
		return false, err
	}
	return afero.Exists(s.fs, path)
}

// Remove deletes a staged upload. A file that is already gone is not an error.
func (s *TempStager) Remove(path string) error {
	if err := s.check(path); err != nil {
		return err
	}
	if err := s.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *TempStager) check(path string) error {
	if !strings.HasPrefix(filepath.Clean(path), s.dir+string(filepath.Separator)) {
		return fmt.Errorf("%w: %q", ErrOutsideStaging, path)
	}
	return nil
}

// stagedBase returns the base of name cut to maxBaseBytes, extension kept.
func stagedBase(name string) string {
	base := filepath.Base(name)
	if len(base) <= maxBaseBytes {
		return base
	}
	ext := filepath.Ext(base)
	if len(ext) > maxBaseBytes/2 {
		ext = ""
	}
	cut := maxBaseBytes - len(ext)
	for cut > 0 && !utf8.RuneStart(base[cut]) {
		cut--
	}
	return base[:cut] + ext
}
