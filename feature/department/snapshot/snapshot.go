package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"datasync/core/reconcile"

	"github.com/spf13/afero"
)

// Extension is the only accepted snapshot file extension.
const Extension = ".xml"

var (
	// ErrNotFound is returned when the snapshot file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrIsDirectory is returned when the path names a directory.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrExtension is returned for paths not ending in .xml.
	ErrExtension = errors.New("file must have .xml extension")
)

// Files reads and writes snapshot documents on a file system.
type Files struct {
	fs afero.Fs
}

// New returns snapshot files backed by fs. A nil fs means the OS file system.
func New(fs afero.Fs) *Files {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Files{fs: fs}
}

// Exists reports whether path is present.
func (f *Files) Exists(path string) (bool, error) {
	return afero.Exists(f.fs, path)
}

// CheckReadable verifies that path is an existing, readable .xml file.
func (f *Files) CheckReadable(path string) error {
	info, err := f.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}
	if !strings.HasSuffix(path, Extension) {
		return fmt.Errorf("%s: %w", path, ErrExtension)
	}

	file, err := f.fs.Open(path)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", path, err)
	}
	return file.Close()
}

// CheckWritable verifies that path can receive a snapshot: .xml extension,
// not a directory, writable when present, parent directory present otherwise.
func (f *Files) CheckWritable(path string) error {
	if !strings.HasSuffix(path, Extension) {
		return fmt.Errorf("%s: %w", path, ErrExtension)
	}

	info, err := f.fs.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return fmt.Errorf("%s: %w", path, ErrIsDirectory)
		}
		file, err := f.fs.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("unable to write %s: %w", path, err)
		}
		return file.Close()
	case os.IsNotExist(err):
		dir := filepath.Dir(path)
		isDir, err := afero.IsDir(f.fs, dir)
		if err != nil || !isDir {
			return fmt.Errorf("directory %s does not exist", dir)
		}
		return nil
	default:
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
}

// ReadAll validates path and decodes it into a collection. A zero-length file
// is an empty collection.
func (f *Files) ReadAll(path string) (*reconcile.Collection, error) {
	if err := f.CheckReadable(path); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}

	c, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// WriteAll encodes c into path, replacing any previous content, and returns
// the bytes written.
func (f *Files) WriteAll(path string, c *reconcile.Collection) ([]byte, error) {
	data, err := Encode(c)
	if err != nil {
		return nil, err
	}
	if err := afero.WriteFile(f.fs, path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return data, nil
}
