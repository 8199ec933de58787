package rates

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Locator resolves files inside a polled directory.
type Locator interface {
	Exists(dir, name string) bool
	ReadAll(dir, name string) ([]byte, error)
}

// FileLocator is the filesystem-backed Locator.
type FileLocator struct{}

// NewFileLocator returns a Locator reading from the local filesystem.
func NewFileLocator() FileLocator { return FileLocator{} }

// Exists reports whether dir/name is present and is not a directory.
func (FileLocator) Exists(dir, name string) bool {
	fi, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		return false
	}
	return !fi.IsDir()
}

// ReadAll returns the contents of dir/name, or ErrNotFound when the file is
// absent or cannot be read.
func (l FileLocator) ReadAll(dir, name string) ([]byte, error) {
	const op = "rates.FileLocator.ReadAll"

	path := filepath.Join(dir, name)
	if !l.Exists(dir, name) {
		return nil, errors.Wrapf(ErrNotFound, "%s: %s", op, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "%s: %s: %v", op, path, err)
	}
	return b, nil
}
