package engine

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/confdeck/confdeck/internal/fsutil"
)

// System abstracts the filesystem operations the engine needs. It is
// package-local so tests can inject deterministic copy and delete faults.
type System interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	MkdirAll(path string, perm os.FileMode) error
	Remove(name string) error
	CopyFile(src string, dst string) error
	WalkDir(root string, fn fs.WalkDirFunc) error
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct{}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove removes the named file or empty directory.
func (RealSystem) Remove(name string) error {
	return os.Remove(name)
}

// CopyFile copies src to dst preserving permissions and modification time.
func (RealSystem) CopyFile(src string, dst string) error {
	return fsutil.CopyFile(src, dst)
}

// WalkDir walks the file tree rooted at root.
func (RealSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}
