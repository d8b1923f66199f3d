package testutil

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"syscall"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"cleardir/internal/cleardir"
	cfs "cleardir/internal/fs"
)

// MockFilesystemManager is an in-memory filesystem for testing, backed by
// a go-billy memfs. Failures can be injected per path and the listing
// order of a directory can be overridden to exercise tie-breaks.
type MockFilesystemManager struct {
	fs     billy.Filesystem
	ignore *cfs.IgnoreMatcher

	order      map[string][]string
	statErrs   map[string]error
	openErrs   map[string]error
	removeErrs map[string]error

	// Removed lists every successfully removed path, in order.
	Removed []string
}

// NewMockFilesystemManager creates a new, empty mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		fs:         memfs.New(),
		ignore:     cfs.NewIgnoreMatcher(nil),
		order:      make(map[string][]string),
		statErrs:   make(map[string]error),
		openErrs:   make(map[string]error),
		removeErrs: make(map[string]error),
	}
}

// AddFile adds a file, creating parent directories as needed.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	if err := util.WriteFile(m.fs, path, content, 0644); err != nil {
		panic(fmt.Sprintf("testutil: writing %s: %v", path, err))
	}
}

// AddDirectory adds a directory.
func (m *MockFilesystemManager) AddDirectory(path string) {
	if err := m.fs.MkdirAll(path, 0755); err != nil {
		panic(fmt.Sprintf("testutil: creating %s: %v", path, err))
	}
}

// AddSymlink adds a symbolic link at link pointing to target.
func (m *MockFilesystemManager) AddSymlink(target, link string) {
	if err := m.fs.Symlink(target, link); err != nil {
		panic(fmt.Sprintf("testutil: linking %s: %v", link, err))
	}
}

// SetOrder fixes the order in which ListDir reports the entries of dir.
// Names not present in the filesystem are still reported, which lets a test
// simulate an entry that vanished after the directory was read.
func (m *MockFilesystemManager) SetOrder(dir string, names ...string) {
	m.order[filepath.Clean(dir)] = names
}

// SetIgnore replaces the ignore patterns.
func (m *MockFilesystemManager) SetIgnore(patterns ...string) {
	m.ignore = cfs.NewIgnoreMatcher(patterns)
}

// FailStat makes Lstat of path return err.
func (m *MockFilesystemManager) FailStat(path string, err error) { m.statErrs[path] = err }

// FailOpen makes Open of path return err.
func (m *MockFilesystemManager) FailOpen(path string, err error) { m.openErrs[path] = err }

// FailRemove makes Remove of path return err.
func (m *MockFilesystemManager) FailRemove(path string, err error) { m.removeErrs[path] = err }

// Exists reports whether path is present.
func (m *MockFilesystemManager) Exists(path string) bool {
	_, err := m.fs.Stat(path)
	return err == nil
}

// ReadFile returns the content of path.
func (m *MockFilesystemManager) ReadFile(path string) ([]byte, error) {
	return util.ReadFile(m.fs, path)
}

// Files returns the regular files directly inside dir, sorted by name.
func (m *MockFilesystemManager) Files(dir string) []string {
	infos, err := m.fs.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, info := range infos {
		if !info.IsDir() {
			names = append(names, info.Name())
		}
	}
	return names
}

func (m *MockFilesystemManager) ListDir(dir string) ([]string, error) {
	info, err := m.fs.Stat(dir)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: dir, Err: fs.ErrNotExist}
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: syscall.ENOTDIR}
	}

	if names, ok := m.order[filepath.Clean(dir)]; ok {
		return append([]string(nil), names...), nil
	}

	infos, err := m.fs.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name()
	}
	return names, nil
}

func (m *MockFilesystemManager) Lstat(path string) (fs.FileInfo, error) {
	if err, ok := m.statErrs[path]; ok {
		return nil, &fs.PathError{Op: "lstat", Path: path, Err: err}
	}
	info, err := m.fs.Lstat(path)
	if err != nil {
		return nil, &fs.PathError{Op: "lstat", Path: path, Err: fs.ErrNotExist}
	}
	return info, nil
}

func (m *MockFilesystemManager) Open(path string) (io.ReadCloser, error) {
	if err, ok := m.openErrs[path]; ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}
	return m.fs.Open(path)
}

func (m *MockFilesystemManager) Remove(path string) error {
	if err, ok := m.removeErrs[path]; ok {
		return &fs.PathError{Op: "remove", Path: path, Err: err}
	}
	if err := m.fs.Remove(path); err != nil {
		return err
	}
	m.Removed = append(m.Removed, path)
	return nil
}

func (m *MockFilesystemManager) IsIgnored(path string) bool {
	return m.ignore.Match(path)
}

// Compile-time check
var _ cleardir.FilesystemManager = (*MockFilesystemManager)(nil)
