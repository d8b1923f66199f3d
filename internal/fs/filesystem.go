package fs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"cleardir/internal/cleardir"
)

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
type OSFilesystemManager struct {
	patterns []string
	ignore   *IgnoreMatcher

	// per-directory matchers built from each directory's ignore file
	dirIgnore map[string]*IgnoreMatcher
}

// NewOSFilesystemManager creates a filesystem manager that operates on the
// real filesystem. Entries whose base name matches one of ignorePatterns are
// never hashed nor deleted.
func NewOSFilesystemManager(ignorePatterns []string) *OSFilesystemManager {
	return &OSFilesystemManager{
		patterns:  ignorePatterns,
		ignore:    NewIgnoreMatcher(ignorePatterns),
		dirIgnore: make(map[string]*IgnoreMatcher),
	}
}

// ListDir returns the entry names of dir in the order the OS reports them.
// It also loads the directory's ignore file, if any.
func (m *OSFilesystemManager) ListDir(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: syscall.ENOTDIR}
	}

	extra, err := ParseIgnoreFile(filepath.Join(dir, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	if len(extra) > 0 {
		m.dirIgnore[filepath.Clean(dir)] = NewIgnoreMatcher(append(append([]string(nil), m.patterns...), extra...))
	}

	// Readdirnames does not sort, unlike os.ReadDir.
	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Lstat returns file info for path without following symbolic links.
func (m *OSFilesystemManager) Lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Remove deletes a single file.
func (m *OSFilesystemManager) Remove(path string) error {
	return os.Remove(path)
}

// IsIgnored reports whether the base name of path matches a configured
// pattern or one listed in the ignore file of its directory.
func (m *OSFilesystemManager) IsIgnored(path string) bool {
	if dm, ok := m.dirIgnore[filepath.Dir(path)]; ok {
		return dm.Match(path)
	}
	return m.ignore.Match(path)
}

// Compile-time check that OSFilesystemManager implements cleardir.FilesystemManager
var _ cleardir.FilesystemManager = (*OSFilesystemManager)(nil)
