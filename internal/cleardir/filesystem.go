package cleardir

import (
	"io"
	"io/fs"
)

// FilesystemManager abstracts the filesystem operations needed to scan and
// prune a single directory, so the core can run against an in-memory tree.
type FilesystemManager interface {
	// ListDir returns the names of the immediate entries of dir in the order
	// the underlying filesystem reports them. No sorting is applied.
	ListDir(dir string) ([]string, error)

	// Lstat returns file info for path. A symbolic link is described
	// itself, not followed.
	Lstat(path string) (fs.FileInfo, error)

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// Remove deletes a single file.
	Remove(path string) error

	// IsIgnored reports whether an entry should never be hashed or deleted.
	IsIgnored(path string) bool
}
