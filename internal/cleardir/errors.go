package cleardir

import "fmt"

// DirectoryError reports that a target path could not be read as a directory.
// It is fatal for that path only.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("reading directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// EntryError reports a single directory entry that could not be inspected.
// The entry is skipped and the scan continues.
type EntryError struct {
	Path string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("inspecting %s: %v", e.Path, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// HashError reports a failure to open or read a file while computing its
// digest. It aborts the scan of the enclosing directory.
type HashError struct {
	Path string
	Err  error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("hashing %s: %v", e.Path, e.Err)
}

func (e *HashError) Unwrap() error { return e.Err }

// DeleteError reports a failure to remove one duplicate.
type DeleteError struct {
	Path string
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("deleting %s: %v", e.Path, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }
