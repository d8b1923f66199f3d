package cleardir

// ScanResult is the digest map of one directory.
type ScanResult struct {
	// Dir is the directory as given by the caller.
	Dir string

	// Groups maps a lowercase hex SHA-256 digest to the paths that produced
	// it, in encounter order.
	Groups map[string][]string

	// Sizes records the size of every hashed file.
	Sizes map[string]int64

	// EntryErrors collects the entries that were skipped because they could
	// not be inspected.
	EntryErrors []error

	order []string
}

func newScanResult(dir string) *ScanResult {
	return &ScanResult{
		Dir:    dir,
		Groups: make(map[string][]string),
		Sizes:  make(map[string]int64),
	}
}

// add records path under digest and reports whether the digest already had
// a member.
func (r *ScanResult) add(path, digest string, size int64) bool {
	members, seen := r.Groups[digest]
	if !seen {
		r.order = append(r.order, digest)
	}
	r.Groups[digest] = append(members, path)
	r.Sizes[path] = size
	return seen
}

// Digests returns the digests in the order they were first seen.
func (r *ScanResult) Digests() []string {
	return append([]string(nil), r.order...)
}

// FileCount returns the number of hashed files.
func (r *ScanResult) FileCount() int {
	return len(r.Sizes)
}

// DuplicateGroups returns the number of digests shared by two or more files.
func (r *ScanResult) DuplicateGroups() int {
	n := 0
	for _, members := range r.Groups {
		if len(members) > 1 {
			n++
		}
	}
	return n
}
