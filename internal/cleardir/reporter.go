package cleardir

// Reporter receives the human-readable progress of a run. Verbose-only
// events are only emitted when Options.Verbose is set; the reporter does not
// need to filter them again.
type Reporter interface {
	// Options echoes the parsed switches and target paths (verbose).
	Options(opts Options, paths []string)

	// NoPaths is emitted when a run is started without target paths.
	NoPaths()

	// DirectoryStart is emitted once a directory has been opened for scanning.
	DirectoryStart(dir string)

	// Skipped reports an entry that is not hashed (verbose).
	Skipped(path string, reason SkipReason)

	// FileHashed reports one hashed file. duplicate is true when the digest
	// already had at least one member.
	FileHashed(path, digest string, duplicate bool)

	// DigestMap dumps the complete scan result (verbose).
	DigestMap(result *ScanResult)

	// Deleting reports an intended deletion (verbose).
	Deleting(path string, dryRun bool)

	// Summary reports the per-directory totals at the end of a run (verbose).
	Summary(reports []*DirectoryReport)

	// Error reports a non-fatal failure.
	Error(err error)
}

// SkipReason explains why a directory entry was not hashed.
type SkipReason int

const (
	SkipDirectory SkipReason = iota
	SkipSpecial
	SkipIgnored
	SkipSymlink
)

func (r SkipReason) String() string {
	switch r {
	case SkipDirectory:
		return "directory"
	case SkipSpecial:
		return "special file"
	case SkipIgnored:
		return "ignored"
	case SkipSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}
