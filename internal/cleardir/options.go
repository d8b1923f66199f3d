package cleardir

// Options carries the per-invocation switches. It is passed by value and
// never mutated once a run has started.
type Options struct {
	// Verbose enables detailed reporting: skipped entries, the digest map,
	// intended deletions and the run summary.
	Verbose bool

	// DryRun computes and reports deletions without touching the filesystem.
	DryRun bool
}
