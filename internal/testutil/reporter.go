package testutil

import "cleardir/internal/cleardir"

// Event is one call recorded by RecordingReporter.
type Event struct {
	Kind      string
	Path      string
	Digest    string
	Duplicate bool
	Reason    cleardir.SkipReason
	DryRun    bool
	Err       error
}

// RecordingReporter keeps every reporter call for later assertions.
type RecordingReporter struct {
	Events []Event

	Opts     *cleardir.Options
	Paths    []string
	Dumped   []*cleardir.ScanResult
	Reports  []*cleardir.DirectoryReport
	NoPathsN int
}

func NewRecordingReporter() *RecordingReporter {
	return &RecordingReporter{}
}

func (r *RecordingReporter) Options(opts cleardir.Options, paths []string) {
	r.Opts = &opts
	r.Paths = paths
	r.Events = append(r.Events, Event{Kind: "options"})
}

func (r *RecordingReporter) NoPaths() {
	r.NoPathsN++
	r.Events = append(r.Events, Event{Kind: "no-paths"})
}

func (r *RecordingReporter) DirectoryStart(dir string) {
	r.Events = append(r.Events, Event{Kind: "directory", Path: dir})
}

func (r *RecordingReporter) Skipped(path string, reason cleardir.SkipReason) {
	r.Events = append(r.Events, Event{Kind: "skipped", Path: path, Reason: reason})
}

func (r *RecordingReporter) FileHashed(path, digest string, duplicate bool) {
	r.Events = append(r.Events, Event{Kind: "hashed", Path: path, Digest: digest, Duplicate: duplicate})
}

func (r *RecordingReporter) DigestMap(result *cleardir.ScanResult) {
	r.Dumped = append(r.Dumped, result)
	r.Events = append(r.Events, Event{Kind: "digest-map", Path: result.Dir})
}

func (r *RecordingReporter) Deleting(path string, dryRun bool) {
	r.Events = append(r.Events, Event{Kind: "deleting", Path: path, DryRun: dryRun})
}

func (r *RecordingReporter) Summary(reports []*cleardir.DirectoryReport) {
	r.Reports = reports
	r.Events = append(r.Events, Event{Kind: "summary"})
}

func (r *RecordingReporter) Error(err error) {
	r.Events = append(r.Events, Event{Kind: "error", Err: err})
}

// Kinds returns the kind of every recorded event, in order.
func (r *RecordingReporter) Kinds() []string {
	kinds := make([]string, len(r.Events))
	for i, e := range r.Events {
		kinds[i] = e.Kind
	}
	return kinds
}

// Filter returns the events of one kind.
func (r *RecordingReporter) Filter(kind string) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// PathsOf returns the paths of the events of one kind.
func (r *RecordingReporter) PathsOf(kind string) []string {
	var out []string
	for _, e := range r.Filter(kind) {
		out = append(out, e.Path)
	}
	return out
}

// Errors returns the reported errors.
func (r *RecordingReporter) Errors() []error {
	var errs []error
	for _, e := range r.Filter("error") {
		errs = append(errs, e.Err)
	}
	return errs
}

// Compile-time check
var _ cleardir.Reporter = (*RecordingReporter)(nil)
