package cleardir

import "time"

// Run status values stored in the journal.
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusError   = "error"
)

// Run is one invocation of the deduplicator as recorded in the journal.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is in progress
	Paths      []string
	DryRun     bool
	Status     string
	Deleted    int
	Failed     int
}

// Finished reports whether the run has been closed.
func (r *Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Journal keeps an audit trail of runs and the files they removed.
type Journal interface {
	// StartRun records a new run. run.ID must be set.
	StartRun(run *Run) error

	// RecordDeletion records one removed, or would-be removed, file.
	RecordDeletion(runID string, d Deletion) error

	// FinishRun closes a run with its final status and counts.
	FinishRun(runID string, finishedAt time.Time, status string, deleted, failed int) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*Run, error)

	// ListDeletions returns the files recorded for a run in recording order.
	ListDeletions(runID string) ([]Deletion, error)

	// Close releases the journal's resources.
	Close() error
}

// NopJournal records nothing.
type NopJournal struct{}

func NewNopJournal() *NopJournal { return &NopJournal{} }

func (*NopJournal) StartRun(*Run) error                                 { return nil }
func (*NopJournal) RecordDeletion(string, Deletion) error               { return nil }
func (*NopJournal) FinishRun(string, time.Time, string, int, int) error { return nil }
func (*NopJournal) ListRuns(int) ([]*Run, error)                        { return nil, nil }
func (*NopJournal) ListDeletions(string) ([]Deletion, error)            { return nil, nil }
func (*NopJournal) Close() error                                        { return nil }
