package cleardir

import (
	"context"
	"errors"
	"fmt"
)

// DirectoryReport is the outcome of processing one target path.
type DirectoryReport struct {
	Dir             string
	Files           int
	DuplicateGroups int
	Deletions       []Deletion
	EntryErrors     []error

	// Err is the failure that ended processing of this directory early, or
	// the joined deletion failures. Nil on success.
	Err error
}

// Removed returns the number of files deleted, or that would be deleted in
// a dry run.
func (r *DirectoryReport) Removed() int {
	return len(r.Deletions)
}

// BytesReclaimed returns the total size of the removed files.
func (r *DirectoryReport) BytesReclaimed() int64 {
	var total int64
	for _, d := range r.Deletions {
		total += d.Size
	}
	return total
}

// RunReport is the outcome of a whole invocation.
type RunReport struct {
	RunID       string
	Directories []*DirectoryReport
}

// Failed returns the number of directories that ended with an error.
func (r *RunReport) Failed() int {
	n := 0
	for _, d := range r.Directories {
		if d.Err != nil {
			n++
		}
	}
	return n
}

// Service drives the scan and deduplication of each target directory.
type Service struct {
	fsmgr    FilesystemManager
	reporter Reporter
	journal  Journal
	logger   Logger
	clock    Clock
	idgen    IDGenerator
}

// NewService creates a new Service with the provided dependencies.
func NewService(fsmgr FilesystemManager, reporter Reporter, journal Journal, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		fsmgr:    fsmgr,
		reporter: reporter,
		journal:  journal,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
	}
}

// Run processes every path in order. A failure in one directory is reported
// and processing moves on to the next; only journal failures and
// cancellation are returned.
func (s *Service) Run(ctx context.Context, opts Options, paths []string) (*RunReport, error) {
	if opts.Verbose {
		s.reporter.Options(opts, paths)
	}
	if len(paths) == 0 {
		s.reporter.NoPaths()
		return &RunReport{}, nil
	}

	run := &Run{
		ID:        s.idgen.New(),
		StartedAt: s.clock.Now(),
		Paths:     paths,
		DryRun:    opts.DryRun,
		Status:    RunStatusRunning,
	}
	if err := s.journal.StartRun(run); err != nil {
		return nil, fmt.Errorf("starting run: %w", err)
	}
	logger := s.logger.With("run_id", run.ID)
	logger.Info("run started", "paths", len(paths), "dry_run", opts.DryRun)

	report := &RunReport{RunID: run.ID}
	var journalErrs []error
	deleted, failed := 0, 0

	for _, dir := range paths {
		if ctx.Err() != nil {
			break
		}

		dr := s.processDirectory(ctx, logger, opts, dir)
		report.Directories = append(report.Directories, dr)

		for _, d := range dr.Deletions {
			if err := s.journal.RecordDeletion(run.ID, d); err != nil {
				journalErrs = append(journalErrs, fmt.Errorf("recording deletion of %s: %w", d.Path, err))
			}
		}
		deleted += dr.Removed()

		if dr.Err != nil {
			failed++
			if !errors.Is(dr.Err, context.Canceled) {
				s.reporter.Error(dr.Err)
			}
		}
	}

	if opts.Verbose {
		s.reporter.Summary(report.Directories)
	}

	status := RunStatusSuccess
	if failed > 0 || ctx.Err() != nil {
		status = RunStatusError
	}
	if err := s.journal.FinishRun(run.ID, s.clock.Now(), status, deleted, failed); err != nil {
		journalErrs = append(journalErrs, fmt.Errorf("finishing run: %w", err))
	}
	logger.Info("run finished", "status", status, "removed", deleted, "failed_directories", failed)

	if err := ctx.Err(); err != nil {
		journalErrs = append(journalErrs, err)
	}
	return report, errors.Join(journalErrs...)
}

// ProcessDirectory scans dir and removes its duplicates. Every failure is
// captured on the returned report; nothing is returned as an error.
func (s *Service) ProcessDirectory(ctx context.Context, opts Options, dir string) *DirectoryReport {
	return s.processDirectory(ctx, s.logger, opts, dir)
}

func (s *Service) processDirectory(ctx context.Context, logger Logger, opts Options, dir string) *DirectoryReport {
	report := &DirectoryReport{Dir: dir}

	scanner := NewScanner(s.fsmgr, s.reporter, logger, opts)
	result, err := scanner.Scan(ctx, dir)
	if err != nil {
		logger.Error("scan failed", "path", dir, "error", err)
		report.Err = err
		return report
	}

	report.Files = result.FileCount()
	report.DuplicateGroups = result.DuplicateGroups()
	report.EntryErrors = result.EntryErrors

	dedup := NewDeduplicator(s.fsmgr, s.reporter, logger, opts)
	applied, err := dedup.Apply(ctx, result, Plan(result))
	report.Deletions = applied.Deletions
	if err != nil {
		report.Err = err
	}
	return report
}
