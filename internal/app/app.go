package app

import (
	"context"
	"fmt"
	"os"

	"cleardir/internal/cleardir"
	"cleardir/internal/config"
	"cleardir/internal/database"
	"cleardir/internal/fs"
)

// App is the application layer between the CLI and the cleardir Service.
// It constructs all dependencies from config and closes the journal and
// log file on Close.
type App struct {
	cfg      *config.Config
	journal  cleardir.Journal
	reporter *ConsoleReporter
	service  *cleardir.Service
	logFile  *os.File
}

// NewApp creates a fully wired App from the given config.
// The caller must call Close when done.
func NewApp(cfg *config.Config, reporter *ConsoleReporter) (*App, error) {
	fsmgr := fs.NewOSFilesystemManager(cfg.Filesystem.Ignore)

	journal, err := database.NewJournalFromConfig(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("creating journal: %w", err)
	}

	var logger cleardir.Logger = cleardir.NewNopLogger()
	var logFile *os.File
	if cfg.LogDir != "" {
		l, f, err := newLogger(cfg.LogDir)
		if err != nil {
			journal.Close()
			return nil, fmt.Errorf("creating logger: %w", err)
		}
		logger = &slogAdapter{l: l}
		logFile = f
	}

	svc := cleardir.NewService(fsmgr, reporter, journal, logger, cleardir.RealClock{}, cleardir.UUIDGenerator{})

	return &App{
		cfg:      cfg,
		journal:  journal,
		reporter: reporter,
		service:  svc,
		logFile:  logFile,
	}, nil
}

// Run deduplicates every path. Switches set in the config file are enabled
// in addition to the ones passed in opts.
func (a *App) Run(ctx context.Context, opts cleardir.Options, paths []string) (*cleardir.RunReport, error) {
	opts.Verbose = opts.Verbose || a.cfg.Verbose
	opts.DryRun = opts.DryRun || a.cfg.DryRun
	return a.service.Run(ctx, opts, paths)
}

// History prints the most recent journaled runs.
func (a *App) History(limit int) error {
	runs, err := a.journal.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	a.reporter.RenderHistory(runs)
	return nil
}

// Close closes the journal and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.journal.Close(); err != nil {
		firstErr = fmt.Errorf("closing journal: %w", err)
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}
