package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cleardir/internal/cleardir"
	"cleardir/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteJournal implements cleardir.Journal on top of SQLite.
type SQLiteJournal struct {
	db   *sql.DB
	path string
}

// NewSQLiteJournal opens the journal at path, or ":memory:", and migrates
// it to the latest schema.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}
	if err := migrations.CheckDBMigrationStatus(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema out of date: %w", err)
	}

	return &SQLiteJournal{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite database connection.
// path can be a file path or ":memory:" for an in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// StartRun records a new run.
func (j *SQLiteJournal) StartRun(run *cleardir.Run) error {
	if run.ID == "" {
		return errors.New("run ID required")
	}
	paths, err := json.Marshal(run.Paths)
	if err != nil {
		return fmt.Errorf("encoding paths: %w", err)
	}

	_, err = j.db.Exec(
		`INSERT INTO runs (id, started_at, paths, dry_run, status) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), string(paths), run.DryRun, run.Status,
	)
	if err != nil {
		return fmt.Errorf("creating run: %w", err)
	}
	return nil
}

// RecordDeletion records one removed, or would-be removed, file.
func (j *SQLiteJournal) RecordDeletion(runID string, d cleardir.Deletion) error {
	_, err := j.db.Exec(
		`INSERT INTO deletions (run_id, path, digest, kept_path, size, dry_run) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, d.Path, d.Digest, d.Kept, d.Size, d.DryRun,
	)
	if err != nil {
		return fmt.Errorf("recording deletion: %w", err)
	}
	return nil
}

// FinishRun closes a run with its final status and counts.
func (j *SQLiteJournal) FinishRun(runID string, finishedAt time.Time, status string, deleted, failed int) error {
	res, err := j.db.Exec(
		`UPDATE runs SET finished_at = ?, status = ?, deleted = ?, failed = ? WHERE id = ?`,
		finishedAt.UTC(), status, deleted, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finishing run: unknown run %s", runID)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (j *SQLiteJournal) ListRuns(limit int) ([]*cleardir.Run, error) {
	rows, err := j.db.Query(
		`SELECT id, started_at, finished_at, paths, dry_run, status, deleted, failed
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*cleardir.Run
	for rows.Next() {
		var (
			run      cleardir.Run
			finished sql.NullTime
			paths    string
		)
		if err := rows.Scan(&run.ID, &run.StartedAt, &finished, &paths, &run.DryRun, &run.Status, &run.Deleted, &run.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if finished.Valid {
			run.FinishedAt = finished.Time
		}
		if err := json.Unmarshal([]byte(paths), &run.Paths); err != nil {
			return nil, fmt.Errorf("decoding paths of run %s: %w", run.ID, err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// ListDeletions returns the files recorded for a run in recording order.
func (j *SQLiteJournal) ListDeletions(runID string) ([]cleardir.Deletion, error) {
	rows, err := j.db.Query(
		`SELECT path, digest, kept_path, size, dry_run FROM deletions WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing deletions: %w", err)
	}
	defer rows.Close()

	var deletions []cleardir.Deletion
	for rows.Next() {
		var d cleardir.Deletion
		if err := rows.Scan(&d.Path, &d.Digest, &d.Kept, &d.Size, &d.DryRun); err != nil {
			return nil, fmt.Errorf("scanning deletion: %w", err)
		}
		deletions = append(deletions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing deletions: %w", err)
	}
	return deletions, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (j *SQLiteJournal) Path() string {
	return j.path
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteJournal implements cleardir.Journal
var _ cleardir.Journal = (*SQLiteJournal)(nil)
