package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cleardir/internal/cleardir"
)

// LogFileName is the file created inside log_dir.
const LogFileName = "cleardir.log"

// runIDKey is lifted out of the attributes into its own column.
const runIDKey = "run_id"

// logHandler is a slog.Handler that appends one tab-separated line per record:
//
//	<timestamp>\t<level>\t<runID>\t<message>\t<key=value ...>
//
// Records logged outside a run carry "-" as run ID.
type logHandler struct {
	w     io.Writer
	runID string
	attrs []slog.Attr
}

func newLogHandler(w io.Writer) *logHandler {
	return &logHandler{w: w, runID: "-"}
}

func (h *logHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *logHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")

	_, err := fmt.Fprintf(h.w, "%s\t%s\t%s\t%s", ts, r.Level.String(), h.runID, r.Message)
	if err != nil {
		return err
	}

	for _, a := range h.attrs {
		fmt.Fprintf(h.w, "\t%s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(h.w, "\t%s=%v", a.Key, a.Value)
		return true
	})

	_, err = fmt.Fprintln(h.w)
	return err
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &logHandler{
		w:     h.w,
		runID: h.runID,
		attrs: append([]slog.Attr{}, h.attrs...),
	}
	for _, a := range attrs {
		if a.Key == runIDKey {
			next.runID = a.Value.String()
			continue
		}
		next.attrs = append(next.attrs, a)
	}
	return next
}

func (h *logHandler) WithGroup(string) slog.Handler { return h }

// newLogger creates a structured logger appending to logDir/cleardir.log.
// Console output is left to the reporter, so nothing is mirrored to stderr.
// It returns the slog.Logger, the open log file (for cleanup), and any error.
func newLogger(logDir string) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, LogFileName)
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	return slog.New(newLogHandler(f)), f, nil
}

// slogAdapter wraps *slog.Logger to satisfy the cleardir.Logger interface.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }

func (a *slogAdapter) With(args ...any) cleardir.Logger {
	return &slogAdapter{l: a.l.With(args...)}
}
