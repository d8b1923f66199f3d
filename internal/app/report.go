package app

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"cleardir/internal/cleardir"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

// ColorEnabled reports whether ANSI colors should be written to f.
func ColorEnabled(f *os.File, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ConsoleReporter implements cleardir.Reporter for a terminal. Status lines
// go to out and errors to errOut.
type ConsoleReporter struct {
	out    io.Writer
	errOut io.Writer
	color  bool
	dryRun bool
}

// NewConsoleReporter creates a new console reporter.
func NewConsoleReporter(out, errOut io.Writer, color bool) *ConsoleReporter {
	return &ConsoleReporter{out: out, errOut: errOut, color: color}
}

func (r *ConsoleReporter) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + colorReset
}

func (r *ConsoleReporter) Options(opts cleardir.Options, paths []string) {
	r.dryRun = opts.DryRun

	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = strconv.Quote(p)
	}

	fmt.Fprintf(r.out, "%s %s\n", r.paint(colorGreen, `Command line option "verbose" set?`), r.paint(colorYellow, strconv.FormatBool(opts.Verbose)))
	fmt.Fprintf(r.out, "%s %s\n", r.paint(colorGreen, `Command line option "dry-run" set?`), r.paint(colorYellow, strconv.FormatBool(opts.DryRun)))
	fmt.Fprintf(r.out, "%s [%s]\n", r.paint(colorGreen, "Which paths to search?"), strings.Join(quoted, ", "))
}

func (r *ConsoleReporter) NoPaths() {
	fmt.Fprintln(r.out, "No paths given. Exiting.")
}

func (r *ConsoleReporter) DirectoryStart(dir string) {
	fmt.Fprintf(r.out, "%s %s\n", r.paint(colorGreen, "Searching for duplicates in directory:"), r.paint(colorGreen+colorBold, dir))
}

func (r *ConsoleReporter) Skipped(path string, reason cleardir.SkipReason) {
	switch reason {
	case cleardir.SkipDirectory:
		fmt.Fprintf(r.out, "(ignoring directory: %s)\n", path)
	case cleardir.SkipIgnored:
		fmt.Fprintf(r.out, "(ignoring %s: matches an ignore pattern)\n", path)
	default:
		fmt.Fprintf(r.out, "(ignoring %s: %s)\n", reason, path)
	}
}

func (r *ConsoleReporter) FileHashed(path, digest string, duplicate bool) {
	if duplicate {
		fmt.Fprintf(r.out, "%s => %s %s\n", path, digest, r.paint(colorRed, "(dup!)"))
		return
	}
	fmt.Fprintf(r.out, "%s => %s\n", path, digest)
}

// DigestMap prints every digest of the scan followed by its members.
func (r *ConsoleReporter) DigestMap(result *cleardir.ScanResult) {
	fmt.Fprintln(r.out, "{")
	for _, digest := range result.Digests() {
		fmt.Fprintf(r.out, "    %q: [\n", digest)
		for _, path := range result.Groups[digest] {
			fmt.Fprintf(r.out, "        %q,\n", path)
		}
		fmt.Fprintln(r.out, "    ],")
	}
	fmt.Fprintln(r.out, "}")
}

func (r *ConsoleReporter) Deleting(path string, _ bool) {
	fmt.Fprintf(r.out, "I want to delete %s\n", path)
}

// Summary renders one table row per processed directory.
func (r *ConsoleReporter) Summary(reports []*cleardir.DirectoryReport) {
	if len(reports) == 0 {
		return
	}

	removed := "Deleted"
	if r.dryRun {
		removed = "Would delete"
	}

	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"Directory", "Files", "Groups", removed, "Reclaimed", "Status"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, rep := range reports {
		status := "ok"
		if rep.Err != nil {
			status = "error"
		} else if len(rep.EntryErrors) > 0 {
			status = fmt.Sprintf("%d skipped", len(rep.EntryErrors))
		}
		table.Append([]string{
			rep.Dir,
			strconv.Itoa(rep.Files),
			strconv.Itoa(rep.DuplicateGroups),
			strconv.Itoa(rep.Removed()),
			formatSize(rep.BytesReclaimed()),
			status,
		})
	}

	table.Render()
}

func (r *ConsoleReporter) Error(err error) {
	fmt.Fprintf(r.errOut, "%s %s\n", r.paint(colorRed, "Error:"), r.paint(colorYellow, err.Error()))
}

// RenderHistory writes the journaled runs as a table.
func (r *ConsoleReporter) RenderHistory(runs []*cleardir.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(r.out, "No runs recorded.")
		return
	}

	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"Run", "Started", "Paths", "Mode", "Status", "Deleted", "Failed", "Duration"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, run := range runs {
		mode := "delete"
		if run.DryRun {
			mode = "dry-run"
		}
		duration := "-"
		if run.Finished() {
			duration = run.FinishedAt.Sub(run.StartedAt).Truncate(time.Millisecond).String()
		}
		table.Append([]string{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			strings.Join(run.Paths, ", "),
			mode,
			run.Status,
			strconv.Itoa(run.Deleted),
			strconv.Itoa(run.Failed),
			duration,
		})
	}

	table.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// Compile-time check
var _ cleardir.Reporter = (*ConsoleReporter)(nil)
