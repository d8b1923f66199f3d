package cleardir

import (
	"context"
	"errors"
	"unicode/utf8"
)

// GroupPlan is the decision for one digest group.
type GroupPlan struct {
	Digest string

	// Keep is the survivor. It is empty when no member could be considered.
	Keep string

	// Delete lists the members to remove, in encounter order.
	Delete []string

	// Excluded lists members whose path is not valid UTF-8. They take no
	// part in the length comparison and are never deleted.
	Excluded []string
}

// Plan decides survivors and deletions for every digest group of result
// that has more than one member. Groups are returned in first-seen order.
func Plan(result *ScanResult) []GroupPlan {
	var plans []GroupPlan
	for _, digest := range result.order {
		members := result.Groups[digest]
		if len(members) < 2 {
			continue
		}
		plans = append(plans, PlanGroup(digest, members))
	}
	return plans
}

// PlanGroup keeps the first member whose path string has the minimum length
// and marks every other member for deletion. Length is measured on the whole
// path as rendered, not on the base name.
func PlanGroup(digest string, members []string) GroupPlan {
	plan := GroupPlan{Digest: digest}

	shortest := -1
	for _, p := range members {
		if !utf8.ValidString(p) {
			continue
		}
		if shortest < 0 || len(p) < shortest {
			shortest = len(p)
		}
	}

	kept := false
	for _, p := range members {
		if !utf8.ValidString(p) {
			plan.Excluded = append(plan.Excluded, p)
			continue
		}
		if len(p) == shortest && !kept {
			plan.Keep = p
			kept = true
			continue
		}
		plan.Delete = append(plan.Delete, p)
	}
	return plan
}

// Deletion is one file removed, or that would have been removed, by a run.
type Deletion struct {
	Path   string
	Digest string
	Kept   string
	Size   int64
	DryRun bool
}

// ApplyResult summarises the execution of a set of plans.
type ApplyResult struct {
	Deletions []Deletion
	Failed    int
}

// BytesReclaimed returns the total size of the deleted files.
func (r *ApplyResult) BytesReclaimed() int64 {
	var total int64
	for _, d := range r.Deletions {
		total += d.Size
	}
	return total
}

// Deduplicator executes group plans against the filesystem.
type Deduplicator struct {
	fsmgr    FilesystemManager
	reporter Reporter
	logger   Logger
	opts     Options
}

// NewDeduplicator creates a Deduplicator bound to one set of options.
func NewDeduplicator(fsmgr FilesystemManager, reporter Reporter, logger Logger, opts Options) *Deduplicator {
	return &Deduplicator{
		fsmgr:    fsmgr,
		reporter: reporter,
		logger:   logger,
		opts:     opts,
	}
}

// Apply removes every path the plans mark for deletion, or only reports them
// in dry-run mode. A failed removal does not stop the remaining ones; all
// failures are returned joined. Cancelling ctx stops between removals.
func (d *Deduplicator) Apply(ctx context.Context, result *ScanResult, plans []GroupPlan) (*ApplyResult, error) {
	applied := &ApplyResult{}
	var errs []error

	for _, plan := range plans {
		for _, path := range plan.Delete {
			if err := ctx.Err(); err != nil {
				return applied, errors.Join(append(errs, err)...)
			}

			if d.opts.Verbose {
				d.reporter.Deleting(path, d.opts.DryRun)
			}

			if !d.opts.DryRun {
				if err := d.fsmgr.Remove(path); err != nil {
					delErr := &DeleteError{Path: path, Err: err}
					errs = append(errs, delErr)
					applied.Failed++
					d.logger.Error("deletion failed", "path", path, "error", err)
					continue
				}
				d.logger.Info("duplicate deleted", "path", path, "kept", plan.Keep, "digest", plan.Digest)
			}

			applied.Deletions = append(applied.Deletions, Deletion{
				Path:   path,
				Digest: plan.Digest,
				Kept:   plan.Keep,
				Size:   result.Sizes[path],
				DryRun: d.opts.DryRun,
			})
		}
	}

	return applied, errors.Join(errs...)
}
