// Package core implements the obsolescence check for RPM cache directories:
// discovered package files are grouped by identity (name, and optionally
// architecture), each group is ordered by package version, and all but the
// newest version plus a configurable number of older ones are marked
// obsolete.
package core

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wally-mageia/tidy-rpm-cache/pkg/model"
	"github.com/wally-mageia/tidy-rpm-cache/pkg/scanner"
)

// Action tells what the retention policy decided for a package file.
type Action string

const (
	// ActionKeep marks a retained package file
	ActionKeep Action = "Keep"

	// ActionDelete marks an obsolete package file
	ActionDelete Action = "Delete"
)

// SummaryEntry is a single row in a package summary.
type SummaryEntry struct {
	model.PackageRecord `yaml:",inline"`

	Action Action `json:"action" yaml:"action"`
}

// PackageSummary describes the retention outcome for one package group with
// at least one obsolete member, newest version first.
//
// Architecture is reported per entry: when architectures are merged into a
// single group, a group-level architecture would be ambiguous.
type PackageSummary struct {
	Key     model.IdentityKey `json:"key" yaml:"key"`
	Entries []SummaryEntry    `json:"entries" yaml:"entries"`
}

// Result is the outcome of an obsolescence check.
type Result struct {
	model.RunResult `yaml:",inline"`

	// Summaries reports the groups in which obsolete files were found, in
	// identity key order.
	Summaries []PackageSummary `json:"summaries,omitempty" yaml:"summaries,omitempty"`
}

// FindObsolete scans the search directories for package files and determines
// which of them are superseded under the retention policy.
//
// Metadata extraction runs concurrently across files; per-file read failures
// are collected in the result and never abort the run. The filesystem is not
// modified.
func FindObsolete(ctx context.Context, dirs []string, opts ...TidyOption) (*Result, error) {
	o := defaultTidyOptions(opts)
	res := &Result{}

	paths, err := scanner.New(o.fs,
		scanner.WithSourcePackages(o.srpm),
		scanner.WithExcludes(o.excludes...),
		scanner.WithLogger(o.l),
	).Find(ctx, dirs)
	if err != nil {
		return nil, err
	}
	res.TotalFound = len(paths)
	o.l.Debug("scan complete", zap.Int("found", len(paths)))

	records, fileErrors := extractAll(ctx, o, paths)
	res.FileErrors = fileErrors

	for _, g := range GroupByIdentity(records, o.archSensitive) {
		retained, obsolete := Partition(g, o.retention)
		o.l.Debug("package group",
			zap.Stringer("package", g.Key),
			zap.Int("total", len(g.Records)),
			zap.Int("obsolete", len(obsolete)),
		)
		if len(obsolete) == 0 {
			continue
		}

		summary := PackageSummary{Key: g.Key}
		for i := range retained {
			if _, serr := o.fileSize(&retained[i]); serr != nil {
				o.l.Warn("size unknown for retained file", zap.Error(serr))
			}
			summary.Entries = append(summary.Entries, SummaryEntry{PackageRecord: retained[i], Action: ActionKeep})
		}

		accumulate(o, &res.RunResult, obsolete)
		for _, rec := range obsolete {
			summary.Entries = append(summary.Entries, SummaryEntry{PackageRecord: rec, Action: ActionDelete})
		}
		res.Summaries = append(res.Summaries, summary)
	}

	return res, nil
}

// extractAll reads package metadata for all paths, bounded by maxParallel.
// Each file's outcome lands in its own slot, and all reads complete before
// grouping starts. Failures are reported in path order.
func extractAll(ctx context.Context, o *tidyOptions, paths []string) ([]model.PackageRecord, []string) {
	slots := make([]model.PackageRecord, len(paths))
	failures := make([]error, len(paths))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.maxParallel)
	for k := range paths {
		k := k
		eg.Go(func() error {
			rec, err := o.extractor.Extract(gctx, paths[k])
			if err != nil {
				failures[k] = err
				return nil
			}
			slots[k] = rec
			return nil
		})
	}
	// barrier: grouping requires a complete view of all records
	_ = eg.Wait()

	records := make([]model.PackageRecord, 0, len(paths))
	var fileErrors []string
	for k := range paths {
		if failures[k] != nil {
			fileErrors = append(fileErrors, ErrMetadataRead.WrapMessage("%q: %w", paths[k], failures[k]).Error())
			continue
		}
		records = append(records, slots[k])
	}
	return records, fileErrors
}
