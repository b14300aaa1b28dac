package core

import (
	"sort"

	"github.com/wally-mageia/tidy-rpm-cache/pkg/model"
	"github.com/wally-mageia/tidy-rpm-cache/pkg/rpmver"
)

// Partition orders a group's records by version, newest first, and splits
// them into the retained set (the newest version plus up to retention older
// ones) and the obsolete set (everything else).
//
// The sort is stable: version ties keep their relative input order, so
// repeated calls yield identical partitions. A group of size retention+1 or
// smaller is retained in full; in particular the sole version of a package
// is never obsolete. The caller is responsible for coercing retention to a
// non-negative value.
func Partition(g Group, retention int) (retained, obsolete []model.PackageRecord) {
	ordered := make([]model.PackageRecord, len(g.Records))
	copy(ordered, g.Records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rpmver.Compare(ordered[i].VersionKey(), ordered[j].VersionKey()) > 0
	})

	keep := retention + 1
	if len(ordered) <= keep {
		return ordered, nil
	}
	return ordered[:keep], ordered[keep:]
}
