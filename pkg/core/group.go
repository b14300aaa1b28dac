package core

import (
	"path/filepath"
	"sort"

	"github.com/wally-mageia/tidy-rpm-cache/pkg/model"
)

// Group is an ordered collection of package records sharing one identity key.
type Group struct {
	Key     model.IdentityKey
	Records []model.PackageRecord
}

// GroupByIdentity partitions records into one group per distinct identity
// key. Input order is irrelevant: records are sorted by identity key with the
// base filename as a stable tiebreak, so the grouping is deterministic. The
// input slice is not modified.
//
// Every record lands in exactly one group.
func GroupByIdentity(records []model.PackageRecord, archSensitive bool) []Group {
	if len(records) == 0 {
		return nil
	}

	sorted := make([]model.PackageRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := sorted[i].Identity(archSensitive), sorted[j].Identity(archSensitive)
		if ki != kj {
			return ki.Less(kj)
		}
		return filepath.Base(sorted[i].Path) < filepath.Base(sorted[j].Path)
	})

	groups := make([]Group, 0, 8)
	last := -1
	for _, rec := range sorted {
		key := rec.Identity(archSensitive)
		if last < 0 || groups[last].Key != key {
			groups = append(groups, Group{Key: key})
			last++
		}
		groups[last].Records = append(groups[last].Records, rec)
	}

	return groups
}
