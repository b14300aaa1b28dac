package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wally-mageia/tidy-rpm-cache/pkg/model"
)

func fooGroup() Group {
	// deliberately unsorted
	return Group{
		Key: model.IdentityKey{Name: "foo", Arch: "x86_64"},
		Records: []model.PackageRecord{
			fakeRecord("foo", "x86_64", "1.1", "1"),
			fakeRecord("foo", "x86_64", "2.0", "1"),
			fakeRecord("foo", "x86_64", "1.0", "1"),
			fakeRecord("foo", "x86_64", "1.2", "1"),
		},
	}
}

func versions(recs []model.PackageRecord) []string {
	out := make([]string, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.VR())
	}
	return out
}

func TestPartitionRetainNewestOnly(t *testing.T) {
	retained, obsolete := Partition(fooGroup(), 0)
	assert.Equal(t, []string{"2.0-1"}, versions(retained))
	assert.Equal(t, []string{"1.2-1", "1.1-1", "1.0-1"}, versions(obsolete))
}

func TestPartitionRetainOneObsolete(t *testing.T) {
	retained, obsolete := Partition(fooGroup(), 1)
	assert.Equal(t, []string{"2.0-1", "1.2-1"}, versions(retained))
	assert.Equal(t, []string{"1.1-1", "1.0-1"}, versions(obsolete))
}

func TestPartitionSoleVersionNeverObsolete(t *testing.T) {
	g := Group{
		Key:     model.IdentityKey{Name: "bar"},
		Records: []model.PackageRecord{fakeRecord("bar", "noarch", "1.0", "1")},
	}
	retained, obsolete := Partition(g, 0)
	assert.Len(t, retained, 1)
	assert.Empty(t, obsolete)
}

func TestPartitionCounts(t *testing.T) {
	g := fooGroup()
	for retention := 0; retention < len(g.Records)+2; retention++ {
		retained, obsolete := Partition(g, retention)
		expected := retention + 1
		if expected > len(g.Records) {
			expected = len(g.Records)
		}
		assert.Len(t, retained, expected, "retention %d", retention)
		assert.Equal(t, len(g.Records), len(retained)+len(obsolete), "retention %d", retention)
	}
}

func TestPartitionIdempotent(t *testing.T) {
	g := fooGroup()
	r1, o1 := Partition(g, 1)
	r2, o2 := Partition(g, 1)
	assert.Equal(t, r1, r2)
	assert.Equal(t, o1, o2)
}

func TestPartitionStableOnTies(t *testing.T) {
	// same version twice (e.g. the same package in two search dirs):
	// ties keep their relative input order
	g := Group{
		Key: model.IdentityKey{Name: "dup"},
		Records: []model.PackageRecord{
			{Name: "dup", Version: "1.0", Release: "1", Path: "/a/dup-1.0-1.noarch.rpm", Size: model.UnknownSize},
			{Name: "dup", Version: "1.0", Release: "1", Path: "/b/dup-1.0-1.noarch.rpm", Size: model.UnknownSize},
			{Name: "dup", Version: "2.0", Release: "1", Path: "/a/dup-2.0-1.noarch.rpm", Size: model.UnknownSize},
		},
	}
	retained, obsolete := Partition(g, 0)
	require.Len(t, retained, 1)
	assert.Equal(t, "/a/dup-2.0-1.noarch.rpm", retained[0].Path)
	require.Len(t, obsolete, 2)
	assert.Equal(t, "/a/dup-1.0-1.noarch.rpm", obsolete[0].Path)
	assert.Equal(t, "/b/dup-1.0-1.noarch.rpm", obsolete[1].Path)
}

func TestPartitionHonorsEpoch(t *testing.T) {
	one := int64(1)
	g := Group{
		Key: model.IdentityKey{Name: "epo"},
		Records: []model.PackageRecord{
			{Name: "epo", Version: "9.0", Release: "1", Path: "/cache/epo-9.0-1.noarch.rpm", Size: model.UnknownSize},
			{Name: "epo", Epoch: &one, Version: "1.0", Release: "1", Path: "/cache/epo-1:1.0-1.noarch.rpm", Size: model.UnknownSize},
		},
	}
	retained, obsolete := Partition(g, 0)
	require.Len(t, retained, 1)
	assert.Equal(t, "1.0", retained[0].Version, "epoch outranks version")
	require.Len(t, obsolete, 1)
	assert.Equal(t, "9.0", obsolete[0].Version)
}
