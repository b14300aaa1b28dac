package core

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wally-mageia/tidy-rpm-cache/pkg/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func tidyTestFS(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	for pth, size := range map[string]int{
		"/cache/foo-1.0-1.x86_64.rpm": 100,
		"/cache/foo-1.1-1.x86_64.rpm": 110,
		"/cache/foo-1.2-1.x86_64.rpm": 120,
		"/cache/foo-2.0-1.x86_64.rpm": 200,
		"/cache/bar-3.0-1.noarch.rpm": 300,
		"/cache/sub/bar-3.1-1.noarch.rpm": 310,
	} {
		require.NoError(t, afero.WriteFile(fs, pth, []byte(strings.Repeat("x", size)), 0o644))
	}
	return fs
}

func TestFindObsolete(t *testing.T) {
	res, err := FindObsolete(context.Background(), []string{"/cache"},
		WithFilesystem(tidyTestFS(t)),
	)
	require.NoError(t, err)

	assert.Equal(t, 6, res.TotalFound)
	assert.Empty(t, res.FileErrors)

	// identity-sorted group order, newest first within a group
	assert.Equal(t, []string{
		"/cache/bar-3.0-1.noarch.rpm",
		"/cache/foo-1.2-1.x86_64.rpm",
		"/cache/foo-1.1-1.x86_64.rpm",
		"/cache/foo-1.0-1.x86_64.rpm",
	}, res.ObsoletePaths)
	assert.Equal(t, int64(300+120+110+100), res.TotalObsoleteBytes)

	require.Len(t, res.Summaries, 2)
	assert.Equal(t, "bar.noarch", res.Summaries[0].Key.String())
	assert.Equal(t, "foo.x86_64", res.Summaries[1].Key.String())

	foo := res.Summaries[1]
	require.Len(t, foo.Entries, 4)
	assert.Equal(t, ActionKeep, foo.Entries[0].Action)
	assert.Equal(t, "2.0-1", foo.Entries[0].VR())
	for _, e := range foo.Entries[1:] {
		assert.Equal(t, ActionDelete, e.Action)
	}
	// sizes filled in for display
	assert.Equal(t, int64(200), foo.Entries[0].Size)
}

func TestFindObsoleteWithRetention(t *testing.T) {
	res, err := FindObsolete(context.Background(), []string{"/cache"},
		WithFilesystem(tidyTestFS(t)),
		WithRetention(1),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/cache/foo-1.1-1.x86_64.rpm",
		"/cache/foo-1.0-1.x86_64.rpm",
	}, res.ObsoletePaths)
	require.Len(t, res.Summaries, 1, "bar group fully retained with retention 1")
}

func TestFindObsoleteNothingToDo(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cache/solo-1.0-1.noarch.rpm", []byte("x"), 0o644))

	res, err := FindObsolete(context.Background(), []string{"/cache"}, WithFilesystem(fs))
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalFound)
	assert.Empty(t, res.ObsoletePaths)
	assert.Empty(t, res.Summaries)
}

func TestFindObsoleteFileErrors(t *testing.T) {
	fs := tidyTestFS(t)
	// a filename the extractor cannot parse
	require.NoError(t, afero.WriteFile(fs, "/cache/garbage.rpm", []byte("x"), 0o644))

	res, err := FindObsolete(context.Background(), []string{"/cache"}, WithFilesystem(fs))
	require.NoError(t, err, "file errors never abort the run")

	assert.Equal(t, 7, res.TotalFound)
	require.Len(t, res.FileErrors, 1)
	assert.Contains(t, res.FileErrors[0], "garbage.rpm")
	assert.NotContains(t, res.ObsoletePaths, "/cache/garbage.rpm")
	for _, s := range res.Summaries {
		for _, e := range s.Entries {
			assert.NotContains(t, e.Path, "garbage")
		}
	}
}

func TestFindObsoleteIgnoreArch(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, pth := range []string{
		"/cache/lib-1.0-1.x86_64.rpm",
		"/cache/lib-2.0-1.i586.rpm",
	} {
		require.NoError(t, afero.WriteFile(fs, pth, []byte("x"), 0o644))
	}

	// arch-sensitive: two groups of one, nothing obsolete
	res, err := FindObsolete(context.Background(), []string{"/cache"}, WithFilesystem(fs))
	require.NoError(t, err)
	assert.Empty(t, res.ObsoletePaths)

	// merged: the x86_64 build is superseded by the newer i586 one
	res, err = FindObsolete(context.Background(), []string{"/cache"},
		WithFilesystem(fs),
		WithArchSensitive(false),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"/cache/lib-1.0-1.x86_64.rpm"}, res.ObsoletePaths)
}

func TestFindObsoleteExcludes(t *testing.T) {
	res, err := FindObsolete(context.Background(), []string{"/cache"},
		WithFilesystem(tidyTestFS(t)),
		WithExcludes(regexp.MustCompile(`^foo`)),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalFound)
	assert.Equal(t, []string{"/cache/bar-3.0-1.noarch.rpm"}, res.ObsoletePaths)
}

func TestFindObsoleteParallel(t *testing.T) {
	for _, parallel := range []int{1, 2, 16} {
		res, err := FindObsolete(context.Background(), []string{"/cache"},
			WithFilesystem(tidyTestFS(t)),
			WithParallel(parallel),
		)
		require.NoError(t, err)
		// deterministic regardless of extraction concurrency
		assert.Equal(t, []string{
			"/cache/bar-3.0-1.noarch.rpm",
			"/cache/foo-1.2-1.x86_64.rpm",
			"/cache/foo-1.1-1.x86_64.rpm",
			"/cache/foo-1.0-1.x86_64.rpm",
		}, res.ObsoletePaths, "parallel=%d", parallel)
	}
}

func TestFindObsoleteMissingDir(t *testing.T) {
	_, err := FindObsolete(context.Background(), []string{"/nowhere"},
		WithFilesystem(afero.NewMemMapFs()),
	)
	require.Error(t, err)
}

func TestAccumulateSizeLookupFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cache/ok-1.0-1.noarch.rpm", []byte("0123456789"), 0o644))

	obsolete := []model.PackageRecord{
		model.NewPackageRecord("ok", "noarch", "1.0", "1", "/cache/ok-1.0-1.noarch.rpm"),
		model.NewPackageRecord("gone", "noarch", "1.0", "1", "/cache/gone-1.0-1.noarch.rpm"),
	}

	var res model.RunResult
	Accumulate(&res, obsolete, WithFilesystem(fs))

	// the unsizable file still shows up for deletion, contributing zero bytes
	assert.Equal(t, []string{
		"/cache/ok-1.0-1.noarch.rpm",
		"/cache/gone-1.0-1.noarch.rpm",
	}, res.ObsoletePaths)
	assert.Equal(t, int64(10), res.TotalObsoleteBytes)
}
