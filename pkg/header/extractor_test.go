package header

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wally-mageia/tidy-rpm-cache/pkg/errors"
)

func TestParseNEVRA(t *testing.T) {
	for _, tc := range []struct {
		base     string
		name     string
		arch     string
		epoch    *int64
		version  string
		release  string
		wantsErr bool
	}{
		{base: "foo-1.0-1.x86_64.rpm", name: "foo", arch: "x86_64", version: "1.0", release: "1"},
		{base: "foo-bar-baz-1.2.3-4.fc30.noarch.rpm", name: "foo-bar-baz", arch: "noarch", version: "1.2.3", release: "4.fc30"},
		{base: "kernel-5.3-1.src.rpm", name: "kernel", arch: "src", version: "5.3", release: "1"},
		{base: "foo-2:1.0-1.i586.rpm", name: "foo", arch: "i586", epoch: func() *int64 { e := int64(2); return &e }(), version: "1.0", release: "1"},
		{base: "foo-1.0~rc1-1.x86_64.rpm", name: "foo", arch: "x86_64", version: "1.0~rc1", release: "1"},
		{base: "notanrpm", wantsErr: true},
		{base: "foo.rpm", wantsErr: true},
		{base: "foo-1.0.rpm", wantsErr: true},
		{base: "foo-x:1.0-1.i586.rpm", wantsErr: true},
		{base: "-1.0-1.x86_64.rpm", wantsErr: true},
	} {
		tc := tc
		t.Run(tc.base, func(t *testing.T) {
			name, arch, epoch, version, release, err := parseNEVRA(tc.base)
			if tc.wantsErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedName))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.name, name)
			assert.Equal(t, tc.arch, arch)
			assert.Equal(t, tc.version, version)
			assert.Equal(t, tc.release, release)
			if tc.epoch == nil {
				assert.Nil(t, epoch)
			} else {
				require.NotNil(t, epoch)
				assert.Equal(t, *tc.epoch, *epoch)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cache/foo-1.0-1.x86_64.rpm", []byte("fake"), 0o644))
	mtime := time.Date(2019, 9, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, fs.Chtimes("/cache/foo-1.0-1.x86_64.rpm", mtime, mtime))

	x := NewFilenameExtractor(fs)
	rec, err := x.Extract(context.Background(), "/cache/foo-1.0-1.x86_64.rpm")
	require.NoError(t, err)
	assert.Equal(t, "foo", rec.Name)
	assert.Equal(t, "x86_64", rec.Arch)
	assert.Equal(t, "1.0", rec.Version)
	assert.Equal(t, "1", rec.Release)
	assert.Equal(t, "/cache/foo-1.0-1.x86_64.rpm", rec.Path)
	assert.True(t, mtime.Equal(rec.BuildTime))
	assert.Less(t, rec.Size, int64(0), "size is computed lazily")
}

func TestExtractMissingFile(t *testing.T) {
	x := NewFilenameExtractor(afero.NewMemMapFs())
	_, err := x.Extract(context.Background(), "/cache/foo-1.0-1.x86_64.rpm")
	require.Error(t, err)
}
