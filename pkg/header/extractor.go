// Package header extracts package metadata from RPM files in a cache.
//
// The default extractor derives name, epoch, version, release and
// architecture from the filename, which for cache directories populated by
// package managers reliably follows the name-version-release.arch.rpm
// template. Callers needing full header parsing may plug in their own
// Extractor.
package header

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/wally-mageia/tidy-rpm-cache/pkg/errors"
	"github.com/wally-mageia/tidy-rpm-cache/pkg/model"
)

// ErrMalformedName indicates a filename that does not follow the
// name-version-release.arch.rpm template.
var ErrMalformedName = errors.New("malformed RPM filename")

// Extractor reads the package metadata for a file path.
//
// Implementations signal a read or parse failure through the returned error;
// such failures exclude the file from the obsolescence check but never abort
// a run.
type Extractor interface {
	Extract(ctx context.Context, pth string) (model.PackageRecord, error)
}

type filenameExtractor struct {
	fs afero.Fs
}

// NewFilenameExtractor builds the default, filename-based extractor.
// The file's modification time stands in for the package build time.
func NewFilenameExtractor(fs afero.Fs) Extractor {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &filenameExtractor{fs: fs}
}

func (e *filenameExtractor) Extract(ctx context.Context, pth string) (model.PackageRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.PackageRecord{}, err
	}

	name, arch, epoch, version, release, err := parseNEVRA(basename(pth))
	if err != nil {
		return model.PackageRecord{}, err
	}

	info, err := e.fs.Stat(pth)
	if err != nil {
		return model.PackageRecord{}, errors.New("unable to stat file").Wrap(err)
	}

	rec := model.NewPackageRecord(name, arch, version, release, pth)
	rec.Epoch = epoch
	rec.BuildTime = info.ModTime()
	return rec, nil
}

func basename(pth string) string {
	if i := strings.LastIndexAny(pth, `/\`); i >= 0 {
		return pth[i+1:]
	}
	return pth
}

// parseNEVRA splits a filename of the form name-[epoch:]version-release.arch.rpm.
// The package name itself may contain hyphens: version and release are the
// last two hyphen-separated fields.
func parseNEVRA(base string) (name, arch string, epoch *int64, version, release string, err error) {
	stem, ok := strings.CutSuffix(base, ".rpm")
	if !ok {
		err = ErrMalformedName.WrapMessage("%q: missing .rpm suffix", base)
		return
	}

	dot := strings.LastIndexByte(stem, '.')
	if dot <= 0 || dot == len(stem)-1 {
		err = ErrMalformedName.WrapMessage("%q: missing architecture", base)
		return
	}
	arch = stem[dot+1:]
	nvr := stem[:dot]

	relDash := strings.LastIndexByte(nvr, '-')
	if relDash < 0 {
		err = ErrMalformedName.WrapMessage("%q: missing release", base)
		return
	}
	release = nvr[relDash+1:]

	verDash := strings.LastIndexByte(nvr[:relDash], '-')
	if verDash < 0 {
		err = ErrMalformedName.WrapMessage("%q: missing version", base)
		return
	}
	version = nvr[verDash+1 : relDash]
	name = nvr[:verDash]

	if colon := strings.IndexByte(version, ':'); colon >= 0 {
		e, perr := strconv.ParseInt(version[:colon], 10, 64)
		if perr != nil {
			err = ErrMalformedName.WrapMessage("%q: invalid epoch: %w", base, perr)
			return
		}
		epoch = &e
		version = version[colon+1:]
	}

	if name == "" || version == "" || release == "" {
		err = ErrMalformedName.WrapMessage("%q: empty name, version or release", base)
	}
	return
}
