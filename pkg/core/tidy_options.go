package core

import (
	"regexp"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/wally-mageia/tidy-rpm-cache/pkg/header"
)

type (
	// TidyOption modifies the behavior of the tidy operations.
	TidyOption func(*tidyOptions)

	tidyOptions struct {
		retention     int
		archSensitive bool
		srpm          bool
		excludes      []*regexp.Regexp
		maxParallel   int
		dryRun        bool
		fs            afero.Fs
		l             *zap.Logger
		extractor     header.Extractor
	}
)

// WithRetention sets the number of obsolete versions of a package to keep in
// addition to the newest one. Negative values are ignored.
func WithRetention(n int) TidyOption {
	return func(o *tidyOptions) {
		if n >= 0 {
			o.retention = n
		}
	}
}

// WithArchSensitive controls whether packages sharing a name but differing in
// architecture are compared separately (the default) or merged into a single
// group.
func WithArchSensitive(enabled bool) TidyOption {
	return func(o *tidyOptions) {
		o.archSensitive = enabled
	}
}

// WithSourcePackages switches the run to source RPMs (.src.rpm).
func WithSourcePackages(enabled bool) TidyOption {
	return func(o *tidyOptions) {
		o.srpm = enabled
	}
}

// WithExcludes registers patterns excluding matching filenames from the run.
func WithExcludes(res ...*regexp.Regexp) TidyOption {
	return func(o *tidyOptions) {
		o.excludes = append(o.excludes, res...)
	}
}

// WithParallel bounds the number of concurrent metadata reads.
func WithParallel(parallel int) TidyOption {
	return func(o *tidyOptions) {
		if parallel > 0 {
			o.maxParallel = parallel
		}
	}
}

// WithDryRun disables actual file deletion.
func WithDryRun(enabled bool) TidyOption {
	return func(o *tidyOptions) {
		o.dryRun = enabled
	}
}

// WithFilesystem overrides the filesystem used for scanning, size lookup and
// deletion. Defaults to the OS filesystem.
func WithFilesystem(fs afero.Fs) TidyOption {
	return func(o *tidyOptions) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(zlg *zap.Logger) TidyOption {
	return func(o *tidyOptions) {
		if zlg != nil {
			o.l = zlg
		}
	}
}

// WithExtractor overrides the default filename-based metadata extractor.
func WithExtractor(x header.Extractor) TidyOption {
	return func(o *tidyOptions) {
		if x != nil {
			o.extractor = x
		}
	}
}

func defaultTidyOptions(opts []TidyOption) *tidyOptions {
	o := &tidyOptions{
		archSensitive: true,
		maxParallel:   10,
		fs:            afero.NewOsFs(),
		l:             zap.NewNop(),
	}

	for _, apply := range opts {
		apply(o)
	}

	if o.extractor == nil {
		o.extractor = header.NewFilenameExtractor(o.fs)
	}

	return o
}
