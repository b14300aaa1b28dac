// Package scanner discovers candidate RPM package files in cache directories.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/wally-mageia/tidy-rpm-cache/pkg/errors"
)

// ErrScan indicates that a search directory could not be traversed.
var ErrScan = errors.New("scanning cache directory")

const (
	rpmSuffix  = ".rpm"
	srpmSuffix = ".src.rpm"
)

type (
	// Option modifies the behavior of a Scanner.
	Option func(*options)

	options struct {
		srpm     bool
		excludes []*regexp.Regexp
		l        *zap.Logger
	}
)

// WithSourcePackages makes the scanner look for source RPMs (.src.rpm)
// instead of binary RPMs.
func WithSourcePackages(enabled bool) Option {
	return func(o *options) {
		o.srpm = enabled
	}
}

// WithExcludes registers patterns matched against base filenames: any match
// excludes the file from the scan results.
func WithExcludes(res ...*regexp.Regexp) Option {
	return func(o *options) {
		o.excludes = append(o.excludes, res...)
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(zlg *zap.Logger) Option {
	return func(o *options) {
		if zlg != nil {
			o.l = zlg
		}
	}
}

// Scanner walks directories looking for RPM package files.
type Scanner struct {
	fs afero.Fs
	options
}

// New creates a scanner over the given filesystem.
func New(fs afero.Fs, opts ...Option) *Scanner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	s := &Scanner{fs: fs}
	s.l = zap.NewNop()
	for _, apply := range opts {
		apply(&s.options)
	}
	return s
}

// Find returns the paths of all candidate package files under the search
// directories, in walk order. Symbolic links and other non-regular files are
// skipped, as are filenames matching any exclusion pattern.
func (s *Scanner) Find(ctx context.Context, dirs []string) ([]string, error) {
	found := make([]string, 0, 128)

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.l.Debug("searching directory", zap.String("dir", dir))

		err := afero.Walk(s.fs, dir, func(pth string, info os.FileInfo, err error) error {
			if err != nil {
				if pth == dir {
					return err
				}
				// unreadable subtree: keep going
				s.l.Debug("skipping unreadable path", zap.String("path", pth), zap.Error(err))
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			name := filepath.Base(pth)
			if !s.wantSuffix(name) {
				return nil
			}
			for _, re := range s.excludes {
				if re.MatchString(name) {
					s.l.Debug("excluding", zap.String("file", name))
					return nil
				}
			}
			s.l.Debug("found", zap.String("file", name))
			found = append(found, pth)
			return nil
		})
		if err != nil {
			return nil, ErrScan.WrapMessage("%q: %w", dir, err)
		}
	}

	return found, nil
}

func (s *Scanner) wantSuffix(name string) bool {
	if !strings.HasSuffix(name, rpmSuffix) {
		return false
	}
	if strings.HasSuffix(name, srpmSuffix) {
		return s.srpm
	}
	return !s.srpm
}
