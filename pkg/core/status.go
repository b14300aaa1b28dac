package core

import (
	"github.com/wally-mageia/tidy-rpm-cache/pkg/errors"
)

var (
	// Sentinel errors surfaced by the tidy operations

	// ErrMetadataRead indicates a file whose package metadata could not be
	// read. Such files are excluded from the obsolescence check.
	ErrMetadataRead = errors.New("unable to read RPM file")

	// ErrSizeLookup indicates that the size of an obsolete file could not be
	// determined. The file is still eligible for deletion.
	ErrSizeLookup = errors.New("unable to determine file size")

	// ErrDelete indicates that an obsolete file could not be removed.
	ErrDelete = errors.New("unable to delete RPM file")
)
