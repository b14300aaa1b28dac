package core

import (
	"go.uber.org/zap"

	"github.com/wally-mageia/tidy-rpm-cache/pkg/model"
)

// fileSize returns the record's size, computing and caching it on first use.
func (o *tidyOptions) fileSize(rec *model.PackageRecord) (int64, error) {
	if rec.Size != model.UnknownSize {
		return rec.Size, nil
	}
	info, err := o.fs.Stat(rec.Path)
	if err != nil {
		return 0, ErrSizeLookup.WrapMessage("%q: %w", rec.Path, err)
	}
	rec.Size = info.Size()
	return rec.Size, nil
}

// Accumulate appends the paths of obsolete records to the run result and adds
// their sizes to the byte total. A failed size lookup contributes zero bytes
// but never drops the path: the file remains eligible for deletion.
func Accumulate(into *model.RunResult, obsolete []model.PackageRecord, opts ...TidyOption) {
	accumulate(defaultTidyOptions(opts), into, obsolete)
}

func accumulate(o *tidyOptions, into *model.RunResult, obsolete []model.PackageRecord) {
	for i := range obsolete {
		rec := &obsolete[i]
		into.ObsoletePaths = append(into.ObsoletePaths, rec.Path)
		size, err := o.fileSize(rec)
		if err != nil {
			o.l.Warn("counting zero bytes for obsolete file",
				zap.String("path", rec.Path),
				zap.Error(err),
			)
			continue
		}
		into.TotalObsoleteBytes += size
	}
}
