package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/wally-mageia/tidy-rpm-cache/pkg/model"
)

// DeleteObsolete removes the obsolete files listed in the run result from the
// filesystem. Deletion stops at the first failure.
//
// With WithDryRun enabled nothing is removed.
func DeleteObsolete(ctx context.Context, res *model.RunResult, opts ...TidyOption) error {
	o := defaultTidyOptions(opts)

	for _, pth := range res.ObsoletePaths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if o.dryRun {
			o.l.Info("dry-run: would delete", zap.String("path", pth))
			continue
		}
		o.l.Debug("deleting path", zap.String("path", pth))
		if err := o.fs.Remove(pth); err != nil {
			return ErrDelete.WrapMessage("%q: %w", pth, err)
		}
	}

	return nil
}
