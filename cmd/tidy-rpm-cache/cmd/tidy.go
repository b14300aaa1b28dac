package cmd

import (
	"context"
	"fmt"
	"strings"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wally-mageia/tidy-rpm-cache/pkg/core"
)

const reportWidth = 70

var tidyCmd = &cobra.Command{
	Use:   "tidy",
	Short: "Identify and delete obsolete RPM package files",
	Long: `Identify and delete obsolete RPM package files in the search directories.

All RPM files providing the same software package are compared by version:
all but the newest version, plus the number of older versions given by
--num-obsolete, are deemed obsolete. The list of obsolete files is displayed
and confirmed before anything is deleted from the filesystem; pass --force to
skip the confirmation, or --dry-run to delete nothing at all.

Files whose metadata cannot be read are never deleted: they are reported
separately at the end of the run.
`,
	Example: `# delete all but the newest version of each package, keeping one spare
% tidy-rpm-cache tidy --dir /var/cache/yum --num-obsolete 1

# exclude kernel packages from the obsolescence test
% tidy-rpm-cache tidy --dir /tmp/packages --exclude '^kernel.*'`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		logger, err := tidyFlags.getLogger()
		if err != nil {
			wrapFatalln("set log level", err)
			return
		}

		dirs := tidyFlags.tidy.Dirs
		if len(dirs) == 0 {
			dirs = []string{"."}
		}
		opts := tidyFlags.tidyOptions(logger)

		logger.Debug("starting obsolescence check",
			zap.Strings("dirs", dirs),
			zap.Bool("srpm", tidyFlags.tidy.SRPM),
			zap.Bool("ignore-arch", tidyFlags.tidy.IgnoreArch),
		)

		res, err := core.FindObsolete(ctx, dirs, opts...)
		if err != nil {
			wrapFatalln("search for obsolete RPM files", err)
			return
		}
		if res.TotalFound == 0 {
			logger.Info("no RPM files were found")
			return
		}
		logger.Debug("RPM files found", zap.Int("total", res.TotalFound))

		if tidyFlags.wantsReport() {
			displayReport(res)
		}

		if !tidyFlags.tidy.IgnoreFileErrors && len(res.FileErrors) > 0 {
			logger.Warn("file errors occurred, these are listed below",
				zap.Int("count", len(res.FileErrors)),
			)
			for _, fileErr := range res.FileErrors {
				logger.Warn(fileErr)
			}
		}

		if len(res.ObsoletePaths) == 0 {
			logger.Info("no old RPMs were found")
			return
		}

		if tidyFlags.wantsReport() {
			infoLogger.Printf("")
			infoLogger.Printf("Marked %d RPM files with a total size of %s for deletion.",
				len(res.ObsoletePaths),
				units.HumanSize(float64(res.TotalObsoleteBytes)),
			)
		}

		if !tidyFlags.tidy.Force && !tidyFlags.tidy.DryRun && !userConfirm("permanently delete these files") {
			logger.Info("aborted by user, nothing deleted")
			return
		}

		if !tidyFlags.tidy.DryRun {
			logger.Info("deleting RPM files", zap.Int("count", len(res.ObsoletePaths)))
		}
		if err := core.DeleteObsolete(ctx, &res.RunResult, opts...); err != nil {
			wrapFatalln("delete obsolete RPM files", err)
			return
		}
	},
}

func userConfirm(action string) bool {
	infoLogger.Printf("Are you sure you want to %s [y|n]?", action)
	var answer string
	fmt.Scanln(&answer)
	yesno := strings.ToLower(answer)
	return yesno == "y" || yesno == "yes"
}

// displayReport renders the per-package summary table.
func displayReport(res *core.Result) {
	if len(res.Summaries) == 0 {
		return
	}

	rule := strings.Repeat("=", reportWidth)
	infoLogger.Print(rule)
	infoLogger.Print("Package")
	infoLogger.Print("    Version                            Build Date     Size   Action")
	infoLogger.Print(rule)

	for _, summary := range res.Summaries {
		if summary.Key.Arch != "" {
			infoLogger.Printf("%s (%s)", summary.Key.Name, summary.Key.Arch)
		} else {
			infoLogger.Print(summary.Key.Name)
		}
		for _, entry := range summary.Entries {
			version := entry.VR()
			if summary.Key.Arch == "" {
				// architectures were merged: qualify each entry
				version += "." + entry.Arch
			}
			var buildDate string
			if !entry.BuildTime.IsZero() {
				buildDate = entry.BuildTime.UTC().Format("02 Jan 2006")
			}
			var size int64
			if entry.Size > 0 {
				size = entry.Size
			}
			infoLogger.Printf("    %-34s %-11s %8s  %-8s",
				version,
				buildDate,
				units.HumanSize(float64(size)),
				entry.Action,
			)
		}
	}
}

func init() {
	rootCmd.AddCommand(tidyCmd)

	addDirFlag(tidyCmd)
	addExcludeFlag(tidyCmd)
	addNumObsoleteFlag(tidyCmd)
	addForceFlag(tidyCmd)
	addIgnoreArchFlag(tidyCmd)
	addIgnoreFileErrorsFlag(tidyCmd)
	addSRPMFlag(tidyCmd)
	addDryRunFlag(tidyCmd)
	addConcurrencyFactorFlag(tidyCmd, defaultConcurrency)
}
