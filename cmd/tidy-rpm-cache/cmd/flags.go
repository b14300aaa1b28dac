package cmd

import (
	"regexp"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wally-mageia/tidy-rpm-cache/pkg/core"
	"github.com/wally-mageia/tidy-rpm-cache/pkg/dlogger"
)

const (
	defaultLogLevel    = dlogger.LogLevelInfo
	defaultConcurrency = 10

	// unsetRetention marks the retention flag as not given on the command
	// line, so a config file value can take over.
	unsetRetention = -1
)

type flagsT struct {
	tidy struct {
		Dirs              []string
		Excludes          []string
		NumObsolete       int
		Force             bool
		IgnoreArch        bool
		IgnoreFileErrors  bool
		SRPM              bool
		DryRun            bool
		ConcurrencyFactor int
	}
	root struct {
		logLevel string
		cpuProf  bool
	}
	doc struct {
		docTarget string
	}
}

var tidyFlags = flagsT{}

func addDirFlag(cmd *cobra.Command) string {
	dir := "dir"
	cmd.Flags().StringArrayVarP(&tidyFlags.tidy.Dirs, dir, "d", nil,
		"The path of a directory to search recursively for RPM files. May be repeated. Defaults to the current directory")
	return dir
}

func addExcludeFlag(cmd *cobra.Command) string {
	exclude := "exclude"
	// array, not slice: regular expressions may legitimately contain commas
	cmd.Flags().StringArrayVarP(&tidyFlags.tidy.Excludes, exclude, "x", nil,
		"Exclude package filenames matching this regular expression (RE2) from being checked. May be repeated")
	return exclude
}

func addNumObsoleteFlag(cmd *cobra.Command) string {
	numObsolete := "num-obsolete"
	cmd.Flags().IntVarP(&tidyFlags.tidy.NumObsolete, numObsolete, "n", unsetRetention,
		"The maximum number of obsolete versions of a package to keep. "+
			"The default of 0 means that all but the newest version of a package will be deleted")
	return numObsolete
}

func addForceFlag(cmd *cobra.Command) string {
	force := "force"
	cmd.Flags().BoolVarP(&tidyFlags.tidy.Force, force, "f", false,
		"Do not confirm before deleting obsolete RPM package files")
	return force
}

func addIgnoreArchFlag(cmd *cobra.Command) string {
	ignoreArch := "ignore-arch"
	cmd.Flags().BoolVar(&tidyFlags.tidy.IgnoreArch, ignoreArch, false,
		"Compare all files with the same package name regardless of whether their architectures differ")
	return ignoreArch
}

func addIgnoreFileErrorsFlag(cmd *cobra.Command) string {
	ignoreFileErrors := "ignore-file-errors"
	cmd.Flags().BoolVar(&tidyFlags.tidy.IgnoreFileErrors, ignoreFileErrors, false,
		"Do not print errors relating to reading RPM package files")
	return ignoreFileErrors
}

func addSRPMFlag(cmd *cobra.Command) string {
	srpm := "srpm"
	cmd.Flags().BoolVarP(&tidyFlags.tidy.SRPM, srpm, "s", false,
		"Check for obsolete source RPMs instead of normal RPMs")
	return srpm
}

func addDryRunFlag(cmd *cobra.Command) string {
	dryRun := "dry-run"
	cmd.Flags().BoolVar(&tidyFlags.tidy.DryRun, dryRun, false,
		"Report obsolete RPM package files without deleting anything")
	return dryRun
}

func addConcurrencyFactorFlag(cmd *cobra.Command, defaultConcurrency int) string {
	concurrencyFactor := "concurrency-factor"
	cmd.Flags().IntVar(&tidyFlags.tidy.ConcurrencyFactor, concurrencyFactor, defaultConcurrency,
		"Heuristic on the amount of concurrency used when reading package metadata. "+
			"Turn this value down to use less memory, increase for faster operations")
	return concurrencyFactor
}

func addLogLevelFlag(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&tidyFlags.root.logLevel, loglevel, "",
		`Sets the log level: "debug", "info", "warn" or "none" (defaults to "info")`)
	return loglevel
}

func addCPUProfFlag(cmd *cobra.Command) string {
	cpuprof := "cpuprof"
	cmd.PersistentFlags().BoolVar(&tidyFlags.root.cpuProf, cpuprof, false,
		"Toggle runtime profiling")
	return cpuprof
}

func addTargetFlag(cmd *cobra.Command) string {
	target := "target-dir"
	cmd.Flags().StringVar(&tidyFlags.doc.docTarget, target, ".",
		"The target directory where to generate the markdown documentation")
	return target
}

// getLogger builds the logger for the effective log level.
func (flags *flagsT) getLogger() (*zap.Logger, error) {
	level := flags.root.logLevel
	if level == "" {
		level = defaultLogLevel
	}
	return dlogger.GetLogger(level)
}

// wantsReport tells whether per-package summaries should be displayed.
func (flags *flagsT) wantsReport() bool {
	switch flags.root.logLevel {
	case dlogger.LogLevelWarn, dlogger.LogLevelNone:
		return false
	}
	return true
}

// tidyOptions translates CLI flags into core options. Invalid exclusion
// patterns are reported and skipped, matching the behavior of the original
// cache-tidying tooling rather than failing the whole run.
func (flags *flagsT) tidyOptions(logger *zap.Logger) []core.TidyOption {
	excludes := make([]*regexp.Regexp, 0, len(flags.tidy.Excludes))
	for _, expr := range flags.tidy.Excludes {
		re, err := regexp.Compile(expr)
		if err != nil {
			logger.Warn("exclusion pattern could not be compiled",
				zap.String("pattern", expr),
				zap.Error(err),
			)
			continue
		}
		excludes = append(excludes, re)
	}

	retention := flags.tidy.NumObsolete
	if retention < 0 {
		if retention != unsetRetention {
			logger.Warn("number of obsoletes cannot be negative, setting to 0")
		}
		retention = 0
	}

	return []core.TidyOption{
		core.WithLogger(logger),
		core.WithRetention(retention),
		core.WithArchSensitive(!flags.tidy.IgnoreArch),
		core.WithSourcePackages(flags.tidy.SRPM),
		core.WithExcludes(excludes...),
		core.WithParallel(flags.tidy.ConcurrencyFactor),
		core.WithDryRun(flags.tidy.DryRun),
	}
}
