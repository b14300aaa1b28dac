package model

// RunResult accumulates the outcome of a single tidy run across all package
// groups. It is built incrementally and owned by the caller once the run
// completes.
type RunResult struct {
	// ObsoletePaths lists the files superseded under the retention policy,
	// in identity-sorted group order then newest-first within a group.
	ObsoletePaths []string `json:"obsoletePaths" yaml:"obsoletePaths"`

	// TotalObsoleteBytes totals the sizes of the obsolete files. Files whose
	// size could not be determined contribute zero.
	TotalObsoleteBytes int64 `json:"totalObsoleteBytes" yaml:"totalObsoleteBytes"`

	// FileErrors collects per-file read failures. Such files are excluded
	// from grouping entirely: neither retained nor obsolete.
	FileErrors []string `json:"fileErrors,omitempty" yaml:"fileErrors,omitempty"`

	// TotalFound counts all candidate files discovered by the scan.
	TotalFound int `json:"totalFound" yaml:"totalFound"`
}
