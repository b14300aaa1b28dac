// Command tidy-rpm-cache deletes obsolete RPM package files from cache
// directories, comparing the version information of all files which provide
// the same software package.
package main

import (
	"github.com/wally-mageia/tidy-rpm-cache/cmd/tidy-rpm-cache/cmd"
)

func main() {
	cmd.Execute()
}
