// Package version exposes build metadata for the version command.
package version

import (
	"fmt"
	"runtime"
)

// Overridden at release time via -ldflags; the defaults keep plain
// `go install` builds working.
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// String renders the block shown by `revu version`.
func String() string {
	return fmt.Sprintf(`revu %s
commit:  %s
built:   %s
go:      %s
os/arch: %s/%s
`, version, gitCommit, buildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Print writes the version block to stdout.
func Print() {
	fmt.Print(String())
}
