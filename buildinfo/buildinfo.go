// Package buildinfo reports how the running binary was compiled.
package buildinfo

import (
	"fmt"
	"os"
	"runtime/debug"
)

// Banner returns a one-line description of the binary's build: module
// path, Go version, and VCS revision when embedded.
func Banner() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "build metadata unavailable"
	}

	rev, dirty := "unknown revision", ""
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				dirty = ", modified"
			}
		}
	}

	return fmt.Sprintf("%s built with %s (%s%s)", bi.Path, bi.GoVersion, rev, dirty)
}

// PrintToStderr writes the build banner to standard error.
func PrintToStderr() {
	fmt.Fprintln(os.Stderr, Banner())
}
