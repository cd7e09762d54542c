// Package version holds the relprep build information.
// It has no dependencies and can be imported from any package.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// Lines returns the build information as "key: value" lines.
func Lines() []string {
	return []string{
		fmt.Sprintf("relprep %s", Version),
		fmt.Sprintf("commit: %s", Commit),
		fmt.Sprintf("built: %s", BuildDate),
		fmt.Sprintf("go: %s", runtime.Version()),
		fmt.Sprintf("platform: %s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
