// Package version holds build metadata injected at link time.
package version

import "fmt"

// Version is set via ldflags in release builds:
// go build -ldflags "-X git.home.luguber.info/inful/pagebuilder/internal/version.Version=v1.0.0".
var Version = "unknown"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String is the text printed by --version.
func String() string {
	if GitCommit == "unknown" && BuildTime == "unknown" {
		return "pagebuilder " + Version
	}
	return fmt.Sprintf("pagebuilder %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
