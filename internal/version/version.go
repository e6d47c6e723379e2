// Package version provides build information and version details.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set via ldflags at build time
var Version = "dev"

// Info contains version and build information
type Info struct {
	Version     string `json:"version"`
	GoVersion   string `json:"goVersion"`
	VCSRevision string `json:"vcsRevision,omitempty"`
}

// Get returns the current version and build information
func Get() Info {
	info := Info{Version: Version}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = buildInfo.GoVersion

		for _, setting := range buildInfo.Settings {
			if setting.Key == "vcs.revision" {
				info.VCSRevision = setting.Value
			}
		}
	}

	return info
}

// String returns a human-readable version string
func (i Info) String() string {
	s := fmt.Sprintf("Version: %s, Go: %s", i.Version, i.GoVersion)
	if rev := i.VCSRevision; rev != "" {
		if len(rev) > 8 {
			rev = rev[:8]
		}
		s += fmt.Sprintf(", Commit: %s", rev)
	}
	return s
}
