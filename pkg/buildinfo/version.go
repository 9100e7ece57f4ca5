// Package buildinfo reports the version of the running binary.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/justgrid/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/justgrid/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/justgrid/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds fall back to what the Go toolchain embeds: the module
// version for `go install`, and the VCS revision and time for builds from a
// checkout.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Stamped by ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build information served by `GET /version`.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Modified  bool   `json:"modified,omitempty"`
}

var (
	resolveOnce sync.Once
	resolved    Info
)

// Get returns the build information, resolved once per process.
func Get() Info {
	resolveOnce.Do(func() {
		bi, _ := debug.ReadBuildInfo()
		resolved = resolve(Info{Version: Version, Commit: Commit, Date: Date}, bi)
	})
	return resolved
}

// resolve fills the unstamped fields of stamped from bi.
func resolve(stamped Info, bi *debug.BuildInfo) Info {
	info := stamped
	info.GoVersion = runtime.Version()
	if bi == nil {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// Template returns the cobra version template.
func Template() string {
	i := Get()
	dirty := ""
	if i.Modified {
		dirty = " (modified)"
	}
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s%s\nbuilt: %s\n", i.Version, i.Commit, dirty, i.Date)
}
