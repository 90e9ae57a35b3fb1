package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// DevVersion is reported by builds without a linked-in version.
const DevVersion = "dev"

// Set with -ldflags -X.
var (
	Version   = DevVersion
	GitCommit = ""
	BuildTime = ""
)

const shortCommitLen = 7

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Modified  bool   `json:"modified"`
}

// Get returns the build information, filling gaps from the embedded build info.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = fromBuildInfo(info, bi)
	}
	return info
}

func fromBuildInfo(info Info, bi *debug.BuildInfo) Info {
	info.GoVersion = bi.GoVersion
	if info.Version == DevVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	if len(info.GitCommit) > shortCommitLen {
		info.GitCommit = info.GitCommit[:shortCommitLen]
	}
	return info
}

// IsRelease reports whether the build carries a real, unmodified version.
func (i Info) IsRelease() bool {
	return i.Version != DevVersion && !i.Modified
}

// Fields returns the build information as log fields.
func (i Info) Fields() map[string]interface{} {
	f := map[string]interface{}{
		"version":    i.Version,
		"go_version": i.GoVersion,
	}
	if i.GitCommit != "" {
		f["git_commit"] = i.GitCommit
	}
	if i.BuildTime != "" {
		f["build_time"] = i.BuildTime
	}
	return f
}

// String formats the info as "1.2.0 (abc1234, 2026-01-15T10:30:00Z)".
func (i Info) String() string {
	var extra []string
	if i.GitCommit != "" {
		commit := i.GitCommit
		if i.Modified {
			commit += "-dirty"
		}
		extra = append(extra, commit)
	}
	if i.BuildTime != "" {
		extra = append(extra, i.BuildTime)
	}
	if len(extra) == 0 {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(extra, ", "))
}
