package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
	GoVersion = ""
)

// Info is the resolved build information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

// Get resolves build information, falling back to the binary's embedded
// build info for fields not set via ldflags.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if info.GoVersion == "" {
		info.GoVersion = buildInfo.GoVersion
	}
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = setting.Value
				if len(info.GitCommit) > 7 {
					info.GitCommit = info.GitCommit[:7]
				}
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = setting.Value
			}
		}
	}

	return info
}

// Short returns a compact version string for CLI output and logs.
func Short() string {
	info := Get()
	if info.GitCommit != "" {
		return fmt.Sprintf("%s-%s", info.Version, info.GitCommit)
	}
	return info.Version
}

// Full returns a detailed version string for the version command.
func Full() string {
	info := Get()
	s := info.Version
	if info.GitCommit != "" {
		s += " (" + info.GitCommit + ")"
	}
	if info.BuildTime != "" {
		s += " built " + info.BuildTime
	}
	if info.GoVersion != "" {
		s += " with " + info.GoVersion
	}
	return s
}
