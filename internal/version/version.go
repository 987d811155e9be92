// Package version reports build metadata for the weather advisor. The
// variables are overridden at link time, e.g.
//
//	go build -ldflags "-X github.com/sean-rowe/weather-advisor/internal/version.Version=1.2.0"
package version

import (
	"runtime"
	"time"
)

var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

// Info is served on /version.
type Info struct {
	Version   string    `json:"version"`
	BuildTime string    `json:"build_time"`
	GitCommit string    `json:"git_commit"`
	GitBranch string    `json:"git_branch"`
	GoVersion string    `json:"go_version"`
	Platform  string    `json:"platform"`
	BuildDate time.Time `json:"build_date"`
}

// Get collects the link-time variables and runtime details. BuildDate stays
// zero unless BuildTime is RFC3339.
func Get() Info {
	info := Info{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		info.BuildDate = t
	}

	return info
}

// String renders a one-line banner for startup logs.
func (i Info) String() string {
	commit := i.GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}

	return i.Version + " (" + commit + ", " + i.GoVersion + " " + i.Platform + ")"
}
