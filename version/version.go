// Package version reports build information for the decross binary.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/teranos/decross/version.Version=v0.3.0 \
//	  -X github.com/teranos/decross/version.CommitHash=$(git rev-parse HEAD) \
//	  -X github.com/teranos/decross/version.BuildTime=$(date -u +%FT%TZ)"
var (
	Version    = "dev"
	CommitHash = "dev"
	BuildTime  = "unknown"
)

// SupportedFormats lists the pixel formats the filter accepts
var SupportedFormats = []string{"YUV420P8", "YUV422P8"}

// Info contains version and build information
type Info struct {
	Version    string   `json:"version"`
	CommitHash string   `json:"commit_hash"`
	BuildTime  string   `json:"build_time"`
	GoVersion  string   `json:"go_version"`
	Platform   string   `json:"platform"`
	Formats    []string `json:"formats"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		Formats:    SupportedFormats,
	}
}

// String returns a human-readable version line
func (i Info) String() string {
	return fmt.Sprintf("decross %s (commit %s, built %s, %s)", i.Version, i.Short(), i.BuildTime, i.GoVersion)
}

// Short returns the abbreviated commit hash
func (i Info) Short() string {
	if len(i.CommitHash) > 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
