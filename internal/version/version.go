// Package version holds the build metadata of the proxy.
//
// The variables are injected at build time:
//
//	-ldflags "-X upstreamproxy/internal/version.version=v1.0.0 -X upstreamproxy/internal/version.commit=abc123 -X upstreamproxy/internal/version.buildTime=2025-01-01T00:00:00Z"
package version

import (
	"fmt"
	"io"
	"strings"
	"time"
)

//nolint:gochecknoglobals // Required for build-time injection via ldflags.
var (
	version   string
	commit    string
	buildTime string
)

// ApplicationName is the name of the application displayed in version output.
const ApplicationName = "Upstream Proxy"

// Default values used when version information is not available.
const (
	DefaultVersion   = "dev"
	DefaultCommit    = "unknown"
	DefaultBuildTime = "unknown"
)

// VersionInfo encapsulates all version-related information with proper defaults.
type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"build_time" yaml:"build_time"`
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// GetVersion returns the current version information.
func GetVersion() *VersionInfo {
	return &VersionInfo{
		Version:   withDefault(version, DefaultVersion),
		Commit:    withDefault(commit, DefaultCommit),
		BuildTime: withDefault(buildTime, DefaultBuildTime),
	}
}

// FormatFull returns the application name followed by one line per field.
func (vi *VersionInfo) FormatFull() string {
	var b strings.Builder
	b.WriteString(ApplicationName + "\n")
	fmt.Fprintf(&b, "Version: %s\n", vi.Version)
	fmt.Fprintf(&b, "Commit: %s\n", vi.Commit)
	fmt.Fprintf(&b, "Built: %s\n", vi.BuildTime)
	return b.String()
}

// Write writes the version only when short is set, the full block otherwise.
func (vi *VersionInfo) Write(w io.Writer, short bool) error {
	if short {
		_, err := fmt.Fprintln(w, vi.Version)
		return err
	}
	_, err := io.WriteString(w, vi.FormatFull())
	return err
}

// IsDevelopment returns true if the version indicates a development build.
func (vi *VersionInfo) IsDevelopment() bool {
	return vi.Version == DefaultVersion
}

// GetBuildTime parses the build time. It returns the zero time when it is unknown or malformed.
func (vi *VersionInfo) GetBuildTime() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, vi.BuildTime); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SetBuildVars sets the build-time variables. It is meant for tests.
func SetBuildVars(ver, com, bt string) {
	version = ver
	commit = com
	buildTime = bt
}

// ResetBuildVars clears the build-time variables.
func ResetBuildVars() {
	SetBuildVars("", "", "")
}
