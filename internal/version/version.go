// Package version holds the build information of the promptcheck binaries.
//
// The variables are injected at build time:
//
//	-ldflags "-X promptcheck/internal/version.version=v1.0.0 -X promptcheck/internal/version.commit=abc123 -X promptcheck/internal/version.buildTime=2025-01-01T00:00:00Z"
package version

import (
	"fmt"
	"io"
	"strings"
)

// These variables are set via ldflags during build.
//
//nolint:gochecknoglobals // Required for build-time injection via ldflags.
var (
	version   string
	commit    string
	buildTime string
)

// ApplicationName is the name of the application displayed in version output.
const ApplicationName = "PromptCheck CLI"

// Default values used when version information is not available.
const (
	DefaultVersion   = "dev"
	DefaultCommit    = "unknown"
	DefaultBuildTime = "unknown"
)

// Labels used by the full output format.
const (
	LabelVersion   = "Version"
	LabelCommit    = "Commit"
	LabelBuilt     = "Built"
	fieldSeparator = ": "
	lineSeparator  = "\n"
)

// VersionInfo encapsulates all version-related information with proper defaults.
type VersionInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// NewVersionInfo returns the build information with defaults for unset values.
func NewVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:   withDefault(version, DefaultVersion),
		Commit:    withDefault(commit, DefaultCommit),
		BuildTime: withDefault(buildTime, DefaultBuildTime),
	}
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// FormatShort returns only the version number.
func (vi *VersionInfo) FormatShort() string {
	return vi.Version
}

// FormatFull returns the application name, version, commit and build time,
// one per line.
func (vi *VersionInfo) FormatFull() string {
	var builder strings.Builder

	builder.WriteString(ApplicationName)
	builder.WriteString(lineSeparator)
	for _, field := range [][2]string{
		{LabelVersion, vi.Version},
		{LabelCommit, vi.Commit},
		{LabelBuilt, vi.BuildTime},
	} {
		builder.WriteString(field[0])
		builder.WriteString(fieldSeparator)
		builder.WriteString(field[1])
		builder.WriteString(lineSeparator)
	}

	return builder.String()
}

// Write writes the short or full format to w.
func (vi *VersionInfo) Write(w io.Writer, short bool) error {
	if short {
		_, err := fmt.Fprintln(w, vi.FormatShort())
		return err
	}
	_, err := fmt.Fprint(w, vi.FormatFull())
	return err
}

// IsDevelopment returns true if the version indicates a development build.
func (vi *VersionInfo) IsDevelopment() bool {
	return vi.Version == DefaultVersion
}

// SetBuildVars sets the build-time variables. Used by tests.
func SetBuildVars(ver, com, bt string) {
	version = ver
	commit = com
	buildTime = bt
}

// ResetBuildVars clears the build-time variables.
func ResetBuildVars() {
	SetBuildVars("", "", "")
}
