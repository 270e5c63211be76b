package model

import "time"

// ISOTimeLayout is the ISO-8601 layout used for every timestamp the
// service emits: UTC with millisecond precision, e.g.
// 2024-01-01T12:30:00.000Z.
const ISOTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Unknown is the sentinel stored in string fields of the default record.
const Unknown = "unknown"

// BuildModeDebug is the build mode that exposes raw error text in 500
// responses.
const BuildModeDebug = "debug"

// BuildInfo describes the build and deployment context of the running
// binary.  It is loaded once at startup from the build-info document and
// never modified afterwards; handlers receive it by value.
//
// Fields:
//  Environment      – deployment tier (e.g. staging, production).
//  BuildMode        – debug or release; debug exposes error details.
//  AnalyticsEnabled – whether the build ships with analytics turned on.
//  APIVersion       – version of the public API.
//  BuildDate        – ISO-8601 timestamp of the build.
//  GitCommit        – VCS commit the build was produced from.
type BuildInfo struct {
    Environment      string `json:"environment" yaml:"environment"`
    BuildMode        string `json:"buildMode" yaml:"buildMode"`
    AnalyticsEnabled bool   `json:"analyticsEnabled" yaml:"analyticsEnabled"`
    APIVersion       string `json:"apiVersion" yaml:"apiVersion"`
    BuildDate        string `json:"buildDate" yaml:"buildDate"`
    GitCommit        string `json:"gitCommit" yaml:"gitCommit"`
}

// DefaultBuildInfo returns the record substituted when the build-info
// document cannot be loaded.  BuildDate is set to now.
func DefaultBuildInfo(now time.Time) BuildInfo {
    return BuildInfo{
        Environment:      Unknown,
        BuildMode:        Unknown,
        AnalyticsEnabled: false,
        APIVersion:       Unknown,
        BuildDate:        FormatTime(now),
        GitCommit:        Unknown,
    }
}

// IsDebug reports whether error responses may include raw error text.
func (b BuildInfo) IsDebug() bool {
    return b.BuildMode == BuildModeDebug
}

// FormatTime renders t in ISOTimeLayout after converting it to UTC.
func FormatTime(t time.Time) string {
    return t.UTC().Format(ISOTimeLayout)
}
