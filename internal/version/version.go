// Package version reports the vncfetch build version.
//
// The values can be set at build time:
//
//	go build -ldflags "-X github.com/nao1215/vncfetch/internal/version.version=v1.2.3"
package version

import "runtime/debug"

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// Version returns the version string.
// Priority: ldflags > debug.ReadBuildInfo > "(devel)"
func Version() string {
	if version != "" {
		return version
	}
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		if buildInfo.Main.Version != "" {
			return buildInfo.Main.Version
		}
	}
	return "(devel)"
}

// buildSetting returns the value of a build setting such as vcs.time.
func buildSetting(key string) (string, bool) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key == key {
			return setting.Value, true
		}
	}
	return "", false
}

// Commit returns the short commit hash, or "unknown".
func Commit() string {
	if commit != "" {
		return commit
	}
	if rev, ok := buildSetting("vcs.revision"); ok {
		if len(rev) > 7 {
			return rev[:7]
		}
		return rev
	}
	return "unknown"
}

// Date returns the build date, or "unknown".
func Date() string {
	if date != "" {
		return date
	}
	if t, ok := buildSetting("vcs.time"); ok {
		return t
	}
	return "unknown"
}
