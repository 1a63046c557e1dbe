package kern

import (
	"fmt"
	"runtime"

	"golang.org/x/mod/semver"
)

// Version information for kernsync.
const (
	// Version is the current version of the module.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides build information about kernsync.
type Info struct {
	// Version is the module version in canonical semver form ("v0.1.0").
	Version string

	// GoVersion is the Go runtime the binary was built with.
	GoVersion string

	// Identity describes how execution contexts are identified.
	Identity string
}

// GetInfo returns information about this build.
//
// Example:
//
//	info := kern.GetInfo()
//	fmt.Printf("kernsync %s (%s)\n", info.Version, info.GoVersion)
func GetInfo() Info {
	return Info{
		Version:   semver.Canonical("v" + Version),
		GoVersion: runtime.Version(),
		Identity:  "goroutine id (runtime.Stack)",
	}
}

// Satisfies reports whether this version meets a minimum version
// requirement such as "v0.1" or "v0.1.0". A requirement with a different
// major version is never satisfied.
//
// Returns an error if required is not valid semver.
func Satisfies(required string) (bool, error) {
	if !semver.IsValid(required) {
		return false, fmt.Errorf("invalid version requirement %q", required)
	}
	have := GetInfo().Version
	if semver.Major(have) != semver.Major(required) {
		return false, nil
	}
	return semver.Compare(have, required) >= 0, nil
}
