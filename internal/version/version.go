// SPDX-License-Identifier: MPL-2.0

// Package version parses tool versions and version constraints and picks
// the highest candidate satisfying a constraint.
//
// Versions have any number of numeric components; a missing component
// compares as zero, so "1.2" == "1.2.0". A pre-release suffix sorts before
// its release and pre-releases are ordered by semantic versioning rules.
package version

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
var ErrInvalidVersion = errors.New("invalid version")

// versionRegex matches dotted numeric versions with optional pre-release and
// build metadata.
var versionRegex = regexp.MustCompile(`^v?(\d+(?:\.\d+)*)(?:-([0-9A-Za-z.-]+))?(?:\+[0-9A-Za-z.-]+)?$`)

type (
	// Version is a parsed tool version.
	Version struct {
		segments   []int
		prerelease string
		original   string
	}

	// InvalidVersionError is returned for a string that is not a version.
	InvalidVersionError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q", e.Value)
}

// Unwrap returns ErrInvalidVersion for errors.Is() compatibility.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// Parse parses a version string such as "9.56.1", "v2" or "1.0.0-rc.1".
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	m := versionRegex.FindStringSubmatch(s)
	if m == nil {
		return Version{}, &InvalidVersionError{Value: s}
	}

	parts := strings.Split(m[1], ".")
	v := Version{segments: make([]int, len(parts)), prerelease: m[2], original: s}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, &InvalidVersionError{Value: s}
		}
		v.segments[i] = n
	}
	return v, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as it was written.
func (v Version) String() string { return v.original }

// Segment returns component i, or zero when the version has fewer components.
func (v Version) Segment(i int) int {
	if i < len(v.segments) {
		return v.segments[i]
	}
	return 0
}

// Len returns the number of numeric components.
func (v Version) Len() int { return len(v.segments) }

// Prerelease returns the pre-release suffix without its leading dash.
func (v Version) Prerelease() string { return v.prerelease }

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to
// or after other.
func (v Version) Compare(other Version) int {
	for i := range max(len(v.segments), len(other.segments)) {
		if c := cmp.Compare(v.Segment(i), other.Segment(i)); c != 0 {
			return c
		}
	}

	switch {
	case v.prerelease == other.prerelease:
		return 0
	case v.prerelease == "":
		return 1
	case other.prerelease == "":
		return -1
	}

	a, b := "v0.0.0-"+v.prerelease, "v0.0.0-"+other.prerelease
	if semver.IsValid(a) && semver.IsValid(b) {
		return semver.Compare(a, b)
	}
	return strings.Compare(v.prerelease, other.prerelease)
}

// bumped returns the version with component i incremented and everything
// after it dropped. Used for the upper bound of "~>".
func (v Version) bumped(i int) Version {
	segs := make([]int, i+1)
	for j := range i {
		segs[j] = v.Segment(j)
	}
	segs[i] = v.Segment(i) + 1

	parts := make([]string, len(segs))
	for j, n := range segs {
		parts[j] = strconv.Itoa(n)
	}
	return Version{segments: segs, original: strings.Join(parts, ".")}
}
