// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	goruntime "runtime"
	"strings"
)

// GOOS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Platform names as written in tool descriptions.
const (
	TypeLinux   Type = "linux"
	TypeMacOS   Type = "macos"
	TypeWindows Type = "windows"
	TypeFreeBSD Type = "freebsd"
	TypeOpenBSD Type = "openbsd"
	TypeNetBSD  Type = "netbsd"
)

// ErrInvalidPlatform is the sentinel error wrapped by InvalidPlatformError.
var ErrInvalidPlatform = errors.New("invalid platform")

type (
	// Type is a platform name as used in tool profiles ("linux", "macos", "windows", ...).
	Type string

	// InvalidPlatformError is returned when a platform name is not recognized.
	InvalidPlatformError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidPlatformError) Error() string {
	return fmt.Sprintf("invalid platform %q (valid: linux, macos, windows, freebsd, openbsd, netbsd)", e.Value)
}

// Unwrap returns ErrInvalidPlatform for errors.Is() compatibility.
func (e *InvalidPlatformError) Unwrap() error { return ErrInvalidPlatform }

// IsValid returns whether the Type is a known platform name,
// and a list of validation errors if it is not.
func (t Type) IsValid() (bool, []error) {
	switch t {
	case TypeLinux, TypeMacOS, TypeWindows, TypeFreeBSD, TypeOpenBSD, TypeNetBSD:
		return true, nil
	default:
		return false, []error{&InvalidPlatformError{Value: string(t)}}
	}
}

// String returns the platform name.
func (t Type) String() string { return string(t) }

// IsUnix reports whether the platform is a Unix-like system.
func (t Type) IsUnix() bool { return t != TypeWindows }

// Current returns the platform of the running process.
func Current() Type {
	return FromGOOS(goruntime.GOOS)
}

// FromGOOS maps a runtime.GOOS value to a platform name. Unknown values are
// passed through unchanged so profiles can still name them explicitly.
func FromGOOS(goos string) Type {
	switch goos {
	case Darwin:
		return TypeMacOS
	default:
		return Type(goos)
	}
}

// Parse accepts user spellings of a platform ("macOS", "darwin", "Win", "linux").
func Parse(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux":
		return TypeLinux, nil
	case "macos", "darwin", "osx", "mac":
		return TypeMacOS, nil
	case "windows", "win", "win32":
		return TypeWindows, nil
	case "freebsd":
		return TypeFreeBSD, nil
	case "openbsd":
		return TypeOpenBSD, nil
	case "netbsd":
		return TypeNetBSD, nil
	default:
		return "", &InvalidPlatformError{Value: s}
	}
}
