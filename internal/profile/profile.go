// SPDX-License-Identifier: MPL-2.0

// Package profile selects the platform profile of a tool that applies to a
// given platform, shell and installed tool version.
package profile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/toolrun/toolrun/internal/shell"
	"github.com/toolrun/toolrun/internal/version"
	"github.com/toolrun/toolrun/pkg/platform"
	"github.com/toolrun/toolrun/pkg/tooldef"
)

// ErrProfileNotFound is the sentinel error wrapped by NotFoundError.
var ErrProfileNotFound = errors.New("no matching profile")

type (
	// Query describes the environment a profile must fit.
	Query struct {
		Platform platform.Type
		Shell    shell.Name
		// ToolVersion is the detected version of the installed tool. Empty
		// means unknown, which satisfies every requirement.
		ToolVersion string
	}

	// NotFoundError is returned when no profile fits a query.
	NotFoundError struct {
		Tool  string
		Query Query
		// Rejected lists why each profile was passed over, in declaration order.
		Rejected []string
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no profile of %q matches platform=%s shell=%s", e.Tool, e.Query.Platform, e.Query.Shell)
	if e.Query.ToolVersion != "" {
		msg += " version=" + e.Query.ToolVersion
	}
	if len(e.Rejected) > 0 {
		msg += " (" + strings.Join(e.Rejected, "; ") + ")"
	}
	return msg
}

// Unwrap returns ErrProfileNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrProfileNotFound }

// Select returns the first profile, in declaration order, whose platform set
// and shell set both admit the query and whose version requirement is
// satisfied by the tool version. Membership is exact: there is no fallback
// to a closest profile.
func Select(tool *tooldef.Tool, q Query) (*tooldef.Profile, error) {
	var rejected []string
	for _, p := range tool.Profiles() {
		ok, reason := Eligible(p, q)
		if ok {
			return p, nil
		}
		rejected = append(rejected, p.Name+": "+reason)
	}
	return nil, &NotFoundError{Tool: tool.Name, Query: q, Rejected: rejected}
}

// Eligible reports whether p fits q and, if not, why.
func Eligible(p *tooldef.Profile, q Query) (bool, string) {
	if len(p.Platforms) > 0 && !slices.Contains(p.Platforms, q.Platform) {
		return false, "platform " + string(q.Platform) + " not in " + joinPlatforms(p.Platforms)
	}
	if len(p.Shells) > 0 && !slices.Contains(p.Shells, string(q.Shell)) {
		return false, "shell " + string(q.Shell) + " not in [" + strings.Join(p.Shells, " ") + "]"
	}
	if p.Version == "" || q.ToolVersion == "" {
		return true, ""
	}

	ok, err := version.Satisfies(p.Version, q.ToolVersion)
	switch {
	case err != nil:
		return false, err.Error()
	case !ok:
		return false, "version " + q.ToolVersion + " does not satisfy " + p.Version
	default:
		return true, ""
	}
}

// Unverified reports whether p declares a version requirement that could not
// be checked because the tool version is unknown. Such a profile is still
// eligible; callers surface the requirement so the choice is not silent.
func Unverified(p *tooldef.Profile, toolVersion string) bool {
	return p.Version != "" && toolVersion == ""
}

func joinPlatforms(ps []platform.Type) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = string(p)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
