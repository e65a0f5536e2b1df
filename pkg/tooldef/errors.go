// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDefinition is the sentinel wrapped by DefinitionError.
	ErrInvalidDefinition = errors.New("invalid tool definition")
	// ErrInheritanceCycle is returned when profiles inherit from each other in a loop.
	ErrInheritanceCycle = errors.New("profile inheritance cycle")
	// ErrUnknownParent is returned when a profile inherits from a profile that does not exist.
	ErrUnknownParent = errors.New("unknown parent profile")
	// ErrUnsupportedFormat is returned for files that are not CUE, YAML or TOML.
	ErrUnsupportedFormat = errors.New("unsupported tool description format")
)

type (
	// DefinitionError reports one structural problem in a tool description.
	DefinitionError struct {
		Tool string
		// Path locates the offending entry, e.g. "profiles[linux].commands[convert]".
		Path    string
		Message string
	}

	// InheritanceCycleError lists the profiles that form an inheritance loop.
	InheritanceCycleError struct {
		Tool  string
		Chain []string
	}

	// UnknownParentError reports an inherits reference to a missing profile.
	UnknownParentError struct {
		Tool    string
		Profile string
		Parent  string
	}
)

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("tool %q: %s", e.Tool, e.Message)
	}
	return fmt.Sprintf("tool %q: %s: %s", e.Tool, e.Path, e.Message)
}

// Unwrap returns ErrInvalidDefinition for errors.Is() compatibility.
func (e *DefinitionError) Unwrap() error { return ErrInvalidDefinition }

// Error implements the error interface.
func (e *InheritanceCycleError) Error() string {
	return fmt.Sprintf("tool %q: profile inheritance cycle: %s", e.Tool, strings.Join(e.Chain, " -> "))
}

// Unwrap returns ErrInheritanceCycle for errors.Is() compatibility.
func (e *InheritanceCycleError) Unwrap() error { return ErrInheritanceCycle }

// Error implements the error interface.
func (e *UnknownParentError) Error() string {
	return fmt.Sprintf("tool %q: profile %q inherits from unknown profile %q", e.Tool, e.Profile, e.Parent)
}

// Unwrap returns ErrUnknownParent for errors.Is() compatibility.
func (e *UnknownParentError) Unwrap() error { return ErrUnknownParent }
