// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

type (
	// ActionableError is an error with enough context to tell the user what
	// to do next.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("resolve tool").
	//		WithResource("ghostscript").
	//		WithIssue(issue.ToolNotFoundId).
	//		WithSuggestion("Add the description directory to tool_paths").
	//		Wrap(cause).
	//		Build()
	ActionableError struct {
		// Operation is a verb phrase such as "resolve tool" or "build argv".
		Operation string
		// Resource is the tool, file or parameter involved (optional).
		Resource string
		// Issue points at long-form guidance; zero means none.
		Issue Id
		// Suggestions are one-line hints printed under the message.
		Suggestions []string
		// Cause is the underlying error.
		Cause error
	}

	// ErrorContext accumulates the fields of an ActionableError. A context
	// may be set up early and completed when the failure happens.
	ErrorContext struct {
		operation   string
		resource    string
		issue       Id
		suggestions []string
		cause       error
	}
)

// NewErrorContext returns an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Wrap attaches operation and resource context to err. It returns nil for a
// nil err.
func Wrap(err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Resource: resource, Cause: err}
}

func (e *ActionableError) Error() string {
	var msg strings.Builder
	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)
	if e.Resource != "" {
		msg.WriteString(" ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Guidance returns the Issue attached to the error, or nil.
func (e *ActionableError) Guidance() *Issue {
	if e.Issue == 0 {
		return nil
	}
	return Get(e.Issue)
}

// Format renders the message followed by a bulleted list of suggestions.
// When verbose is set the full chain of wrapped errors is appended.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, s := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(s)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}
	return msg.String()
}

func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.issue = id
	return c
}

// WithSuggestion appends hints; it may be called repeatedly.
func (c *ErrorContext) WithSuggestion(sugs ...string) *ErrorContext {
	c.suggestions = append(c.suggestions, sugs...)
	return c
}

func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build returns the error, or nil when no operation was set. The builder
// stays usable afterwards; later changes do not affect built errors.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Issue:       c.issue,
		Suggestions: slices.Clone(c.suggestions),
		Cause:       c.cause,
	}
}

// BuildError is Build returning a plain error, so a missing operation
// yields an untyped nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
