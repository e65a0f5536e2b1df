// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DelimiterAuto picks the delimiter from the option token's prefix:
	// "--" gives equals, "/" gives colon, "-" gives space.
	DelimiterAuto Delimiter = "auto"
	// DelimiterEquals joins token and value with "=" into one argument.
	DelimiterEquals Delimiter = "equals"
	// DelimiterSpace emits token and value as two arguments.
	DelimiterSpace Delimiter = "space"
	// DelimiterColon joins token and value with ":" into one argument.
	DelimiterColon Delimiter = "colon"
	// DelimiterNone concatenates token and value into one argument.
	DelimiterNone Delimiter = "none"
)

// ErrInvalidDelimiter is returned when a Delimiter value is not recognized.
var ErrInvalidDelimiter = errors.New("invalid delimiter")

// legacyDelimiters maps the historical format names to delimiters.
var legacyDelimiters = map[Delimiter]Delimiter{
	"double_dash_equals": DelimiterEquals,
	"single_dash_equals": DelimiterEquals,
	"double_dash_space":  DelimiterSpace,
	"single_dash_space":  DelimiterSpace,
	"slash_colon":        DelimiterColon,
	"slash_space":        DelimiterSpace,
}

type (
	// Delimiter is the policy that joins an option token with its value.
	Delimiter string

	// InvalidDelimiterError is returned when a Delimiter value is not recognized.
	InvalidDelimiterError struct {
		Value Delimiter
	}
)

// Error implements the error interface.
func (e *InvalidDelimiterError) Error() string {
	return fmt.Sprintf("invalid delimiter %q (valid: auto, equals, space, colon, none)", e.Value)
}

// Unwrap returns ErrInvalidDelimiter for errors.Is() compatibility.
func (e *InvalidDelimiterError) Unwrap() error { return ErrInvalidDelimiter }

// IsValid returns whether the Delimiter is known (including legacy names),
// and a list of validation errors if it is not.
func (d Delimiter) IsValid() (bool, []error) {
	switch d.Canonical() {
	case DelimiterAuto, DelimiterEquals, DelimiterSpace, DelimiterColon, DelimiterNone:
		return true, nil
	default:
		return false, []error{&InvalidDelimiterError{Value: d}}
	}
}

// Canonical maps legacy names to their delimiter and the empty value to auto.
func (d Delimiter) Canonical() Delimiter {
	if d == "" {
		return DelimiterAuto
	}
	if mapped, ok := legacyDelimiters[d]; ok {
		return mapped
	}
	return d
}

// Resolve returns the concrete delimiter used for the given option token.
// Under auto, a token that already ends in "=" resolves to equals; tokens
// without a recognised prefix fall back to space.
func (d Delimiter) Resolve(token string) Delimiter {
	canonical := d.Canonical()
	if canonical != DelimiterAuto {
		return canonical
	}
	switch {
	case strings.HasSuffix(token, "="), strings.HasPrefix(token, "--"):
		return DelimiterEquals
	case strings.HasPrefix(token, "/"):
		return DelimiterColon
	default:
		return DelimiterSpace
	}
}
