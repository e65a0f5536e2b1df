// SPDX-License-Identifier: MPL-2.0

package discovery

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeParseSkipped marks a description file that failed to load.
	CodeParseSkipped = "tool_parse_skipped"
	// CodeNameMismatch marks a file in a tool directory that describes
	// another tool.
	CodeNameMismatch = "tool_name_mismatch"
	// CodeBadVersion marks a description whose declared version is not a
	// version.
	CodeBadVersion = "tool_version_invalid"
	// CodeUnreadableDir marks a search directory that could not be listed.
	CodeUnreadableDir = "search_dir_unreadable"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal discovery problem returned to the caller
	// instead of being printed, so the CLI decides how to render it.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier.
		Code    string
		Message string
		// Path is the file or directory concerned.
		Path string
		// Cause is the underlying error, if any.
		Cause error
	}
)
