// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrFileTooLarge is returned when a document exceeds the configured size limit.
var ErrFileTooLarge = errors.New("file too large")

// FileTooLargeError reports a document that exceeds the size limit.
type FileTooLargeError struct {
	Filename string
	Size     int64
	Max      int64
}

// Error implements the error interface.
func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.Filename, e.Size, e.Max)
}

// Unwrap returns ErrFileTooLarge for errors.Is() compatibility.
func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// FormatError renders a CUE error as "<file>: <json-path>: <message>" lines,
// e.g. "ghostscript.cue: profiles[0].commands[1].name: incomplete value string".
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	// cueerrors.Errors promotes plain errors to a one-element list, which
	// would lose the wrap below.
	var ce cueerrors.Error
	if !errors.As(err, &ce) {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	all := cueerrors.Errors(err)
	if len(all) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(all))
	for _, e := range all {
		pathStr := formatPath(cueerrors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path at the start of the message.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}

		if pathStr != "" {
			lines = append(lines, pathStr+": "+msg)
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath turns a CUE path like ["profiles", "0", "name"] into
// "profiles[0].name".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns a *FileTooLargeError when data exceeds maxSize.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if size := int64(len(data)); size > maxSize {
		return &FileTooLargeError{Filename: filename, Size: size, Max: maxSize}
	}
	return nil
}
