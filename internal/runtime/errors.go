// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/toolrun/toolrun/internal/shell"
)

// maxErrorStderr caps the bytes of stderr quoted in an ExecutionError message.
const maxErrorStderr = 512

var (
	// ErrExecutableNotFound is the sentinel error wrapped by ExecutableNotFoundError.
	ErrExecutableNotFound = errors.New("executable not found")

	// ErrExecutionFailed is the sentinel error wrapped by ExecutionError.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrTimeout is the sentinel error wrapped by TimeoutError.
	ErrTimeout = shell.ErrTimeout
)

type (
	// TimeoutError is returned when a tool outlives its timeout. The process
	// group has been killed by the time it is returned.
	TimeoutError = shell.TimeoutError

	// ExecutableNotFoundError is returned when neither the name, its aliases
	// nor any search path pattern locate an executable.
	ExecutableNotFoundError struct {
		Name     string
		Aliases  []string
		Patterns []string
	}

	// ExecutionError is returned for a process that did not exit with code
	// zero. It carries the result, including captured output.
	ExecutionError struct {
		Result *ExecutionResult
	}
)

// Error implements the error interface.
func (e *ExecutableNotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "executable %q not found in PATH", e.Name)
	if len(e.Aliases) > 0 {
		fmt.Fprintf(&b, " (aliases: %s)", strings.Join(e.Aliases, ", "))
	}
	if len(e.Patterns) > 0 {
		fmt.Fprintf(&b, " or search paths %s", strings.Join(e.Patterns, ", "))
	}
	return b.String()
}

// Unwrap returns ErrExecutableNotFound for errors.Is() compatibility.
func (e *ExecutableNotFoundError) Unwrap() error { return ErrExecutableNotFound }

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	r := e.Result
	msg := fmt.Sprintf("%s %s with code %d", r.CommandLine, r.Status, r.ExitCode)
	if r.Signal != "" {
		msg += " (" + r.Signal + ")"
	}
	if stderr := strings.TrimSpace(r.StderrString()); stderr != "" {
		if len(stderr) > maxErrorStderr {
			cut := maxErrorStderr
			for cut > 0 && !utf8.RuneStart(stderr[cut]) {
				cut--
			}
			stderr = stderr[:cut] + "..."
		}
		msg += ": " + stderr
	}
	return msg
}

// Unwrap returns ErrExecutionFailed for errors.Is() compatibility.
func (e *ExecutionError) Unwrap() error { return ErrExecutionFailed }
