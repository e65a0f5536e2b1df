// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strconv"
)

// Exit status kinds.
const (
	// StatusExited means the process called exit.
	StatusExited Status = "exited"
	// StatusSignaled means the process was terminated by a signal.
	StatusSignaled Status = "signaled"
	// StatusStopped means the process was stopped by a signal.
	StatusStopped Status = "stopped"
	// StatusUnknown covers every other state.
	StatusUnknown Status = "unknown"

	// signalBase is added to a signal number to form a shell-style exit code.
	signalBase = 128
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is the status a tool reported, or 128 plus the signal that
	// ended or stopped it. Only 0-255 can be observed by a parent process.
	ExitCode int

	// Status says how a process ended.
	Status string

	// InvalidExitCodeError reports a status no process can produce, such as
	// a Windows NTSTATUS value that does not fit a byte.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d is outside 0-255", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is() compatibility.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// IsValid reports whether c fits in a byte.
func (c ExitCode) IsValid() (bool, []error) {
	if c < 0 || c > 255 {
		return false, []error{&InvalidExitCodeError{Value: c}}
	}
	return true, nil
}

func (c ExitCode) IsSuccess() bool { return c == 0 }

// Signal returns the signal number encoded in c, if c is above 128.
func (c ExitCode) Signal() (int, bool) {
	if c > signalBase && c <= 255 {
		return int(c) - signalBase, true
	}
	return 0, false
}

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// String returns the status name.
func (s Status) String() string { return string(s) }

// signalExitCode maps a signal number to its shell-style exit code.
func signalExitCode(sig int) ExitCode { return ExitCode(signalBase + sig) }
