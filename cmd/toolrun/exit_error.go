// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/toolrun/toolrun/internal/runtime"
)

// Exit codes for failures that have no child exit status.
const (
	exitFailure = 1
	// exitTimeout matches coreutils timeout(1).
	exitTimeout = 124
)

// ExitError carries the process exit status out of a RunE handler, so that
// only Execute calls os.Exit. Err is the failure that was already shown.
type ExitError struct {
	Code int
	Err  error
}

// newExitError wraps err with the status toolrun should exit with.
func newExitError(err error) *ExitError {
	return &ExitError{Code: exitCode(err), Err: err}
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCode maps err onto the process exit status: the tool's own status
// when it ran, 124 on timeout, 1 otherwise.
func exitCode(err error) int {
	if ee, ok := errors.AsType[*runtime.ExecutionError](err); ok && ee.Result != nil {
		if code := int(ee.Result.ExitCode); code != 0 {
			return code
		}
	}
	if errors.Is(err, runtime.ErrTimeout) {
		return exitTimeout
	}
	return exitFailure
}
