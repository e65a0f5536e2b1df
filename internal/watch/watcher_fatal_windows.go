// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"

	"golang.org/x/sys/windows"
)

// isFatalFsnotifyError reports whether err means the watcher cannot keep
// working: the handle limit was hit, the watched directory handle became
// invalid, or the notification buffer could not be allocated.
func isFatalFsnotifyError(err error) bool {
	for _, errno := range []windows.Errno{
		windows.ERROR_TOO_MANY_OPEN_FILES,
		windows.ERROR_INVALID_HANDLE,
		windows.ERROR_NOT_ENOUGH_MEMORY,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
