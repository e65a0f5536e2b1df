// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isFatalFsnotifyError reports whether err means the watcher cannot keep
// working: the inotify watch limit (ENOSPC) or a descriptor limit was hit.
func isFatalFsnotifyError(err error) bool {
	for _, errno := range []unix.Errno{unix.ENOSPC, unix.EMFILE, unix.ENFILE} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
