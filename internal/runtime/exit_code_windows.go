// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runtime

import "os"

// classify derives the exit disposition from a finished process. Windows
// processes always exit with a code; there are no signals.
func classify(state *os.ProcessState) (ExitCode, Status, string) {
	if state == nil || !state.Exited() {
		return 1, StatusUnknown, ""
	}
	code := ExitCode(state.ExitCode())
	if ok, _ := code.IsValid(); !ok {
		// NTSTATUS values such as 0xC0000005 do not fit a shell exit code.
		return 1, StatusExited, ""
	}
	return code, StatusExited, ""
}
