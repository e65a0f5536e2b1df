// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runtime

import (
	"os"
	"syscall"
)

// classify derives the exit disposition from a finished process.
func classify(state *os.ProcessState) (ExitCode, Status, string) {
	if state == nil {
		return 1, StatusUnknown, ""
	}
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		return exitedOrUnknown(state)
	}

	switch {
	case ws.Exited():
		return ExitCode(ws.ExitStatus()), StatusExited, ""
	case ws.Signaled():
		return signalExitCode(int(ws.Signal())), StatusSignaled, ws.Signal().String()
	case ws.Stopped():
		return signalExitCode(int(ws.StopSignal())), StatusStopped, ws.StopSignal().String()
	default:
		return 1, StatusUnknown, ""
	}
}

func exitedOrUnknown(state *os.ProcessState) (ExitCode, Status, string) {
	if state.Exited() {
		return ExitCode(state.ExitCode()), StatusExited, ""
	}
	return 1, StatusUnknown, ""
}
