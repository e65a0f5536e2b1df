// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package shell

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configureProcess starts the interpreter in its own process group so that a
// timeout kills the tool and everything it spawned, not only the shell.
func configureProcess(cmd *exec.Cmd, _ Name, _ []string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		if err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL); err != nil && err != unix.ESRCH {
			return cmd.Process.Kill()
		}
		return nil
	}
}
