// SPDX-License-Identifier: MPL-2.0

//go:build windows

package shell

import (
	"os/exec"
	"strings"
	"syscall"
)

// configureProcess hands cmd.exe its command line verbatim. The default
// argv escaping of os/exec follows C runtime rules, which cmd.exe does not
// use, and would corrupt the quoting built by cmdShell.
func configureProcess(cmd *exec.Cmd, name Name, argv []string) {
	if name != Cmd {
		return
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: strings.Join(argv, " ")}
}
