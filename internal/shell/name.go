// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"fmt"
	"os"
	goruntime "runtime"
	"strings"
)

// Dialect names as written in tool profiles and configuration.
const (
	Bash       Name = "bash"
	Zsh        Name = "zsh"
	Sh         Name = "sh"
	Dash       Name = "dash"
	Fish       Name = "fish"
	PowerShell Name = "powershell"
	Pwsh       Name = "pwsh"
	Cmd        Name = "cmd"
	Tcsh       Name = "tcsh"
	Csh        Name = "csh"
)

// ErrUnknownShell is the sentinel error wrapped by UnknownShellError.
var ErrUnknownShell = errors.New("unknown shell")

type (
	// Name identifies a shell dialect.
	Name string

	// UnknownShellError is returned when a shell name is not recognized.
	UnknownShellError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *UnknownShellError) Error() string {
	return fmt.Sprintf("unknown shell %q (supported: bash, zsh, sh, dash, fish, powershell, pwsh, cmd, tcsh, csh)", e.Value)
}

// Unwrap returns ErrUnknownShell for errors.Is() compatibility.
func (e *UnknownShellError) Unwrap() error { return ErrUnknownShell }

// Names returns every supported dialect name.
func Names() []Name {
	return []Name{Bash, Zsh, Sh, Dash, Fish, PowerShell, Pwsh, Cmd, Tcsh, Csh}
}

// IsValid returns whether the Name is a supported dialect,
// and a list of validation errors if it is not.
func (n Name) IsValid() (bool, []error) {
	switch n {
	case Bash, Zsh, Sh, Dash, Fish, PowerShell, Pwsh, Cmd, Tcsh, Csh:
		return true, nil
	default:
		return false, []error{&UnknownShellError{Value: string(n)}}
	}
}

// String returns the dialect name.
func (n Name) String() string { return string(n) }

// Parse accepts the spellings users and environments produce for a shell:
// bare names, absolute paths ("/usr/bin/zsh", `C:\Windows\System32\cmd.exe`)
// and Windows executable names ("powershell.exe").
func Parse(s string) (Name, error) {
	base := strings.TrimSpace(s)
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(strings.ToLower(base), ".exe")
	// Login shells are reported as "-bash" in some environments.
	base = strings.TrimPrefix(base, "-")

	n := Name(base)
	if ok, _ := n.IsValid(); !ok {
		return "", &UnknownShellError{Value: s}
	}
	return n, nil
}

// Detect returns the dialect of the shell the process was started from,
// falling back to the platform default (powershell on Windows, sh elsewhere).
func Detect() Name {
	return detect(os.Getenv, goruntime.GOOS)
}

func detect(getenv func(string) string, goos string) Name {
	switch {
	case getenv("FISH_VERSION") != "":
		return Fish
	case getenv("ZSH_VERSION") != "":
		return Zsh
	case getenv("BASH_VERSION") != "":
		return Bash
	}

	if sh := getenv("SHELL"); sh != "" {
		if n, err := Parse(sh); err == nil {
			return n
		}
	}

	if goos == "windows" {
		return PowerShell
	}
	return Sh
}
