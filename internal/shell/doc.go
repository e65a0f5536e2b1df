// SPDX-License-Identifier: MPL-2.0

// Package shell implements the escaping, quoting and invocation rules of the
// supported command interpreters.
//
// The set of dialects is closed: POSIX shells (bash, zsh, sh, dash, fish),
// PowerShell (powershell, pwsh), Windows cmd, and the C shells (tcsh, csh).
// New returns the Dialect for a Name; there is no registry to extend.
//
// Every Dialect guarantees that a line produced by Join, when split by that
// interpreter, yields exactly the executable and arguments it was given. No
// argument is ever interpreted as shell syntax.
package shell
