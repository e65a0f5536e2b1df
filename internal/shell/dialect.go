// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ErrTimeout is the sentinel error wrapped by TimeoutError.
var ErrTimeout = errors.New("command timed out")

type (
	// Dialect is the capability contract every supported shell satisfies.
	Dialect interface {
		// Name returns the dialect name.
		Name() Name
		// Escape makes s literal-safe in the dialect's preferred quoting context.
		Escape(s string) string
		// Quote returns s as a single quoted word that the dialect reads back
		// as exactly s.
		Quote(s string) string
		// Join builds a full command line, quoting every argument that needs it.
		Join(executable string, args ...string) string
		// FormatPath rewrites path separators for the dialect's host.
		FormatPath(p string) string
		// EnvVar renders a reference to the environment variable name.
		EnvVar(name string) string
		// HeadlessEnvironment is the overlay that keeps GUI-capable tools
		// from opening windows.
		HeadlessEnvironment() map[string]string
		// Interpreter returns the argv that runs commandLine in this dialect.
		Interpreter(commandLine string) []string
		// Execute runs req through the interpreter.
		Execute(ctx context.Context, req Request) (*Output, error)
	}

	// Request describes one process launch through a dialect.
	Request struct {
		Executable string
		Args       []string
		// Dir is the working directory; empty means the current one.
		Dir string
		// Env is the complete child environment as "KEY=value" pairs;
		// nil inherits the parent's.
		Env []string
		// Stdin, when set, is copied to the child concurrently with the
		// draining of its stdout and stderr.
		Stdin io.Reader
		// Timeout bounds the wall-clock run time; zero means no limit beyond ctx.
		Timeout time.Duration
		// Prefix is prepended to the interpreter argv, e.g. to leave a sandbox.
		Prefix []string
	}

	// Output is the outcome of a process that ran to completion.
	Output struct {
		CommandLine string
		Argv        []string
		Stdout      []byte
		Stderr      []byte
		// State is nil when the process could not be started.
		State      *os.ProcessState
		StartedAt  time.Time
		FinishedAt time.Time
	}

	// TimeoutError is returned when a process outlives its timeout and is
	// killed. It is never reported as an exit status.
	TimeoutError struct {
		CommandLine string
		Timeout     time.Duration
	}
)

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %s: %s", e.Timeout, e.CommandLine)
}

// Unwrap returns ErrTimeout for errors.Is() compatibility.
func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// New returns the dialect for name.
func New(name Name) (Dialect, error) {
	switch name {
	case Bash, Zsh, Sh, Dash:
		return &posix{name: name}, nil
	case Fish:
		return &fish{}, nil
	case PowerShell, Pwsh:
		return &powerShell{name: name}, nil
	case Cmd:
		return &cmdShell{}, nil
	case Tcsh, Csh:
		return &cShell{name: name}, nil
	default:
		return nil, &UnknownShellError{Value: string(name)}
	}
}

// MustNew is like New but panics on an unknown name. It is meant for
// package-level variables and tests.
func MustNew(name Name) Dialect {
	d, err := New(name)
	if err != nil {
		panic(err)
	}
	return d
}

// joinWords renders the executable and arguments with quote applied to every
// word that needs it.
func joinWords(executable string, args []string, needsQuote func(string) bool, quote func(string) string, escape func(string) string) string {
	var b strings.Builder
	write := func(w string) {
		if needsQuote(w) {
			b.WriteString(quote(w))
		} else {
			b.WriteString(escape(w))
		}
	}

	write(executable)
	for _, a := range args {
		b.WriteByte(' ')
		write(a)
	}
	return b.String()
}

func identity(s string) string { return s }

// hasSpace reports whether s contains any Unicode white space.
func hasSpace(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' || r == 0x85 || r == 0xA0
	})
}

// allIn reports whether every byte of s is an ASCII letter, digit or one of extra.
func allIn(s, extra string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.IndexByte(extra, c) >= 0:
		default:
			return false
		}
	}
	return true
}
