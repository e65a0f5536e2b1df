// SPDX-License-Identifier: MPL-2.0

package runtime

import "time"

// ExecutionResult is the outcome of one tool invocation.
type ExecutionResult struct {
	// ID identifies the execution in logs and traces.
	ID string
	// Executable is the resolved path of the tool.
	Executable string
	// Argv is the interpreter argv that was spawned.
	Argv []string
	// CommandLine is the joined line handed to the interpreter.
	CommandLine string
	ExitCode    ExitCode
	Status      Status
	// Signal names the terminating or stopping signal, if any.
	Signal     string
	Stdout     []byte
	Stderr     []byte
	StartedAt  time.Time
	FinishedAt time.Time
}

// Success reports whether the process exited with code zero.
func (r *ExecutionResult) Success() bool {
	return r.Status == StatusExited && r.ExitCode.IsSuccess()
}

// Duration returns the wall-clock run time.
func (r *ExecutionResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// StdoutString returns the captured standard output as text.
func (r *ExecutionResult) StdoutString() string { return string(r.Stdout) }

// StderrString returns the captured standard error as text.
func (r *ExecutionResult) StderrString() string { return string(r.Stderr) }
