// SPDX-License-Identifier: MPL-2.0

// Package runtime executes resolved tool invocations.
//
// An Executor locates the tool's executable (absolute path, PATH lookup of
// the name and its aliases, then search-path globs), merges the child
// environment, and asks the active shell dialect to join and run the command
// line. The outcome is an ExecutionResult whose exit disposition is
// classified from the process state:
//
//	exited    the exit code
//	signaled  128 + signal number
//	stopped   128 + stop signal number
//	unknown   1
//
// A timeout is never an exit disposition; it surfaces as *TimeoutError.
// A non-zero exit is an *ExecutionError unless ExecOptions.AllowFailure is set.
package runtime
