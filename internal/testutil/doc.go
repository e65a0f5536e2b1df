// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include file layout (MustMkdirAll, MustWriteFile,
// MustWriteExecutable), gating of process-spawning tests (RequireProcesses)
// and isolation of the per-user configuration directory (SetConfigHome).
package testutil
