// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// MustMkdirAll creates a directory along with any necessary parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes content to path, creating parent directories.
// The test fails immediately if the operation fails.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// MustWriteExecutable writes a script to path with the executable bit set.
func MustWriteExecutable(t testing.TB, path, script string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// RequireProcesses skips tests that spawn POSIX shell scripts: in -short
// mode and on Windows.
func RequireProcesses(t testing.TB) {
	t.Helper()
	if testing.Short() {
		t.Skip("spawns processes")
	}
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell script as the tool")
	}
}
