// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetConfigHome points every variable the per-user configuration directory
// is derived from at dir and returns the directory the application should
// now use for its files (before appending its own name).
//
// It relies on t.Setenv, so tests calling it cannot run in parallel.
func SetConfigHome(t *testing.T, dir string) string {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		t.Setenv("USERPROFILE", dir)
		t.Setenv("APPDATA", filepath.Join(dir, "AppData", "Roaming"))
		return filepath.Join(dir, "AppData", "Roaming")
	case "darwin":
		t.Setenv("HOME", dir)
		return filepath.Join(dir, "Library", "Application Support")
	default:
		t.Setenv("HOME", dir)
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
		return filepath.Join(dir, ".config")
	}
}
