// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

// Sandbox type constants.
const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"
)

// detectOnce caches the sandbox detection result for the lifetime of the process.
//
// INVARIANT: detectSandboxFrom MUST NOT panic; sync.OnceValue re-panics on
// every call after a panic.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// SandboxType identifies the type of application sandbox, if any.
type SandboxType string

// DetectSandbox returns the sandbox the current process runs in. The result is
// cached after the first call.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// HostArgv rewrites argv so that it runs on the host when the process is
// confined to the given sandbox. Outside a sandbox argv is returned unchanged.
//
//	flatpak: flatpak-spawn --host <argv...>
//	snap:    snap run --shell <argv...>
func HostArgv(st SandboxType, argv []string) []string {
	var prefix []string
	switch st {
	case SandboxFlatpak:
		prefix = []string{"flatpak-spawn", "--host"}
	case SandboxSnap:
		prefix = []string{"snap", "run", "--shell"}
	default:
		return argv
	}
	out := make([]string, 0, len(prefix)+len(argv))
	out = append(out, prefix...)
	return append(out, argv...)
}

// detectSandboxFrom performs sandbox detection using the provided lookups so
// tests can inject behavior without touching process-wide state.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	// The /.flatpak-info file is always present inside Flatpak sandboxes.
	if err := statFile("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}
	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}
	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
