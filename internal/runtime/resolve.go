// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/toolrun/toolrun/pkg/platform"
)

// Resolve locates the executable for a tool. An absolute path is returned
// unchanged. Otherwise the name and then each alias are looked up on PATH;
// failing that, each search path pattern is globbed (with "**" support and
// environment variable expansion) and the greatest executable match in
// natural order wins, so ".../gs/10.02/bin" beats ".../gs/9.50/bin".
func (e *Executor) Resolve(name string, aliases, patterns []string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}

	for _, candidate := range append([]string{name}, aliases...) {
		if candidate == "" {
			continue
		}
		if path, err := e.lookPath(candidate); err == nil {
			return path, nil
		}
	}

	for _, pattern := range patterns {
		pattern = os.Expand(pattern, e.getenv)
		matches, err := doublestar.FilepathGlob(filepath.FromSlash(pattern))
		if err != nil {
			e.logger.Debug("skipping search path", "pattern", pattern, "error", err)
			continue
		}
		slices.SortFunc(matches, func(a, b string) int { return naturalCompare(b, a) })
		for _, m := range matches {
			if isExecutable(m, e.goos) {
				return m, nil
			}
		}
	}

	return "", &ExecutableNotFoundError{Name: name, Aliases: aliases, Patterns: patterns}
}

// getenv reads a variable from the environment the executor passes to children.
func (e *Executor) getenv(key string) string {
	for _, kv := range slices.Backward(e.environ()) {
		if k, v, ok := splitEnv(kv); ok && k == key {
			return v
		}
	}
	return ""
}

func isExecutable(path string, goos platform.Type) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return goos == platform.TypeWindows || info.Mode().Perm()&0o111 != 0
}

// naturalCompare orders strings with runs of digits compared by value.
func naturalCompare(a, b string) int {
	for a != "" && b != "" {
		da, db := digitPrefix(a), digitPrefix(b)
		if da > 0 && db > 0 {
			na, nb := strings.TrimLeft(a[:da], "0"), strings.TrimLeft(b[:db], "0")
			if c := cmp.Compare(len(na), len(nb)); c != 0 {
				return c
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			a, b = a[da:], b[db:]
			continue
		}
		if a[0] != b[0] {
			return cmp.Compare(a[0], b[0])
		}
		a, b = a[1:], b[1:]
	}
	return cmp.Compare(len(a), len(b))
}

func digitPrefix(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
