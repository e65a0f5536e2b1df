// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"slices"
	"strings"
)

// mergeEnv applies overlays on top of base, a "KEY=value" list, in order.
// Existing keys are replaced in place; new keys are appended in sorted
// order so the result is deterministic. Keys compare case-insensitively
// when foldCase is set, as Windows environments do.
func mergeEnv(base []string, foldCase bool, overlays ...map[string]string) []string {
	norm := func(k string) string {
		if foldCase {
			return strings.ToUpper(k)
		}
		return k
	}

	out := slices.Clone(base)
	index := make(map[string]int, len(out))
	for i, kv := range out {
		if k, _, ok := splitEnv(kv); ok {
			index[norm(k)] = i
		}
	}

	for _, overlay := range overlays {
		for _, k := range slices.Sorted(maps.Keys(overlay)) {
			kv := k + "=" + overlay[k]
			if i, ok := index[norm(k)]; ok {
				out[i] = kv
				continue
			}
			index[norm(k)] = len(out)
			out = append(out, kv)
		}
	}
	return out
}

// splitEnv splits "KEY=value". Windows keeps per-drive entries such as
// "=C:=C:\dir" whose key starts with '='.
func splitEnv(kv string) (string, string, bool) {
	i := strings.IndexByte(kv[min(1, len(kv)):], '=')
	if i < 0 {
		return "", "", false
	}
	i += min(1, len(kv))
	return kv[:i], kv[i+1:], true
}
