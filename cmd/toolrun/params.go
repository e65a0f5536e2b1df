// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidParam is returned for a malformed -p value.
var ErrInvalidParam = errors.New("invalid parameter")

// parseParams turns repeated "-p name=value" flags into a parameter map.
// A name given more than once collects its values into a list in flag
// order; a bare "-p name" sets a boolean flag. Values stay strings: the
// command builder converts them against the declared types.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, hasValue := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w %q: expected name=value", ErrInvalidParam, pair)
		}

		var v any = value
		if !hasValue {
			v = true
		}

		switch prev := params[name].(type) {
		case nil:
			params[name] = v
		case []any:
			params[name] = append(prev, v)
		default:
			params[name] = []any{prev, v}
		}
	}
	return params, nil
}
