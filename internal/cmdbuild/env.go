// SPDX-License-Identifier: MPL-2.0

package cmdbuild

import (
	"strings"

	"github.com/toolrun/toolrun/internal/valuetype"
	"github.com/toolrun/toolrun/pkg/platform"
	"github.com/toolrun/toolrun/pkg/tooldef"
)

// envSpecs returns the platform-applicable environment entries of the
// command: referenced sets in reference order, then direct entries.
func (b *builder) envSpecs() []tooldef.EnvVarSpec {
	var specs []tooldef.EnvVarSpec
	if b.profile != nil {
		for _, ref := range b.cmd.EnvVarSets {
			for _, ev := range b.profile.EnvVarSets[ref] {
				if tooldef.AppliesTo(ev.Platforms, b.platform) {
					specs = append(specs, ev)
				}
			}
		}
	}
	for _, ev := range b.cmd.EnvVars {
		if tooldef.AppliesTo(ev.Platforms, b.platform) {
			specs = append(specs, ev)
		}
	}
	return specs
}

// environment assembles the command's environment. Later entries win over
// earlier ones, so direct entries override set entries; a literal value
// always wins over a parameter reference for the same name, wherever
// either was declared.
func (b *builder) environment() (map[string]string, error) {
	specs := b.envSpecs()
	env := make(map[string]string, len(specs))

	for _, ev := range specs {
		if ev.From == "" {
			continue
		}
		raw, ok := b.value(ev.From)
		if !ok {
			continue
		}
		s, err := b.paramText(ev.From, raw)
		if err != nil {
			return nil, err
		}
		env[ev.Name] = s
	}

	for _, ev := range specs {
		if ev.Value != nil {
			env[ev.Name] = *ev.Value
		}
	}
	return env, nil
}

// paramText renders a parameter value for an environment variable using the
// parameter's own declaration when there is one.
func (b *builder) paramText(name string, raw any) (string, error) {
	if o, ok := b.cmd.Option(name); ok {
		v, err := valuetype.Validate(name, o.Constraints, raw)
		if err != nil {
			return "", err
		}
		sep := o.Separator
		if sep == "" {
			sep = ","
		}
		return strings.Join(b.formatPaths(&o.Constraints, v.Items), sep), nil
	}
	if f, ok := b.cmd.Flag(name); ok {
		on, err := valuetype.Bool(f.Name, raw)
		if err != nil {
			return "", err
		}
		if on {
			return "1", nil
		}
		return "0", nil
	}

	c := tooldef.Constraints{}
	if a, ok := b.cmd.Argument(name); ok {
		c = a.Constraints
		if a.Variadic && c.EffectiveType() != tooldef.TypeArray {
			c = tooldef.Constraints{Type: tooldef.TypeArray, Of: c.EffectiveType(), Min: c.Min, Max: c.Max, Range: c.Range, Values: c.Values}
		}
	} else if isList(raw) {
		c = tooldef.Constraints{Type: tooldef.TypeArray}
	}

	v, err := valuetype.Validate(name, c, raw)
	if err != nil {
		return "", err
	}
	return strings.Join(b.formatPaths(&c, v.Items), string(b.pathListSeparator())), nil
}

func isList(raw any) bool {
	switch raw.(type) {
	case []any, []string, []int, []float64:
		return true
	default:
		return false
	}
}

// pathListSeparator joins list values in an environment variable the way
// the target platform joins PATH entries.
func (b *builder) pathListSeparator() rune {
	if b.platform == platform.TypeWindows {
		return ';'
	}
	return ':'
}
