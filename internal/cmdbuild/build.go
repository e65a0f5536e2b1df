// SPDX-License-Identifier: MPL-2.0

package cmdbuild

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/toolrun/toolrun/internal/shell"
	"github.com/toolrun/toolrun/internal/valuetype"
	"github.com/toolrun/toolrun/pkg/platform"
	"github.com/toolrun/toolrun/pkg/tooldef"
)

// Invocation is the result of a build. Args excludes the executable.
type Invocation struct {
	Args []string
	Env  map[string]string
}

// builder carries the inputs of one Build call.
type builder struct {
	cmd      *tooldef.Command
	params   map[string]any
	profile  *tooldef.Profile
	dialect  shell.Dialect
	platform platform.Type
	args     []string
}

// Build validates params against cmd and renders the invocation for the
// given dialect and platform. profile supplies the named environment
// variable sets the command refers to; it may be nil when the command
// refers to none.
func Build(cmd *tooldef.Command, params map[string]any, profile *tooldef.Profile, d shell.Dialect, p platform.Type) (*Invocation, error) {
	b := &builder{cmd: cmd, params: params, profile: profile, dialect: d, platform: p}

	if err := b.checkUnknown(); err != nil {
		return nil, err
	}

	if cmd.Subcommand != "" {
		b.args = append(b.args, cmd.Subcommand)
	}
	if err := b.flags(true); err != nil {
		return nil, err
	}
	if err := b.options(cmd.Options); err != nil {
		return nil, err
	}
	if err := b.flags(false); err != nil {
		return nil, err
	}

	regular, last := b.splitArguments()
	for _, a := range regular {
		if err := b.argument(a); err != nil {
			return nil, err
		}
	}
	if err := b.options(cmd.PostOptions); err != nil {
		return nil, err
	}
	if last != nil {
		if err := b.argument(last); err != nil {
			return nil, err
		}
	}

	env, err := b.environment()
	if err != nil {
		return nil, err
	}

	return &Invocation{Args: b.args, Env: env}, nil
}

// value returns the supplied value of a parameter; absent and nil are the same.
func (b *builder) value(name string) (any, bool) {
	v, ok := b.params[name]
	return v, ok && v != nil
}

func (b *builder) flags(prefix bool) error {
	for i := range b.cmd.Flags {
		f := &b.cmd.Flags[i]
		if (f.Position == tooldef.FlagPositionPrefix) != prefix || !tooldef.AppliesTo(f.Platforms, b.platform) {
			continue
		}
		on := f.Default
		if raw, ok := b.value(f.Name); ok {
			v, err := valuetype.Bool(f.Name, raw)
			if err != nil {
				return err
			}
			on = v
		}
		if on {
			b.args = append(b.args, f.CLI)
		}
	}
	return nil
}

func (b *builder) options(opts []tooldef.OptionSpec) error {
	for i := range opts {
		o := &opts[i]
		if !tooldef.AppliesTo(o.Platforms, b.platform) {
			continue
		}

		raw, ok := b.value(o.Name)
		if !ok {
			raw, ok = o.Default, o.Default != nil
		}
		if !ok {
			if o.Required {
				return valuetype.Missing(o.Name)
			}
			continue
		}

		v, err := valuetype.Validate(o.Name, o.Constraints, raw)
		if err != nil {
			return err
		}
		items := b.formatPaths(&o.Constraints, v.Items)

		// A list without a separator repeats the option once per element.
		if v.List && o.Separator == "" {
			for _, item := range items {
				b.args = append(b.args, formatOption(o.CLI, o.Delimiter, item)...)
			}
			continue
		}
		b.args = append(b.args, formatOption(o.CLI, o.Delimiter, strings.Join(items, o.Separator))...)
	}
	return nil
}

// splitArguments orders the positional arguments by declared position;
// arguments without one keep their declaration order after those with one.
func (b *builder) splitArguments() ([]*tooldef.ArgumentSpec, *tooldef.ArgumentSpec) {
	type keyed struct {
		spec *tooldef.ArgumentSpec
		key  int
	}

	var (
		regular []keyed
		last    *tooldef.ArgumentSpec
	)
	for i := range b.cmd.Arguments {
		a := &b.cmd.Arguments[i]
		if a.Position.IsLast() {
			last = a
			continue
		}
		key := len(b.cmd.Arguments) + i
		if idx, ok := a.Position.Index(); ok {
			key = idx
		}
		regular = append(regular, keyed{spec: a, key: key})
	}

	slices.SortStableFunc(regular, func(x, y keyed) int { return cmp.Compare(x.key, y.key) })

	out := make([]*tooldef.ArgumentSpec, len(regular))
	for i, k := range regular {
		out[i] = k.spec
	}
	return out, last
}

func (b *builder) argument(a *tooldef.ArgumentSpec) error {
	raw, ok := b.value(a.Name)
	if !ok {
		if a.Required {
			return valuetype.Missing(a.Name)
		}
		return nil
	}

	var items []string
	if a.Variadic {
		elem := a.Constraints
		if elem.EffectiveType() == tooldef.TypeArray {
			elem.Type, elem.Of, elem.Size = elem.ElementType(), "", nil
		}

		values := variadicValues(raw, a.Separator)
		if len(values) < a.MinValues() {
			return &valuetype.ValidationError{
				Name:   a.Name,
				Value:  raw,
				Reason: fmt.Sprintf("expected at least %d values, got %d", a.MinValues(), len(values)),
			}
		}
		for i, item := range values {
			v, err := valuetype.Validate(fmt.Sprintf("%s[%d]", a.Name, i), elem, item)
			if err != nil {
				return err
			}
			items = append(items, v.Items...)
		}
		items = b.formatPaths(&elem, items)
	} else {
		v, err := valuetype.Validate(a.Name, a.Constraints, raw)
		if err != nil {
			return err
		}
		items = b.formatPaths(&a.Constraints, v.Items)
	}

	b.args = append(b.args, items...)
	return nil
}

// variadicValues spreads raw into its elements. A string is split on sep
// when one is declared.
func variadicValues(raw any, sep string) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case string:
		if sep == "" {
			return []any{v}
		}
		parts := strings.Split(v, sep)
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		// Other slice kinds are spread by the array validator.
		v2, err := valuetype.Validate("", tooldef.Constraints{Type: tooldef.TypeArray}, raw)
		if err != nil || !v2.List {
			return []any{raw}
		}
		out := make([]any, len(v2.Items))
		for i, s := range v2.Items {
			out[i] = s
		}
		return out
	}
}

func (b *builder) formatPaths(c *tooldef.Constraints, items []string) []string {
	isFile := c.EffectiveType() == tooldef.TypeFile ||
		(c.EffectiveType() == tooldef.TypeArray && c.ElementType() == tooldef.TypeFile)
	if !isFile {
		return items
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = b.dialect.FormatPath(item)
	}
	return out
}

// checkUnknown rejects parameters the command neither declares nor
// references from an environment variable.
func (b *builder) checkUnknown() error {
	known := make(map[string]bool)
	for _, name := range b.cmd.ParameterNames() {
		known[name] = true
	}
	for _, ev := range b.envSpecs() {
		if ev.From != "" {
			known[ev.From] = true
		}
	}

	names := make([]string, 0, len(b.params))
	for name := range b.params {
		if !known[name] {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	slices.Sort(names)
	return &valuetype.ValidationError{
		Name:   names[0],
		Reason: fmt.Sprintf("unknown parameter for command %q", b.cmd.Name),
	}
}
