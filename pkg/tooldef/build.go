// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/toolrun/toolrun/pkg/platform"
)

type (
	// Tool is a built, immutable tool description.
	Tool struct {
		Name             string
		Version          string
		Aliases          []string
		Implements       string
		SearchPaths      map[string][]string
		VersionDetection *VersionDetection

		profiles []*Profile
		byName   map[string]*Profile
	}

	// Profile is a built profile with inheritance already resolved.
	Profile struct {
		Name       string
		Platforms  []platform.Type
		Shells     []string
		Inherits   string
		Version    string
		EnvVarSets map[string][]EnvVarSpec

		commands []*Command
		byName   map[string]*Command
	}

	// Command is a built command definition with name indices over its
	// options, flags and arguments.
	Command struct {
		CommandDefinition

		options map[string]*OptionSpec
		flags   map[string]*FlagSpec
		args    map[string]*ArgumentSpec
	}
)

// Build resolves inheritance, validates the definition and returns the
// immutable Tool. All structural problems are reported together.
func (d *ToolDefinition) Build() (*Tool, error) {
	if errs := d.validateProfiles(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	resolved, err := resolveInheritance(d.Name, d.Profiles)
	if err != nil {
		return nil, err
	}

	t := &Tool{
		Name:             d.Name,
		Version:          d.Version,
		Aliases:          slices.Clone(d.Aliases),
		Implements:       d.Implements,
		SearchPaths:      d.SearchPaths,
		VersionDetection: d.VersionDetection,
		profiles:         make([]*Profile, 0, len(resolved)),
		byName:           make(map[string]*Profile, len(resolved)),
	}

	var errs []error
	for _, pd := range resolved {
		p, perrs := buildProfile(d.Name, pd)
		errs = append(errs, perrs...)
		t.profiles = append(t.profiles, p)
		t.byName[p.Name] = p
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// Profiles returns the profiles in declaration order.
func (t *Tool) Profiles() []*Profile { return slices.Clone(t.profiles) }

// Profile returns the profile with the given name.
func (t *Tool) Profile(name string) (*Profile, bool) {
	p, ok := t.byName[name]
	return p, ok
}

// Names returns the tool name followed by its aliases.
func (t *Tool) Names() []string {
	return append([]string{t.Name}, t.Aliases...)
}

// Commands returns the commands in declaration order; inherited commands
// follow the profile's own.
func (p *Profile) Commands() []*Command { return slices.Clone(p.commands) }

// Command returns the command with the given name.
func (p *Profile) Command(name string) (*Command, bool) {
	c, ok := p.byName[name]
	return c, ok
}

// Option returns the option (or post-option) with the given name.
func (c *Command) Option(name string) (*OptionSpec, bool) {
	o, ok := c.options[name]
	return o, ok
}

// Flag returns the flag with the given name.
func (c *Command) Flag(name string) (*FlagSpec, bool) {
	f, ok := c.flags[name]
	return f, ok
}

// Argument returns the positional argument with the given name.
func (c *Command) Argument(name string) (*ArgumentSpec, bool) {
	a, ok := c.args[name]
	return a, ok
}

// ParameterNames returns every parameter name the command accepts.
func (c *Command) ParameterNames() []string {
	names := make([]string, 0, len(c.options)+len(c.flags)+len(c.args))
	for _, o := range c.Options {
		names = append(names, o.Name)
	}
	for _, o := range c.PostOptions {
		names = append(names, o.Name)
	}
	for _, f := range c.Flags {
		names = append(names, f.Name)
	}
	for _, a := range c.Arguments {
		names = append(names, a.Name)
	}
	return names
}

func (d *ToolDefinition) validateProfiles() []error {
	var errs []error
	fail := func(path, format string, args ...any) {
		errs = append(errs, &DefinitionError{Tool: d.Name, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(d.Name) == "" {
		fail("", "name must not be empty")
	}
	if len(d.Profiles) == 0 {
		fail("", "at least one profile is required")
	}
	if d.VersionDetection != nil {
		if d.VersionDetection.Command.IsZero() {
			fail("version_detection", "command must not be empty")
		}
		if _, err := regexp.Compile(d.VersionDetection.Pattern); err != nil {
			fail("version_detection.pattern", "invalid regular expression: %v", err)
		}
	}

	seen := make(map[string]bool, len(d.Profiles))
	for i, p := range d.Profiles {
		path := fmt.Sprintf("profiles[%d]", i)
		if p.Name == "" {
			fail(path, "name must not be empty")
			continue
		}
		if seen[p.Name] {
			fail(path, "duplicate profile name %q", p.Name)
		}
		seen[p.Name] = true
		if p.Inherits == p.Name {
			fail(path, "profile %q inherits from itself", p.Name)
		}
		for _, pl := range p.Platforms {
			if ok, perrs := pl.IsValid(); !ok {
				fail(path+".platforms", "%v", perrs[0])
			}
		}
	}
	return errs
}

func buildProfile(tool string, pd PlatformProfile) (*Profile, []error) {
	p := &Profile{
		Name:       pd.Name,
		Platforms:  slices.Clone(pd.Platforms),
		Shells:     slices.Clone(pd.Shells),
		Inherits:   pd.Inherits,
		Version:    pd.Version,
		EnvVarSets: cloneSets(pd.EnvVarSets),
		commands:   make([]*Command, 0, len(pd.Commands)),
		byName:     make(map[string]*Command, len(pd.Commands)),
	}

	var errs []error
	base := "profiles[" + pd.Name + "]"
	for setName, set := range pd.EnvVarSets {
		for _, ev := range set {
			errs = append(errs, validateEnvVar(tool, base+".env_var_sets["+setName+"]", ev)...)
		}
	}

	for _, cd := range pd.Commands {
		path := base + ".commands[" + cd.Name + "]"
		if cd.Name == "" {
			errs = append(errs, &DefinitionError{Tool: tool, Path: base, Message: "command name must not be empty"})
			continue
		}
		if _, dup := p.byName[cd.Name]; dup {
			errs = append(errs, &DefinitionError{Tool: tool, Path: path, Message: "duplicate command name"})
			continue
		}
		c, cerrs := buildCommand(tool, path, cd, pd.EnvVarSets)
		errs = append(errs, cerrs...)
		p.commands = append(p.commands, c)
		p.byName[c.Name] = c
	}
	return p, errs
}

func buildCommand(tool, path string, cd CommandDefinition, sets map[string][]EnvVarSpec) (*Command, []error) {
	// Own copies so the built command never aliases the decoded definition.
	cd.Options = slices.Clone(cd.Options)
	cd.PostOptions = slices.Clone(cd.PostOptions)
	cd.Flags = slices.Clone(cd.Flags)
	cd.Arguments = slices.Clone(cd.Arguments)
	cd.EnvVars = slices.Clone(cd.EnvVars)
	cd.EnvVarSets = slices.Clone(cd.EnvVarSets)

	c := &Command{
		CommandDefinition: cd,
		options:           make(map[string]*OptionSpec, len(cd.Options)+len(cd.PostOptions)),
		flags:             make(map[string]*FlagSpec, len(cd.Flags)),
		args:              make(map[string]*ArgumentSpec, len(cd.Arguments)),
	}

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, &DefinitionError{Tool: tool, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	params := make(map[string]bool)
	claim := func(kind, name string) bool {
		if name == "" {
			fail("%s name must not be empty", kind)
			return false
		}
		if params[name] {
			fail("parameter %q is declared more than once", name)
			return false
		}
		params[name] = true
		return true
	}

	for _, group := range [][]OptionSpec{c.Options, c.PostOptions} {
		for i := range group {
			o := &group[i]
			if !claim("option", o.Name) {
				continue
			}
			if o.CLI == "" {
				fail("option %q: cli token must not be empty", o.Name)
			}
			if ok, derrs := o.Delimiter.IsValid(); !ok {
				fail("option %q: %v", o.Name, derrs[0])
			}
			errs = append(errs, validateConstraints(tool, path+".options["+o.Name+"]", &o.Constraints)...)
			c.options[o.Name] = o
		}
	}

	for i := range c.Flags {
		f := &c.Flags[i]
		if !claim("flag", f.Name) {
			continue
		}
		if f.CLI == "" {
			fail("flag %q: cli token must not be empty", f.Name)
		}
		if f.Position != FlagPositionDefault && f.Position != FlagPositionPrefix && f.Position != "default" {
			fail("flag %q: invalid position %q (valid: prefix, default)", f.Name, f.Position)
		}
		c.flags[f.Name] = f
	}

	positions := make(map[int]string)
	lastSeen := ""
	for i := range c.Arguments {
		a := &c.Arguments[i]
		if !claim("argument", a.Name) {
			continue
		}
		if a.Position.IsLast() {
			if lastSeen != "" {
				fail("arguments %q and %q both take the last position", lastSeen, a.Name)
			}
			lastSeen = a.Name
		} else if idx, ok := a.Position.Index(); ok {
			if other, dup := positions[idx]; dup {
				fail("arguments %q and %q share position %d", other, a.Name, idx)
			}
			positions[idx] = a.Name
		}
		if a.MinCount != nil && (*a.MinCount < 0 || !a.Variadic) {
			fail("argument %q: min_count requires a variadic argument and must be non-negative", a.Name)
		}
		errs = append(errs, validateConstraints(tool, path+".arguments["+a.Name+"]", &a.Constraints)...)
		c.args[a.Name] = a
	}

	for _, ev := range cd.EnvVars {
		errs = append(errs, validateEnvVar(tool, path+".env_vars", ev)...)
	}
	for _, ref := range cd.EnvVarSets {
		if _, ok := sets[ref]; !ok {
			fail("env var set %q is not defined in the profile", ref)
		}
	}

	return c, errs
}

func validateConstraints(tool, path string, c *Constraints) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, &DefinitionError{Tool: tool, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if ok, terrs := c.Type.IsValid(); !ok {
		fail("%v", terrs[0])
	}
	if ok, terrs := c.Of.IsValid(); !ok {
		fail("of: %v", terrs[0])
	}
	if c.Of == TypeArray {
		fail("of: nested arrays are not supported")
	}
	if c.Of != "" && c.EffectiveType() != TypeArray {
		fail("of is only valid for arrays")
	}
	if c.Size != nil && c.EffectiveType() != TypeArray {
		fail("size is only valid for arrays")
	}
	if c.Range != nil && (len(c.Range) != 2 || c.Range[0] > c.Range[1]) {
		fail("range must be [low, high] with low <= high")
	}
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		fail("min %v is greater than max %v", *c.Min, *c.Max)
	}
	isSymbol := c.EffectiveType() == TypeSymbol || (c.EffectiveType() == TypeArray && c.ElementType() == TypeSymbol)
	if isSymbol && len(c.Values) == 0 {
		fail("symbol values require a non-empty values list")
	}
	return errs
}

func validateEnvVar(tool, path string, ev EnvVarSpec) []error {
	var errs []error
	if ev.Name == "" {
		errs = append(errs, &DefinitionError{Tool: tool, Path: path, Message: "env var name must not be empty"})
	}
	if (ev.Value == nil) == (ev.From == "") {
		errs = append(errs, &DefinitionError{
			Tool: tool, Path: path,
			Message: fmt.Sprintf("env var %q must set exactly one of value or from", ev.Name),
		})
	}
	return errs
}
