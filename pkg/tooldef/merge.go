// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"maps"
	"slices"
)

// Merge returns child with its parent's commands backfilled. The result holds
// every command of child followed by every parent command whose name child
// does not declare. Named environment variable sets are backfilled the same
// way. Neither argument is modified.
func Merge(child, parent PlatformProfile) PlatformProfile {
	merged := child
	merged.Platforms = slices.Clone(child.Platforms)
	merged.Shells = slices.Clone(child.Shells)

	merged.Commands = make([]CommandDefinition, 0, len(child.Commands)+len(parent.Commands))
	merged.Commands = append(merged.Commands, child.Commands...)
	for _, cmd := range parent.Commands {
		if !slices.ContainsFunc(child.Commands, func(c CommandDefinition) bool { return c.Name == cmd.Name }) {
			merged.Commands = append(merged.Commands, cmd)
		}
	}

	if len(child.EnvVarSets) > 0 || len(parent.EnvVarSets) > 0 {
		merged.EnvVarSets = make(map[string][]EnvVarSpec, len(child.EnvVarSets)+len(parent.EnvVarSets))
		for name, set := range parent.EnvVarSets {
			merged.EnvVarSets[name] = slices.Clone(set)
		}
		maps.Copy(merged.EnvVarSets, cloneSets(child.EnvVarSets))
	}

	return merged
}

func cloneSets(sets map[string][]EnvVarSpec) map[string][]EnvVarSpec {
	out := make(map[string][]EnvVarSpec, len(sets))
	for name, set := range sets {
		out[name] = slices.Clone(set)
	}
	return out
}

// resolveInheritance merges every profile with its ancestors. Profiles are
// returned in declaration order.
func resolveInheritance(tool string, profiles []PlatformProfile) ([]PlatformProfile, error) {
	byName := make(map[string]int, len(profiles))
	for i, p := range profiles {
		byName[p.Name] = i
	}

	resolved := make(map[string]PlatformProfile, len(profiles))
	var resolve func(name string, chain []string) (PlatformProfile, error)
	resolve = func(name string, chain []string) (PlatformProfile, error) {
		if done, ok := resolved[name]; ok {
			return done, nil
		}
		if slices.Contains(chain, name) {
			return PlatformProfile{}, &InheritanceCycleError{Tool: tool, Chain: append(slices.Clone(chain), name)}
		}

		p := profiles[byName[name]]
		if p.Inherits == "" {
			resolved[name] = p
			return p, nil
		}

		if _, ok := byName[p.Inherits]; !ok {
			return PlatformProfile{}, &UnknownParentError{Tool: tool, Profile: name, Parent: p.Inherits}
		}
		parent, err := resolve(p.Inherits, append(chain, name))
		if err != nil {
			return PlatformProfile{}, err
		}

		merged := Merge(p, parent)
		resolved[name] = merged
		return merged, nil
	}

	out := make([]PlatformProfile, 0, len(profiles))
	for _, p := range profiles {
		r, err := resolve(p.Name, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
