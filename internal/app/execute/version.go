// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/google/shlex"

	"github.com/toolrun/toolrun/internal/runtime"
	"github.com/toolrun/toolrun/pkg/tooldef"
)

// ErrVersionNotDetected is returned when a probe ran but its output did not
// match the detection pattern.
var ErrVersionNotDetected = errors.New("version not detected")

// toolVersion returns the cached or freshly detected version of the tool
// at executable. Failures are logged and yield "" (unknown).
func (o *Orchestrator) toolVersion(ctx context.Context, t *tooldef.Tool, executable string) string {
	if t.VersionDetection == nil {
		return ""
	}
	v, err := o.versions.GetOrLoad(executable, func() (string, error) {
		return o.DetectVersion(ctx, t, executable)
	})
	if err != nil {
		o.logger.Warn("version detection failed", "tool", t.Name, "executable", executable, "err", err)
		return ""
	}
	return v
}

// DetectVersion runs the tool's version probe and extracts the version with
// its pattern. The probe's first word is replaced by executable when it
// names the tool; a non-zero exit is tolerated since many tools report
// their version that way.
func (o *Orchestrator) DetectVersion(ctx context.Context, t *tooldef.Tool, executable string) (string, error) {
	vd := t.VersionDetection
	if vd == nil {
		return "", fmt.Errorf("%s: no version detection recipe", t.Name)
	}

	argv, err := probeArgv(vd.Command)
	if err != nil {
		return "", err
	}
	if names(t, argv[0]) {
		argv[0] = executable
	}

	res, err := o.executor.Execute(ctx, argv[0], argv[1:], runtime.ExecOptions{
		Headless:     o.headless,
		Timeout:      o.probeTimeout,
		AllowFailure: true,
	})
	if err != nil {
		return "", err
	}

	re, err := regexp.Compile(vd.Pattern)
	if err != nil {
		return "", err
	}
	if v, ok := extract(re, res.Stdout); ok {
		return v, nil
	}
	if v, ok := extract(re, res.Stderr); ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q did not match %q", ErrVersionNotDetected, strings.Join(argv, " "), vd.Pattern)
}

// probeArgv turns the probe command into argv. A string is split with
// POSIX word rules so quoted arguments survive; it is never handed to a
// shell.
func probeArgv(c tooldef.ProbeCommand) ([]string, error) {
	argv := slices.Clone(c.Argv)
	if argv == nil {
		var err error
		if argv, err = shlex.Split(c.Line); err != nil {
			return nil, fmt.Errorf("version probe %q: %w", c.Line, err)
		}
	}
	if len(argv) == 0 {
		return nil, errors.New("version probe is empty")
	}
	return argv, nil
}

// names reports whether word refers to the tool by name or alias, with or
// without a directory or .exe suffix.
func names(t *tooldef.Tool, word string) bool {
	base := strings.TrimSuffix(filepath.Base(word), ".exe")
	return slices.Contains(t.Names(), base) || slices.Contains(t.Names(), word)
}

// extract returns the first capture group of the first match, or the whole
// match when the pattern has no groups.
func extract(re *regexp.Regexp, out []byte) (string, bool) {
	m := re.FindSubmatch(out)
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return strings.TrimSpace(string(m[1])), true
	}
	return strings.TrimSpace(string(m[0])), true
}
