// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/toolrun/toolrun/internal/cmdbuild"
	"github.com/toolrun/toolrun/internal/discovery"
	"github.com/toolrun/toolrun/internal/profile"
	"github.com/toolrun/toolrun/internal/runtime"
	"github.com/toolrun/toolrun/internal/toolcache"
	"github.com/toolrun/toolrun/pkg/platform"
	"github.com/toolrun/toolrun/pkg/tooldef"
)

// DefaultTimeout bounds a run when neither the request nor WithTimeout
// sets a limit.
const DefaultTimeout = 90 * time.Second

// ErrCommandNotFound is the sentinel error wrapped by CommandNotFoundError.
var ErrCommandNotFound = errors.New("command not found")

type (
	// Orchestrator runs the pipeline for one dialect and platform. It is
	// safe for concurrent use.
	Orchestrator struct {
		discovery    *discovery.Discovery
		executor     *runtime.Executor
		platform     platform.Type
		versions     *toolcache.Cache[string]
		logger       *log.Logger
		headless     bool
		timeout      time.Duration
		probeTimeout time.Duration
	}

	// Option configures an Orchestrator.
	Option func(*Orchestrator)

	// Request names a tool command and the values for its parameters.
	Request struct {
		Tool string
		// DescriptionVersion constrains the declared version of the tool
		// description file, e.g. "~> 1.2". Empty accepts any.
		DescriptionVersion string
		// Command is the command name within the selected profile.
		Command string
		Params  map[string]any

		Dir   string
		Stdin io.Reader
		// Timeout overrides the orchestrator default when positive.
		Timeout      time.Duration
		AllowFailure bool
	}

	// Selection is the outcome of resolving a tool against the host.
	Selection struct {
		Tool *tooldef.Tool
		// Source is the description file the tool was loaded from.
		Source  string
		Profile *tooldef.Profile
		// Executable is the resolved path of the tool, or its name when it
		// could not be found.
		Executable string
		Resolved   bool
		// ToolVersion is the detected version of the installed tool; empty
		// when unknown.
		ToolVersion string
		Diagnostics []discovery.Diagnostic

		searchPaths []string
	}

	// Plan is a fully built invocation that has not been run.
	Plan struct {
		*Selection

		Command     *tooldef.Command
		Args        []string
		Env         map[string]string
		CommandLine string
	}

	// CommandNotFoundError is returned when the selected profile does not
	// define the requested command.
	CommandNotFoundError struct {
		Tool      string
		Profile   string
		Command   string
		Available []string
	}
)

// New creates an orchestrator over d and x. Defaults: the current
// platform, headless environments, a 90s timeout, a 10s version probe and
// a private version cache.
func New(d *discovery.Discovery, x *runtime.Executor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		discovery:    d,
		executor:     x,
		platform:     platform.Current(),
		logger:       log.New(io.Discard),
		headless:     true,
		timeout:      DefaultTimeout,
		probeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.versions == nil {
		o.versions = toolcache.New[string](toolcache.DefaultCapacity,
			toolcache.WithName("versions"), toolcache.WithLogger(o.logger))
	}
	return o
}

// WithPlatform sets the platform profiles are selected for.
func WithPlatform(p platform.Type) Option {
	return func(o *Orchestrator) {
		if p != "" {
			o.platform = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHeadless controls the dialect's headless environment overlay.
func WithHeadless(headless bool) Option {
	return func(o *Orchestrator) { o.headless = headless }
}

// WithTimeout sets the default execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithProbeTimeout bounds each version detection run.
func WithProbeTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.probeTimeout = d
		}
	}
}

// WithVersionCache shares detected versions, keyed by executable path.
func WithVersionCache(c *toolcache.Cache[string]) Option {
	return func(o *Orchestrator) { o.versions = c }
}

// Error implements the error interface.
func (e *CommandNotFoundError) Error() string {
	msg := fmt.Sprintf("profile %q of %q has no command %q", e.Profile, e.Tool, e.Command)
	if len(e.Available) > 0 {
		msg += " (available: " + strings.Join(e.Available, ", ") + ")"
	}
	return msg
}

// Unwrap returns ErrCommandNotFound for errors.Is() compatibility.
func (e *CommandNotFoundError) Unwrap() error { return ErrCommandNotFound }

// Platform returns the platform profiles are selected for.
func (o *Orchestrator) Platform() platform.Type { return o.platform }

// Select finds the tool description, locates the installed tool, detects
// its version and picks the profile for this host. An executable that
// cannot be found is not an error here: the version is then unknown.
func (o *Orchestrator) Select(ctx context.Context, tool, descriptionVersion string) (*Selection, error) {
	found, err := o.discovery.Find(tool, descriptionVersion)
	var diags []discovery.Diagnostic
	if found != nil {
		diags = found.Diagnostics
	}
	for _, d := range diags {
		o.logger.Warn(d.Message, "code", d.Code, "path", d.Path, "err", d.Cause)
	}
	if err != nil {
		return nil, err
	}

	t := found.Match.Tool
	sel := &Selection{
		Tool:        t,
		Source:      found.Match.Path,
		Executable:  t.Name,
		Diagnostics: diags,
		searchPaths: t.SearchPaths[string(o.platform)],
	}

	if path, err := o.executor.Resolve(t.Name, t.Aliases, sel.searchPaths); err == nil {
		sel.Executable, sel.Resolved = path, true
		sel.ToolVersion = o.toolVersion(ctx, t, path)
	} else {
		o.logger.Debug("tool not installed, version unknown", "tool", t.Name, "err", err)
	}

	sel.Profile, err = profile.Select(t, profile.Query{
		Platform:    o.platform,
		Shell:       o.executor.Dialect().Name(),
		ToolVersion: sel.ToolVersion,
	})
	if err != nil {
		return nil, err
	}
	if profile.Unverified(sel.Profile, sel.ToolVersion) {
		o.logger.Warn("profile version requirement not verified, tool version unknown",
			"tool", t.Name, "profile", sel.Profile.Name, "requires", sel.Profile.Version)
	}
	o.logger.Debug("selected profile", "tool", t.Name, "profile", sel.Profile.Name, "version", sel.ToolVersion)
	return sel, nil
}

// Plan selects the profile and builds the argument list and environment
// for req without running anything.
func (o *Orchestrator) Plan(ctx context.Context, req Request) (*Plan, error) {
	sel, err := o.Select(ctx, req.Tool, req.DescriptionVersion)
	if err != nil {
		return nil, err
	}

	cmd, ok := sel.Profile.Command(req.Command)
	if !ok {
		available := make([]string, 0, len(sel.Profile.Commands()))
		for _, c := range sel.Profile.Commands() {
			available = append(available, c.Name)
		}
		return nil, &CommandNotFoundError{
			Tool:      sel.Tool.Name,
			Profile:   sel.Profile.Name,
			Command:   req.Command,
			Available: available,
		}
	}

	d := o.executor.Dialect()
	inv, err := cmdbuild.Build(cmd, req.Params, sel.Profile, d, o.platform)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Selection:   sel,
		Command:     cmd,
		Args:        inv.Args,
		Env:         inv.Env,
		CommandLine: d.Join(sel.Executable, inv.Args...),
	}, nil
}

// Run plans req and executes it. The plan is returned whenever it was
// built, so callers can report what was attempted.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Plan, *runtime.ExecutionResult, error) {
	plan, err := o.Plan(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	timeout := o.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	res, err := o.executor.Execute(ctx, plan.Executable, plan.Args, runtime.ExecOptions{
		Aliases:      plan.Tool.Aliases,
		SearchPaths:  plan.searchPaths,
		Dir:          req.Dir,
		Env:          maps.Clone(plan.Env),
		Headless:     o.headless,
		Stdin:        req.Stdin,
		Timeout:      timeout,
		AllowFailure: req.AllowFailure,
	})
	return plan, res, err
}
