// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/toolrun/toolrun/internal/toolcache"
	"github.com/toolrun/toolrun/internal/version"
	"github.com/toolrun/toolrun/internal/watch"
	"github.com/toolrun/toolrun/pkg/tooldef"
)

// ErrToolNotFound is the sentinel error wrapped by ToolNotFoundError.
var ErrToolNotFound = errors.New("tool description not found")

type (
	// Discovery finds and loads tool descriptions. It is safe for
	// concurrent use.
	Discovery struct {
		dirs   []string
		cache  *toolcache.Cache[*tooldef.Tool]
		logger *log.Logger
	}

	// Option configures a Discovery.
	Option func(*Discovery)

	// Match is a located and built tool description.
	Match struct {
		Tool *tooldef.Tool
		// Path is the absolute path of the description file.
		Path string
	}

	// LookupResult bundles a lookup with the diagnostics it produced.
	LookupResult struct {
		Match       *Match
		Diagnostics []Diagnostic
	}

	// ToolNotFoundError is returned when no description of a tool satisfies
	// the request.
	ToolNotFoundError struct {
		Name       string
		Constraint string
		// Searched lists the candidate files that were considered.
		Searched []string
		// Versions lists the declared versions that were available.
		Versions []string
	}
)

// Error implements the error interface.
func (e *ToolNotFoundError) Error() string {
	msg := fmt.Sprintf("no description of tool %q", e.Name)
	if e.Constraint != "" {
		msg += fmt.Sprintf(" satisfies %q", e.Constraint)
	}
	if len(e.Versions) > 0 {
		msg += " (available: " + strings.Join(e.Versions, ", ") + ")"
	} else if len(e.Searched) == 0 {
		msg += " in the search directories"
	}
	return msg
}

// Unwrap returns ErrToolNotFound for errors.Is() compatibility.
func (e *ToolNotFoundError) Unwrap() error { return ErrToolNotFound }

// New creates a Discovery over dirs, searched in order.
func New(dirs []string, opts ...Option) *Discovery {
	d := &Discovery{dirs: slices.Clone(dirs), logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(d)
	}
	if d.cache == nil {
		d.cache = toolcache.New[*tooldef.Tool](toolcache.DefaultCapacity, toolcache.WithLogger(d.logger), toolcache.WithName("tools"))
	}
	return d
}

// WithCache shares an existing cache of built tools.
func WithCache(c *toolcache.Cache[*tooldef.Tool]) Option {
	return func(d *Discovery) { d.cache = c }
}

// WithLogger sets the logger for loads and reloads.
func WithLogger(l *log.Logger) Option {
	return func(d *Discovery) {
		if l != nil {
			d.logger = l
		}
	}
}

// Dirs returns the search directories.
func (d *Discovery) Dirs() []string { return slices.Clone(d.dirs) }

// Load builds the description at path. Once built, a description is served
// from the cache until it is evicted by Invalidate, Watch or the cache's
// own LRU policy; the file is not re-read when it changes on disk.
func (d *Discovery) Load(path string) (*tooldef.Tool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return d.cache.GetOrLoad(abs, func() (*tooldef.Tool, error) {
		d.logger.Debug("loading tool description", "path", abs)
		return tooldef.Load(abs)
	})
}

// Candidates lists the description files that may describe name, in search
// order.
func (d *Discovery) Candidates(name string) ([]string, []Diagnostic) {
	var (
		files []string
		diags []Diagnostic
	)
	for _, dir := range d.dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		for _, ext := range tooldef.Extensions() {
			path := filepath.Join(abs, name+ext)
			if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
				files = append(files, path)
			}
		}

		toolDir := filepath.Join(abs, name)
		if info, err := os.Stat(toolDir); err != nil || !info.IsDir() {
			continue
		}
		entries, err := os.ReadDir(toolDir)
		if err != nil {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeUnreadableDir,
				Message:  "cannot list tool directory",
				Path:     toolDir,
				Cause:    err,
			})
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if _, ok := tooldef.FormatFromPath(e.Name()); ok {
				files = append(files, filepath.Join(toolDir, e.Name()))
			}
		}
	}
	return files, diags
}

// Find returns the description of name whose declared version is the
// highest satisfying constraint. An empty constraint accepts any version;
// descriptions without a version are only chosen when the constraint is
// empty and no versioned description exists. Among descriptions declaring
// the same version, the first in search order wins.
//
// Files named after the tool are considered first. When none of them
// describes it, every description in the search directories is scanned for
// one listing name among its aliases.
func (d *Discovery) Find(name, constraint string) (*LookupResult, error) {
	c, err := version.ParseConstraint(constraint)
	if err != nil {
		return nil, err
	}

	files, diags := d.Candidates(name)

	type loaded struct {
		path string
		tool *tooldef.Tool
	}
	var (
		versioned   []loaded
		unversioned []loaded
		versions    []string
	)
	accept := func(path string, tool *tooldef.Tool) {
		if tool.Version == "" {
			unversioned = append(unversioned, loaded{path, tool})
			return
		}
		if _, err := version.Parse(tool.Version); err != nil {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeBadVersion,
				Message:  "declared version is not a version",
				Path:     path,
				Cause:    err,
			})
			return
		}
		versioned = append(versioned, loaded{path, tool})
		versions = append(versions, tool.Version)
	}

	for _, path := range files {
		tool, err := d.Load(path)
		if err != nil {
			diags = append(diags, Diagnostic{
				Severity: SeverityError,
				Code:     CodeParseSkipped,
				Message:  "tool description failed to load",
				Path:     path,
				Cause:    err,
			})
			continue
		}
		if !describes(tool, name) {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeNameMismatch,
				Message:  fmt.Sprintf("file describes %q, not %q", tool.Name, name),
				Path:     path,
			})
			continue
		}
		accept(path, tool)
	}

	if len(versioned) == 0 && len(unversioned) == 0 {
		others, scanDiags := d.descriptionFiles()
		diags = append(diags, scanDiags...)
		for _, path := range others {
			if slices.Contains(files, path) {
				continue
			}
			tool, err := d.Load(path)
			if err != nil {
				// Unrelated broken files are reported when looked up by name.
				d.logger.Debug("skipping unloadable description in alias scan", "path", path, "error", err)
				continue
			}
			if !slices.Contains(tool.Aliases, name) {
				continue
			}
			files = append(files, path)
			accept(path, tool)
		}
	}

	if best, ok := c.Best(versions); ok {
		bestV := version.MustParse(best)
		for _, l := range versioned {
			if version.MustParse(l.tool.Version).Compare(bestV) == 0 {
				return &LookupResult{Match: &Match{Tool: l.tool, Path: l.path}, Diagnostics: diags}, nil
			}
		}
	}
	if c.IsAny() && len(versioned) == 0 && len(unversioned) > 0 {
		l := unversioned[0]
		return &LookupResult{Match: &Match{Tool: l.tool, Path: l.path}, Diagnostics: diags}, nil
	}

	return &LookupResult{Diagnostics: diags}, &ToolNotFoundError{
		Name:       name,
		Constraint: constraint,
		Searched:   files,
		Versions:   versions,
	}
}

// descriptionFiles lists every description file in the search directories,
// both <dir>/*.<ext> and <dir>/*/*.<ext>, in search order.
func (d *Discovery) descriptionFiles() ([]string, []Diagnostic) {
	var (
		files []string
		diags []Diagnostic
	)
	for _, dir := range d.dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		entries, err := os.ReadDir(abs)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Code:     CodeUnreadableDir,
					Message:  "cannot list search directory",
					Path:     abs,
					Cause:    err,
				})
			}
			continue
		}
		for _, e := range entries {
			path := filepath.Join(abs, e.Name())
			if !e.IsDir() {
				if _, ok := tooldef.FormatFromPath(e.Name()); ok {
					files = append(files, path)
				}
				continue
			}
			nested, err := os.ReadDir(path)
			if err != nil {
				continue
			}
			for _, n := range nested {
				if _, ok := tooldef.FormatFromPath(n.Name()); ok && !n.IsDir() {
					files = append(files, filepath.Join(path, n.Name()))
				}
			}
		}
	}
	return files, diags
}

// Invalidate drops the cached descriptions of the given files.
func (d *Discovery) Invalidate(paths ...string) int {
	n := 0
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil && d.cache.Evict(abs) {
			d.logger.Info("tool description changed, dropped from cache", "path", abs)
			n++
		}
	}
	return n
}

// Watch evicts cached descriptions whenever their files change, until ctx
// is cancelled. notify, when non-nil, is called with the changed paths
// after they were evicted.
func (d *Discovery) Watch(ctx context.Context, notify func(changed []string)) error {
	patterns := make([]string, 0, 2*len(tooldef.Extensions()))
	for _, ext := range tooldef.Extensions() {
		patterns = append(patterns, "*"+ext, "*/*"+ext)
	}

	w, err := watch.New(watch.Config{
		Roots:    d.dirs,
		Patterns: patterns,
		Logger:   d.logger,
		OnChange: func(_ context.Context, changed []string) error {
			d.Invalidate(changed...)
			if notify != nil {
				notify(changed)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	d.logger.Debug("watching tool directories", "dirs", w.Roots())
	return w.Run(ctx)
}

// describes reports whether tool answers to name directly or by alias.
func describes(tool *tooldef.Tool, name string) bool {
	return tool.Name == name || slices.Contains(tool.Aliases, name)
}
