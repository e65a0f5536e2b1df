// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/toolrun/toolrun/internal/app/execute"
	"github.com/toolrun/toolrun/internal/config"
	"github.com/toolrun/toolrun/internal/discovery"
	"github.com/toolrun/toolrun/internal/runtime"
	"github.com/toolrun/toolrun/internal/shell"
	"github.com/toolrun/toolrun/internal/toolcache"
	"github.com/toolrun/toolrun/pkg/platform"
	"github.com/toolrun/toolrun/pkg/tooldef"
)

type (
	// App wires CLI services. Every command handler receives the App and
	// builds a session from it, so tests can swap the config provider and
	// the standard streams.
	App struct {
		Config config.Provider
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		flags globalFlags
	}

	// Dependencies are the injection points of NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// globalFlags are the persistent flags of the root command. They win
	// over the configuration file and environment.
	globalFlags struct {
		verbose    bool
		configFile string
		toolPaths  []string
		shell      string
		platform   string
		timeout    time.Duration
	}

	// session is the per-invocation service graph.
	session struct {
		cfg          *config.Config
		logger       *log.Logger
		dialect      shell.Dialect
		platform     platform.Type
		discovery    *discovery.Discovery
		orchestrator *execute.Orchestrator
	}
)

// NewApp creates an App, filling unset dependencies with the process
// streams and the file-backed config provider.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdin:  deps.Stdin,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// session loads the configuration, applies the global flags and builds the
// services a command needs.
func (a *App) session(ctx context.Context) (*session, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configFile})
	if err != nil {
		return nil, err
	}
	if err := a.applyFlags(cfg); err != nil {
		return nil, err
	}

	logger := newLogger(a.stderr, cfg.LogLevel, a.flags.verbose)

	name := cfg.Shell
	if name == "" {
		name = shell.Detect()
	}
	dialect, err := shell.New(name)
	if err != nil {
		return nil, err
	}

	plat := cfg.Platform
	if plat == "" {
		plat = platform.Current()
	}

	toolPaths := cfg.ToolPaths
	if len(toolPaths) == 0 {
		dir, err := config.ConfigDir()
		if err != nil {
			return nil, err
		}
		toolPaths = []string{filepath.Join(dir, "tools")}
	}

	cache := toolcache.New[*tooldef.Tool](cfg.CacheSize,
		toolcache.WithName("tools"), toolcache.WithLogger(logger))
	disc := discovery.New(toolPaths, discovery.WithCache(cache), discovery.WithLogger(logger))
	executor := runtime.NewExecutor(dialect, runtime.WithLogger(logger))

	logger.Debug("session ready", "shell", dialect.Name(), "platform", plat, "tool_paths", toolPaths)

	return &session{
		cfg:       cfg,
		logger:    logger,
		dialect:   dialect,
		platform:  plat,
		discovery: disc,
		orchestrator: execute.New(disc, executor,
			execute.WithPlatform(plat),
			execute.WithLogger(logger),
			execute.WithHeadless(cfg.Headless),
			execute.WithTimeout(cfg.DefaultTimeout),
		),
	}, nil
}

// applyFlags overlays the persistent flags on cfg. Tool paths given on the
// command line are searched before the configured ones.
func (a *App) applyFlags(cfg *config.Config) error {
	f := a.flags
	if len(f.toolPaths) > 0 {
		cfg.ToolPaths = append(slices.Clone(f.toolPaths), cfg.ToolPaths...)
	}
	if f.shell != "" {
		n, err := shell.Parse(f.shell)
		if err != nil {
			return err
		}
		cfg.Shell = n
	}
	if f.platform != "" {
		p, err := platform.Parse(f.platform)
		if err != nil {
			return err
		}
		cfg.Platform = p
	}
	if f.timeout > 0 {
		cfg.DefaultTimeout = f.timeout
	}
	if f.verbose {
		cfg.LogLevel = config.LogLevelDebug
	}
	return nil
}

func newLogger(w io.Writer, level config.LogLevel, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "toolrun",
	})
	lvl, err := log.ParseLevel(string(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger
}
