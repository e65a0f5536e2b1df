// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/toolrun/toolrun/internal/issue"
	"github.com/toolrun/toolrun/pkg/cueutil"
	"github.com/toolrun/toolrun/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "toolrun"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. TOOLRUN_DEFAULT_TIMEOUT.
	EnvPrefix = "TOOLRUN"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the toolrun configuration directory: %APPDATA% on
// Windows, ~/Library/Application Support on macOS and $XDG_CONFIG_HOME
// (default ~/.config) elsewhere.
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	var dir string
	switch runtime.GOOS {
	case platform.Windows:
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, "Library", "Application Support")
	default:
		dir = os.Getenv("XDG_CONFIG_HOME")
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(dir, AppName), nil
}

// Load reads the configuration and reports the file it came from ("" when
// only defaults and environment variables applied).
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	path, err := resolvePath(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the values match the configuration schema").
				Wrap(err).
				BuildError()
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	if ok, errs := cfg.IsValid(); !ok {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables as well as the config file").
			Wrap(errors.Join(errs...)).
			BuildError()
	}
	return cfg, path, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("tool_paths", defaults.ToolPaths)
	v.SetDefault("default_timeout", defaults.DefaultTimeout)
	v.SetDefault("shell", string(defaults.Shell))
	v.SetDefault("platform", string(defaults.Platform))
	v.SetDefault("headless", defaults.Headless)
	v.SetDefault("cache_size", defaults.CacheSize)
	v.SetDefault("log_level", string(defaults.LogLevel))
	v.SetDefault("watch", defaults.Watch)

	// TOOLRUN_TOOL_PATHS is comma separated, like every list viper reads
	// from the environment.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// resolvePath returns the config file to load. An explicit file must exist;
// the default location is optional.
func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				Wrap(fs.ErrNotExist).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	if p := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt); fileExists(p) {
		return p, nil
	}
	return "", nil
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into
// v. Concreteness is not required since every field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	unified, err := cueutil.Compile(configSchema, data, "#Config",
		cueutil.WithFilename(path), cueutil.WithConcrete(false))
	if err != nil {
		return err
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GenerateCUE renders cfg as a config file accepted by Load.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// toolrun configuration\n\n")
	if len(cfg.ToolPaths) > 0 {
		sb.WriteString("tool_paths: [\n")
		for _, p := range cfg.ToolPaths {
			fmt.Fprintf(&sb, "\t%q,\n", p)
		}
		sb.WriteString("]\n")
	}
	fmt.Fprintf(&sb, "default_timeout: %q\n", cfg.DefaultTimeout.String())
	if cfg.Shell != "" {
		fmt.Fprintf(&sb, "shell: %q\n", cfg.Shell)
	}
	if cfg.Platform != "" {
		fmt.Fprintf(&sb, "platform: %q\n", cfg.Platform)
	}
	fmt.Fprintf(&sb, "headless: %v\n", cfg.Headless)
	fmt.Fprintf(&sb, "cache_size: %d\n", cfg.CacheSize)
	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)
	fmt.Fprintf(&sb, "watch: %v\n", cfg.Watch)

	return sb.String()
}

// Save writes cfg to the config file in dir, creating dir when needed.
func Save(cfg *Config, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
