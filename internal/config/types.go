// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/toolrun/toolrun/internal/shell"
	"github.com/toolrun/toolrun/pkg/platform"
)

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	// DefaultTimeout bounds an execution when neither the config nor the
	// command line sets a limit.
	DefaultTimeout = 90 * time.Second
	// DefaultCacheSize is the number of parsed tool descriptions kept in memory.
	DefaultCacheSize = 64
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level written by the CLI logger.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError collects every field-level problem of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ToolPaths are the directories searched for tool descriptions.
		ToolPaths []string `json:"tool_paths" mapstructure:"tool_paths"`
		// DefaultTimeout bounds each execution.
		DefaultTimeout time.Duration `json:"default_timeout" mapstructure:"default_timeout"`
		// Shell overrides dialect detection when set.
		Shell shell.Name `json:"shell" mapstructure:"shell"`
		// Platform overrides the host platform for profile selection when set.
		Platform platform.Type `json:"platform" mapstructure:"platform"`
		// Headless applies the dialect's headless environment to child processes.
		Headless bool `json:"headless" mapstructure:"headless"`
		// CacheSize is the capacity of the parsed tool cache.
		CacheSize int `json:"cache_size" mapstructure:"cache_size"`
		LogLevel  LogLevel `json:"log_level" mapstructure:"log_level"`
		// Watch evicts cached tool descriptions when their files change.
		Watch bool `json:"watch" mapstructure:"watch"`
	}
)

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		ToolPaths:      []string{},
		DefaultTimeout: DefaultTimeout,
		Headless:       true,
		CacheSize:      DefaultCacheSize,
		LogLevel:       LogLevelInfo,
	}
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// IsValid returns whether the LogLevel is recognized. The zero value means info.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, "":
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid checks every field. An empty Shell or Platform means "detect".
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if c.Shell != "" {
		if ok, fieldErrs := c.Shell.IsValid(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}
	if c.Platform != "" {
		if ok, fieldErrs := c.Platform.IsValid(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}
	if ok, fieldErrs := c.LogLevel.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if c.DefaultTimeout <= 0 {
		errs = append(errs, fmt.Errorf("default_timeout must be positive, got %s", c.DefaultTimeout))
	}
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("cache_size must be positive, got %d", c.CacheSize))
	}
	for i, p := range c.ToolPaths {
		if p == "" {
			errs = append(errs, fmt.Errorf("tool_paths[%d] is empty", i))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// normalize maps user spellings ("/bin/zsh", "darwin") onto canonical
// names so environment overrides are as forgiving as the command line.
func (c *Config) normalize() {
	if c.Shell != "" {
		if n, err := shell.Parse(string(c.Shell)); err == nil {
			c.Shell = n
		}
	}
	if c.Platform != "" {
		if p, err := platform.Parse(string(c.Platform)); err == nil {
			c.Platform = p
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = LogLevelInfo
	}
}
