// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"errors"
	"fmt"
	"slices"

	"github.com/toolrun/toolrun/pkg/platform"
)

const (
	// TypeString accepts any scalar and renders it as text.
	TypeString ValueType = "string"
	// TypeInteger accepts whole numbers.
	TypeInteger ValueType = "integer"
	// TypeFloat accepts any number.
	TypeFloat ValueType = "float"
	// TypeBoolean accepts booleans and their common spellings.
	TypeBoolean ValueType = "boolean"
	// TypeSymbol accepts one of a closed set of values.
	TypeSymbol ValueType = "symbol"
	// TypeFile accepts a file path; paths are formatted for the active dialect.
	TypeFile ValueType = "file"
	// TypeArray accepts a list whose elements are validated against Of.
	TypeArray ValueType = "array"
)

const (
	// FlagPositionDefault emits the flag after all options.
	FlagPositionDefault FlagPosition = ""
	// FlagPositionPrefix emits the flag before any option.
	FlagPositionPrefix FlagPosition = "prefix"
)

// ErrInvalidValueType is returned when a ValueType is not one of the defined types.
var ErrInvalidValueType = errors.New("invalid value type")

type (
	// ValueType is the semantic type of a parameter value.
	ValueType string

	// InvalidValueTypeError is returned when a ValueType value is not recognized.
	InvalidValueTypeError struct {
		Value ValueType
	}

	// FlagPosition says where a boolean flag lands in the argument list.
	FlagPosition string

	// Constraints are the type constraints shared by arguments and options.
	Constraints struct {
		// Type defaults to "string".
		Type ValueType `json:"type,omitempty"`
		// Min and Max bound numeric values (or array elements).
		Min *float64 `json:"min,omitempty"`
		Max *float64 `json:"max,omitempty"`
		// Range is an inclusive [low, high] pair, checked in addition to Min/Max.
		Range []float64 `json:"range,omitempty"`
		// Values is the allowed set for symbols (and optionally strings).
		Values ValueList `json:"values,omitempty"`
		// Size bounds the element count of an array.
		Size *Size `json:"size,omitempty"`
		// Of is the element type of an array (default "string").
		Of ValueType `json:"of,omitempty"`
	}

	// ArgumentSpec describes a positional argument.
	ArgumentSpec struct {
		Constraints

		Name     string   `json:"name"`
		Required bool     `json:"required,omitempty"`
		Position Position `json:"position,omitzero"`
		Variadic bool     `json:"variadic,omitempty"`
		// MinCount is the minimum number of values of a variadic argument (default 1).
		MinCount *int `json:"min_count,omitempty"`
		// Separator splits a string value into several values of a variadic argument.
		Separator string `json:"separator,omitempty"`
	}

	// OptionSpec describes a named option that carries a value.
	OptionSpec struct {
		Constraints

		Name string `json:"name"`
		// CLI is the literal token, e.g. "--output", "-sDEVICE=" or "/Fo".
		CLI       string          `json:"cli"`
		Delimiter Delimiter       `json:"delimiter,omitempty"`
		Separator string          `json:"separator,omitempty"`
		Platforms []platform.Type `json:"platforms,omitempty"`
		Required  bool            `json:"required,omitempty"`
		Default   any             `json:"default,omitempty"`
	}

	// FlagSpec describes a boolean switch.
	FlagSpec struct {
		Name      string          `json:"name"`
		CLI       string          `json:"cli"`
		Position  FlagPosition    `json:"position,omitempty"`
		Default   bool            `json:"default,omitempty"`
		Platforms []platform.Type `json:"platforms,omitempty"`
	}

	// EnvVarSpec is an environment variable set for a command, either from a
	// literal Value or from the parameter named by From.
	EnvVarSpec struct {
		Name      string          `json:"name"`
		Value     *string         `json:"value,omitempty"`
		From      string          `json:"from,omitempty"`
		Platforms []platform.Type `json:"platforms,omitempty"`
	}

	// CommandDefinition is the structural description of one invocable action.
	CommandDefinition struct {
		Name       string         `json:"name"`
		Subcommand string         `json:"subcommand,omitempty"`
		Options    []OptionSpec   `json:"options,omitempty"`
		Flags      []FlagSpec     `json:"flags,omitempty"`
		Arguments  []ArgumentSpec `json:"arguments,omitempty"`
		// PostOptions land between the positional block and the "last" argument.
		PostOptions []OptionSpec `json:"post_options,omitempty"`
		EnvVars     []EnvVarSpec `json:"env_vars,omitempty"`
		// EnvVarSets names profile-level sets pulled into this command.
		EnvVarSets []string `json:"env_var_sets,omitempty"`
	}

	// PlatformProfile is a platform, shell and version scoped bundle of commands.
	PlatformProfile struct {
		Name      string          `json:"name"`
		Platforms []platform.Type `json:"platforms,omitempty"`
		Shells    []string        `json:"shells,omitempty"`
		Inherits  string          `json:"inherits,omitempty"`
		// Version is a requirement on the installed tool's version, e.g. ">= 9.50".
		Version    string                  `json:"version,omitempty"`
		Commands   []CommandDefinition     `json:"commands,omitempty"`
		EnvVarSets map[string][]EnvVarSpec `json:"env_var_sets,omitempty"`
	}

	// VersionDetection is the recipe used to find the installed tool's version.
	VersionDetection struct {
		Command ProbeCommand `json:"command"`
		// Pattern is a regular expression whose first capture group is the version.
		Pattern string `json:"pattern"`
	}

	// ToolDefinition is a decoded tool description file.
	ToolDefinition struct {
		Name string `json:"name"`
		// Version is the declared version of this description.
		Version    string   `json:"version,omitempty"`
		Aliases    []string `json:"aliases,omitempty"`
		Implements string   `json:"implements,omitempty"`
		// SearchPaths maps a platform name to glob patterns of likely install locations.
		SearchPaths      map[string][]string `json:"search_paths,omitempty"`
		VersionDetection *VersionDetection   `json:"version_detection,omitempty"`
		Profiles         []PlatformProfile   `json:"profiles"`
	}
)

// Error implements the error interface.
func (e *InvalidValueTypeError) Error() string {
	return fmt.Sprintf("invalid value type %q (valid: string, integer, float, boolean, symbol, file, array)", e.Value)
}

// Unwrap returns ErrInvalidValueType for errors.Is() compatibility.
func (e *InvalidValueTypeError) Unwrap() error { return ErrInvalidValueType }

// IsValid returns whether the ValueType is one of the defined types,
// and a list of validation errors if it is not. The zero value is valid
// and means "string".
func (vt ValueType) IsValid() (bool, []error) {
	switch vt {
	case TypeString, TypeInteger, TypeFloat, TypeBoolean, TypeSymbol, TypeFile, TypeArray, "":
		return true, nil
	default:
		return false, []error{&InvalidValueTypeError{Value: vt}}
	}
}

// EffectiveType returns the declared type, defaulting to "string".
func (c *Constraints) EffectiveType() ValueType {
	if c.Type == "" {
		return TypeString
	}
	return c.Type
}

// ElementType returns the array element type, defaulting to "string".
func (c *Constraints) ElementType() ValueType {
	if c.Of == "" {
		return TypeString
	}
	return c.Of
}

// MinValues returns the minimum number of values a variadic argument takes.
func (a *ArgumentSpec) MinValues() int {
	if a.MinCount != nil {
		return *a.MinCount
	}
	return 1
}

// AppliesTo reports whether an entry restricted to platforms applies on p.
// An empty restriction applies everywhere.
func AppliesTo(platforms []platform.Type, p platform.Type) bool {
	return len(platforms) == 0 || slices.Contains(platforms, p)
}
