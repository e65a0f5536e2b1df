// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/toolrun/toolrun/pkg/cueutil"
)

const (
	// FormatCUE is a CUE document.
	FormatCUE Format = "cue"
	// FormatYAML is a YAML document.
	FormatYAML Format = "yaml"
	// FormatTOML is a TOML document.
	FormatTOML Format = "toml"
)

//go:embed tool_schema.cue
var toolSchema []byte

// Format is the serialization of a tool description file.
type Format string

// Extensions lists the file extensions recognised as tool descriptions.
func Extensions() []string { return []string{".cue", ".yaml", ".yml", ".toml"} }

// FormatFromPath returns the format implied by the file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

// Parse decodes a tool description. Every format is validated against the
// same embedded CUE schema; filename is used in error messages only.
func Parse(data []byte, format Format, filename string) (*ToolDefinition, error) {
	var (
		doc []byte
		err error
	)
	switch format {
	case FormatCUE:
		doc = data
	case FormatYAML:
		doc, err = yamlToJSON(data)
	case FormatTOML:
		doc, err = tomlToJSON(data)
	default:
		return nil, fmt.Errorf("%s: %w: %q", filename, ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	exported, err := cueutil.ExportJSON(toolSchema, doc, "#Tool", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}

	var def ToolDefinition
	dec := json.NewDecoder(bytes.NewReader(exported))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("%s: decode tool description: %w", filename, err)
	}
	return &def, nil
}

// ParseFile reads and decodes the tool description at path.
func ParseFile(path string) (*ToolDefinition, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tool description: %w", err)
	}
	return Parse(data, format, path)
}

// Load reads, decodes and builds the tool description at path.
func Load(path string) (*Tool, error) {
	def, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return def.Build()
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("parse YAML: empty document")
	}
	return json.Marshal(doc)
}

func tomlToJSON(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	return json.Marshal(doc)
}
