// SPDX-License-Identifier: MPL-2.0

// Package cueutil compiles user CUE documents against an embedded schema.
//
// Every CUE input in toolrun (tool description files and the config file)
// goes through the same flow:
//
//  1. Compile the embedded schema and look up its root definition
//  2. Compile the user document and unify it with that definition
//  3. Validate, then either decode into a Go value or export as JSON
//
// # Usage
//
//	//go:embed tool_schema.cue
//	var schemaBytes []byte
//
//	doc, err := cueutil.ExportJSON(schemaBytes, data, "#Tool",
//	    cueutil.WithFilename("ghostscript.cue"))
package cueutil
