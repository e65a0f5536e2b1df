// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult contains the decoded value and the unified CUE value it came from.
type ParseResult[T any] struct {
	Value   *T
	Unified cue.Value
}

// Compile unifies data with the schema definition at schemaPath and validates
// the result. The returned value is ready for Decode or MarshalJSON.
func Compile(schema, data []byte, schemaPath string, opts ...Option) (cue.Value, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: compile schema: %w", schemaValue.Err())
	}

	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if root.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, root.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), o.filename)
	}

	unified := root.Unify(userValue)

	var validateOpts []cue.Option
	if o.concrete {
		validateOpts = append(validateOpts, cue.Concrete(true))
	}
	if err := unified.Validate(validateOpts...); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}

	return unified, nil
}

// ParseAndDecode compiles data against the schema and decodes it into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	unified, err := Compile(schema, data, schemaPath, opts...)
	if err != nil {
		return nil, err
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filenameOf(opts))
	}

	return &ParseResult[T]{Value: &result, Unified: unified}, nil
}

// ExportJSON compiles data against the schema and exports the unified value
// as JSON. Tool description loaders use this to share one decoding path
// across CUE, YAML and TOML inputs.
func ExportJSON(schema, data []byte, schemaPath string, opts ...Option) ([]byte, error) {
	unified, err := Compile(schema, data, schemaPath, opts...)
	if err != nil {
		return nil, err
	}

	out, err := unified.MarshalJSON()
	if err != nil {
		return nil, FormatError(err, filenameOf(opts))
	}
	return out, nil
}

func filenameOf(opts []Option) string {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o.filename
}
