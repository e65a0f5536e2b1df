// SPDX-License-Identifier: MPL-2.0

// Package valuetype validates caller-supplied parameter values against their
// declared semantic type and constraints, and normalizes them to the text
// that ends up on a command line.
package valuetype

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/toolrun/toolrun/pkg/tooldef"
)

// ErrValidation is the sentinel error wrapped by ValidationError.
var ErrValidation = errors.New("parameter validation failed")

type (
	// Value is a validated parameter value in command-line form.
	Value struct {
		// Items holds one element for scalars and one per element for arrays.
		Items []string
		// List reports whether the value came from an array.
		List bool
	}

	// ValidationError reports a parameter value that does not satisfy its
	// declaration. It is raised before any process is spawned.
	ValidationError struct {
		Name   string
		Value  any
		Reason string
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("parameter %q: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("parameter %q: value %v: %s", e.Name, e.Value, e.Reason)
}

// Unwrap returns ErrValidation for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Missing returns the error for a required parameter that was not supplied.
func Missing(name string) error {
	return &ValidationError{Name: name, Reason: "required value is missing"}
}

// Scalar returns the single item of a non-list value.
func (v Value) Scalar() string {
	if len(v.Items) == 0 {
		return ""
	}
	return v.Items[0]
}

// Validate checks raw against the constraints and returns its normalized
// form. Strings are accepted for every scalar type so that command-line
// input can be validated without prior conversion.
func Validate(name string, c tooldef.Constraints, raw any) (Value, error) {
	if raw == nil {
		return Value{}, Missing(name)
	}

	if c.EffectiveType() != tooldef.TypeArray {
		if isList(raw) {
			return Value{}, &ValidationError{Name: name, Value: raw, Reason: fmt.Sprintf("expected a single %s, got a list", c.EffectiveType())}
		}
		s, err := scalar(name, c.EffectiveType(), c, raw)
		if err != nil {
			return Value{}, err
		}
		return Value{Items: []string{s}}, nil
	}

	items := listItems(raw)
	// Size bounds the element count and is checked before any element.
	if c.Size != nil && !c.Size.Contains(len(items)) {
		return Value{}, &ValidationError{
			Name:   name,
			Value:  raw,
			Reason: fmt.Sprintf("expected %s elements, got %d", c.Size, len(items)),
		}
	}

	elem := tooldef.Constraints{Type: c.ElementType(), Min: c.Min, Max: c.Max, Range: c.Range, Values: c.Values}
	out := Value{Items: make([]string, 0, len(items)), List: true}
	for i, item := range items {
		if item == nil {
			return Value{}, &ValidationError{Name: fmt.Sprintf("%s[%d]", name, i), Reason: "element is null"}
		}
		s, err := scalar(fmt.Sprintf("%s[%d]", name, i), elem.EffectiveType(), elem, item)
		if err != nil {
			return Value{}, err
		}
		out.Items = append(out.Items, s)
	}
	return out, nil
}

// Bool interprets raw as a boolean flag value.
func Bool(name string, raw any) (bool, error) {
	v, err := Validate(name, tooldef.Constraints{Type: tooldef.TypeBoolean}, raw)
	if err != nil {
		return false, err
	}
	return v.Scalar() == "true", nil
}

func scalar(name string, vt tooldef.ValueType, c tooldef.Constraints, raw any) (string, error) {
	fail := func(format string, args ...any) error {
		return &ValidationError{Name: name, Value: raw, Reason: fmt.Sprintf(format, args...)}
	}

	switch vt {
	case tooldef.TypeString:
		s, ok := text(raw)
		if !ok {
			return "", fail("expected a string")
		}
		if len(c.Values) > 0 && !slices.Contains(c.Values, s) {
			return "", fail("must be one of %s", strings.Join(c.Values, ", "))
		}
		return s, nil

	case tooldef.TypeSymbol:
		s, ok := text(raw)
		if !ok {
			return "", fail("expected a symbol")
		}
		if !slices.Contains(c.Values, s) {
			return "", fail("must be one of %s", strings.Join(c.Values, ", "))
		}
		return s, nil

	case tooldef.TypeFile:
		s, ok := raw.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return "", fail("expected a non-empty file path")
		}
		return s, nil

	case tooldef.TypeBoolean:
		switch b := raw.(type) {
		case bool:
			return strconv.FormatBool(b), nil
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(b))
			if err != nil {
				return "", fail("expected a boolean")
			}
			return strconv.FormatBool(parsed), nil
		default:
			return "", fail("expected a boolean")
		}

	case tooldef.TypeInteger:
		n, ok := integer(raw)
		if !ok {
			return "", fail("expected an integer")
		}
		if reason := checkBounds(float64(n), c); reason != "" {
			return "", fail("%s", reason)
		}
		return strconv.FormatInt(n, 10), nil

	case tooldef.TypeFloat:
		f, ok := number(raw)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fail("expected a number")
		}
		if reason := checkBounds(f, c); reason != "" {
			return "", fail("%s", reason)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil

	default:
		return "", fail("unsupported type %q", vt)
	}
}

func checkBounds(f float64, c tooldef.Constraints) string {
	if c.Min != nil && f < *c.Min {
		return fmt.Sprintf("must be >= %v", *c.Min)
	}
	if c.Max != nil && f > *c.Max {
		return fmt.Sprintf("must be <= %v", *c.Max)
	}
	if len(c.Range) == 2 && (f < c.Range[0] || f > c.Range[1]) {
		return fmt.Sprintf("must be within [%v, %v]", c.Range[0], c.Range[1])
	}
	return ""
}

// text renders any scalar as a string.
func text(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.String:
		return rv.String(), true
	default:
		return "", false
	}
}

func integer(raw any) (int64, bool) {
	switch v := raw.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
			return 0, false
		}
		return int64(v), true
	case float32:
		return integer(float64(v))
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return 0, false
		}
		return int64(rv.Uint()), true
	default:
		return 0, false
	}
}

func number(raw any) (float64, bool) {
	switch v := raw.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	if n, ok := integer(raw); ok {
		return float64(n), true
	}
	return 0, false
}

func isList(raw any) bool {
	k := reflect.ValueOf(raw).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// listItems returns the elements of a slice, or raw itself as a single
// element so that one command-line value can fill an array parameter.
func listItems(raw any) []any {
	if !isList(raw) {
		return []any{raw}
	}
	rv := reflect.ValueOf(raw)
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items
}
