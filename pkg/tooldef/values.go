// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// lastPositionName is the sentinel spelling of the trailing position.
const lastPositionName = "last"

type (
	// Position is the slot of a positional argument: a non-negative index or
	// the trailing "last" slot. The zero value means "not declared"; such
	// arguments are ordered by declaration.
	Position struct {
		index int
		last  bool
		set   bool
	}

	// Size bounds the element count of an array value. An exact size N is
	// stored as Min = Max = N.
	Size struct {
		Min int
		Max int
	}

	// ValueList is a list of allowed values. Numbers and booleans in the
	// source document are stored in their canonical text form.
	ValueList []string

	// ProbeCommand is a version probe written either as one command string
	// or as an argv list.
	ProbeCommand struct {
		Line string
		Argv []string
	}
)

// At returns the position with the given index.
func At(index int) Position { return Position{index: index, set: true} }

// Last returns the trailing position.
func Last() Position { return Position{last: true, set: true} }

// IsLast reports whether p is the trailing position.
func (p Position) IsLast() bool { return p.last }

// Index returns the numeric index and whether one was declared.
func (p Position) Index() (int, bool) { return p.index, p.set && !p.last }

// IsZero reports whether no position was declared.
func (p Position) IsZero() bool { return !p.set }

// String renders the position the way it is written in description files.
func (p Position) String() string {
	switch {
	case p.last:
		return lastPositionName
	case p.set:
		return strconv.Itoa(p.index)
	default:
		return ""
	}
}

// UnmarshalJSON accepts an integer or the string "last".
func (p *Position) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != lastPositionName {
			return fmt.Errorf("position: expected integer or %q, got %q", lastPositionName, s)
		}
		*p = Last()
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("position: expected integer or %q: %w", lastPositionName, err)
	}
	if n < 0 {
		return fmt.Errorf("position: must be non-negative, got %d", n)
	}
	*p = At(n)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Position) MarshalJSON() ([]byte, error) {
	if p.last {
		return json.Marshal(lastPositionName)
	}
	return json.Marshal(p.index)
}

// Contains reports whether n lies within the bounds.
func (s Size) Contains(n int) bool { return n >= s.Min && n <= s.Max }

// String renders an exact size as "N" and a range as "[min, max]".
func (s Size) String() string {
	if s.Min == s.Max {
		return strconv.Itoa(s.Min)
	}
	return fmt.Sprintf("[%d, %d]", s.Min, s.Max)
}

// UnmarshalJSON accepts an integer or a two-element [min, max] array.
func (s *Size) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < 0 {
			return fmt.Errorf("size: must be non-negative, got %d", n)
		}
		*s = Size{Min: n, Max: n}
		return nil
	}
	var bounds []int
	if err := json.Unmarshal(data, &bounds); err != nil || len(bounds) != 2 {
		return errors.New("size: expected integer or [min, max]")
	}
	if bounds[0] < 0 || bounds[1] < bounds[0] {
		return fmt.Errorf("size: invalid range [%d, %d]", bounds[0], bounds[1])
	}
	*s = Size{Min: bounds[0], Max: bounds[1]}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Size) MarshalJSON() ([]byte, error) {
	if s.Min == s.Max {
		return json.Marshal(s.Min)
	}
	return json.Marshal([]int{s.Min, s.Max})
}

// UnmarshalJSON accepts a list of strings, numbers and booleans.
func (v *ValueList) UnmarshalJSON(data []byte) error {
	var raw []any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("values: expected a list of scalars: %w", err)
	}
	out := make(ValueList, 0, len(raw))
	for _, item := range raw {
		switch x := item.(type) {
		case string:
			out = append(out, x)
		case json.Number:
			out = append(out, x.String())
		case bool:
			out = append(out, strconv.FormatBool(x))
		default:
			return fmt.Errorf("values: unsupported element %v", item)
		}
	}
	*v = out
	return nil
}

// IsZero reports whether neither form was given.
func (c ProbeCommand) IsZero() bool { return c.Line == "" && len(c.Argv) == 0 }

// UnmarshalJSON accepts a command string or an argv list.
func (c *ProbeCommand) UnmarshalJSON(data []byte) error {
	var line string
	if err := json.Unmarshal(data, &line); err == nil {
		*c = ProbeCommand{Line: line}
		return nil
	}
	var argv []string
	if err := json.Unmarshal(data, &argv); err != nil {
		return errors.New("version_detection.command: expected string or list of strings")
	}
	*c = ProbeCommand{Argv: argv}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c ProbeCommand) MarshalJSON() ([]byte, error) {
	if c.Argv != nil {
		return json.Marshal(c.Argv)
	}
	return json.Marshal(c.Line)
}
