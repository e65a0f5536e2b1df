// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"fmt"
	"strings"
)

// Comparison operators accepted in constraints.
const (
	OpEqual        Op = "=="
	OpNotEqual     Op = "!="
	OpGreater      Op = ">"
	OpGreaterEqual Op = ">="
	OpLess         Op = "<"
	OpLessEqual    Op = "<="
	OpPessimistic  Op = "~>"
)

// ErrInvalidConstraint is the sentinel error wrapped by InvalidConstraintError.
var ErrInvalidConstraint = errors.New("invalid version constraint")

// opPrefixes is ordered so that two-character operators are tried first.
var opPrefixes = []Op{OpPessimistic, OpEqual, OpNotEqual, OpGreaterEqual, OpLessEqual, OpGreater, OpLess, "="}

type (
	// Op is a comparison operator.
	Op string

	// Clause is one (operator, version) pair of a constraint.
	Clause struct {
		Op      Op
		Version Version
	}

	// Constraint is a conjunction of clauses. The zero Constraint matches
	// every version.
	Constraint struct {
		clauses  []Clause
		original string
	}

	// InvalidConstraintError is returned for a constraint that cannot be parsed.
	InvalidConstraintError struct {
		Value  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidConstraintError) Error() string {
	return fmt.Sprintf("invalid version constraint %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidConstraint for errors.Is() compatibility.
func (e *InvalidConstraintError) Unwrap() error { return ErrInvalidConstraint }

// ParseConstraint parses a comma-separated list of clauses such as
// ">= 1.0, < 2.0" or "~> 9.5". A bare version means "==". An empty string or
// "*" yields a constraint that matches everything.
//
// "~>" is pessimistic: "~> X" allows X up to the next major version, and
// "~> X.Y" or "~> X.Y.Z" allow up to the next minor version of X.
func ParseConstraint(s string) (Constraint, error) {
	c := Constraint{original: strings.TrimSpace(s)}
	if c.original == "" || c.original == "*" {
		return c, nil
	}

	for raw := range strings.SplitSeq(c.original, ",") {
		clause := strings.TrimSpace(raw)
		if clause == "" {
			return Constraint{}, &InvalidConstraintError{Value: s, Reason: "empty clause"}
		}

		op := OpEqual
		for _, prefix := range opPrefixes {
			if strings.HasPrefix(clause, string(prefix)) {
				op = prefix
				clause = strings.TrimSpace(clause[len(prefix):])
				break
			}
		}
		if op == "=" {
			op = OpEqual
		}

		v, err := Parse(clause)
		if err != nil {
			return Constraint{}, &InvalidConstraintError{Value: s, Reason: err.Error()}
		}

		if op != OpPessimistic {
			c.clauses = append(c.clauses, Clause{Op: op, Version: v})
			continue
		}

		upper := v.bumped(0)
		if v.Len() > 1 {
			upper = v.bumped(1)
		}
		c.clauses = append(c.clauses,
			Clause{Op: OpGreaterEqual, Version: v},
			Clause{Op: OpLess, Version: upper},
		)
	}
	return c, nil
}

// MustParseConstraint is like ParseConstraint but panics on error.
func MustParseConstraint(s string) Constraint {
	c, err := ParseConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the constraint as it was written.
func (c Constraint) String() string { return c.original }

// IsAny reports whether the constraint matches every version.
func (c Constraint) IsAny() bool { return len(c.clauses) == 0 }

// Clauses returns the expanded clauses. "~>" appears as its ">=" and "<" pair.
func (c Constraint) Clauses() []Clause {
	out := make([]Clause, len(c.clauses))
	copy(out, c.clauses)
	return out
}

// Matches reports whether v satisfies every clause.
func (c Constraint) Matches(v Version) bool {
	for _, cl := range c.clauses {
		if !cl.Matches(v) {
			return false
		}
	}
	return true
}

// Matches reports whether v satisfies the clause.
func (cl Clause) Matches(v Version) bool {
	r := v.Compare(cl.Version)
	switch cl.Op {
	case OpEqual:
		return r == 0
	case OpNotEqual:
		return r != 0
	case OpGreater:
		return r > 0
	case OpGreaterEqual:
		return r >= 0
	case OpLess:
		return r < 0
	case OpLessEqual:
		return r <= 0
	default:
		return false
	}
}

// Best returns the highest candidate satisfying c. Candidates that are not
// versions are skipped; among equal versions the first one wins.
func (c Constraint) Best(candidates []string) (string, bool) {
	var (
		best  Version
		found bool
	)
	for _, s := range candidates {
		v, err := Parse(s)
		if err != nil || !c.Matches(v) {
			continue
		}
		if !found || v.Compare(best) > 0 {
			best, found = v, true
		}
	}
	if !found {
		return "", false
	}
	return best.String(), true
}

// Resolve returns the highest candidate satisfying constraint, or false when
// none does or the constraint is invalid. There is no nearest match.
func Resolve(constraint string, candidates []string) (string, bool) {
	c, err := ParseConstraint(constraint)
	if err != nil {
		return "", false
	}
	return c.Best(candidates)
}

// Satisfies reports whether version satisfies constraint.
func Satisfies(constraint, version string) (bool, error) {
	c, err := ParseConstraint(constraint)
	if err != nil {
		return false, err
	}
	v, err := Parse(version)
	if err != nil {
		return false, err
	}
	return c.Matches(v), nil
}
