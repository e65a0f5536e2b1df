// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"fmt"
	"strings"

	mvdanshell "mvdan.cc/sh/v3/shell"
)

// The splitters below model how each interpreter turns a command line into
// argv. They reject any construct that would make the interpreter expand or
// redirect something, so a passing round trip also proves nothing was left
// unescaped.

var errExpansion = errors.New("unescaped expansion or operator")

func splitFor(name Name, line string) ([]string, error) {
	switch name {
	case Bash, Zsh, Sh, Dash:
		return mvdanshell.Fields(line, func(string) string { return "" })
	case Fish:
		return splitFish(line)
	case PowerShell, Pwsh:
		return splitPowerShell(line)
	case Cmd:
		phase1, err := cmdPhase(line)
		if err != nil {
			return nil, err
		}
		return splitCRT(phase1), nil
	case Tcsh, Csh:
		return splitCsh(line)
	default:
		return nil, fmt.Errorf("no splitter for %s", name)
	}
}

func isBlank(c byte) bool { return c == ' ' || c == '\t' }

func splitFish(line string) ([]string, error) {
	var (
		args []string
		cur  strings.Builder
		in   bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\'':
			in = true
			for i++; i < len(line) && line[i] != '\''; i++ {
				if line[i] == '\\' && i+1 < len(line) && (line[i+1] == '\\' || line[i+1] == '\'') {
					i++
				}
				cur.WriteByte(line[i])
			}
			if i >= len(line) {
				return nil, errors.New("unterminated single quote")
			}
		case c == '\\' && i+1 < len(line):
			i++
			in = true
			cur.WriteByte(line[i])
		case c == ' ':
			if in {
				args = append(args, cur.String())
				cur.Reset()
				in = false
			}
		case strings.IndexByte("$*?{}()[]~#;&|<>\"%", c) >= 0:
			return nil, fmt.Errorf("%w: %q", errExpansion, c)
		default:
			in = true
			cur.WriteByte(c)
		}
	}
	if in {
		args = append(args, cur.String())
	}
	return args, nil
}

func isPSDouble(r rune) bool { return r == '"' || r == '“' || r == '”' || r == '„' }
func isPSSingle(r rune) bool { return r == '\'' || r == '‘' || r == '’' || r == '‚' || r == '‛' }

func splitPowerShell(line string) ([]string, error) {
	line = strings.TrimPrefix(line, "& ")
	rs := []rune(line)

	var (
		args []string
		cur  strings.Builder
		in   bool
	)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case isPSDouble(r):
			in = true
			closed := false
			for i++; i < len(rs); i++ {
				switch {
				case rs[i] == '`' && i+1 < len(rs):
					i++
					cur.WriteRune(rs[i])
				case rs[i] == '$':
					return nil, fmt.Errorf("%w: $ in double quotes", errExpansion)
				case isPSDouble(rs[i]):
					closed = true
				default:
					cur.WriteRune(rs[i])
				}
				if closed {
					break
				}
			}
			if !closed {
				return nil, errors.New("unterminated double quote")
			}
		case isPSSingle(r):
			in = true
			closed := false
			for i++; i < len(rs); i++ {
				if isPSSingle(rs[i]) {
					if i+1 < len(rs) && isPSSingle(rs[i+1]) {
						cur.WriteRune(rs[i])
						i++
						continue
					}
					closed = true
					break
				}
				cur.WriteRune(rs[i])
			}
			if !closed {
				return nil, errors.New("unterminated single quote")
			}
		case r == '`' && i+1 < len(rs):
			i++
			in = true
			cur.WriteRune(rs[i])
		case r == ' ':
			if in {
				args = append(args, cur.String())
				cur.Reset()
				in = false
			}
		case strings.ContainsRune("$@;&|<>(){},~", r):
			return nil, fmt.Errorf("%w: %q", errExpansion, r)
		default:
			if !in && (r == '-' || r == '–' || r == '—' || r == '―') {
				return nil, fmt.Errorf("bare parameter token at %q", string(rs[i:]))
			}
			in = true
			cur.WriteRune(r)
		}
	}
	if in {
		args = append(args, cur.String())
	}
	return args, nil
}

// cmdPhase applies cmd.exe's own processing: carets are removed outside
// quotes, quote characters are kept for the C runtime.
func cmdPhase(line string) (string, error) {
	var (
		b       strings.Builder
		inQuote bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '%':
			return "", fmt.Errorf("%w: %% at offset %d", errExpansion, i)
		case inQuote:
			b.WriteByte(c)
		case c == '^':
			if i+1 >= len(line) {
				return "", errors.New("dangling caret")
			}
			i++
			b.WriteByte(line[i])
		case strings.IndexByte("<>&|", c) >= 0:
			return "", fmt.Errorf("%w: %q", errExpansion, c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// splitCRT splits a command line the way the Microsoft C runtime does.
func splitCRT(line string) []string {
	var args []string
	i, n := 0, len(line)
	for {
		for i < n && isBlank(line[i]) {
			i++
		}
		if i >= n {
			return args
		}

		var b strings.Builder
		inQuote := false
		for i < n {
			c := line[i]
			if c == '\\' {
				j := i
				for j < n && line[j] == '\\' {
					j++
				}
				count := j - i
				if j < n && line[j] == '"' {
					b.WriteString(strings.Repeat(`\`, count/2))
					if count%2 == 1 {
						b.WriteByte('"')
						i = j + 1
					} else {
						i = j
					}
					continue
				}
				b.WriteString(strings.Repeat(`\`, count))
				i = j
				continue
			}
			if c == '"' {
				if inQuote && i+1 < n && line[i+1] == '"' {
					b.WriteByte('"')
					i += 2
					continue
				}
				inQuote = !inQuote
				i++
				continue
			}
			if isBlank(c) && !inQuote {
				break
			}
			b.WriteByte(c)
			i++
		}
		args = append(args, b.String())
	}
}

func splitCsh(line string) ([]string, error) {
	var (
		args []string
		cur  strings.Builder
		in   bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\'':
			in = true
			closed := false
			for i++; i < len(line); i++ {
				d := line[i]
				if d == '\'' {
					closed = true
					break
				}
				if d == '!' {
					return nil, fmt.Errorf("%w: history ! in quotes", errExpansion)
				}
				if d == '\\' && i+1 < len(line) && (line[i+1] == '!' || line[i+1] == '\n') {
					i++
					d = line[i]
				}
				cur.WriteByte(d)
			}
			if !closed {
				return nil, errors.New("unterminated single quote")
			}
		case c == '\\' && i+1 < len(line):
			i++
			in = true
			cur.WriteByte(line[i])
		case c == ' ':
			if in {
				args = append(args, cur.String())
				cur.Reset()
				in = false
			}
		case strings.IndexByte("!$`\"*?[]{}~;&|<>()#%=^", c) >= 0:
			return nil, fmt.Errorf("%w: %q", errExpansion, c)
		default:
			in = true
			cur.WriteByte(c)
		}
	}
	if in {
		args = append(args, cur.String())
	}
	return args, nil
}
