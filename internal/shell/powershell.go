// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"strings"
)

// powerShell covers Windows PowerShell and PowerShell 7 (pwsh).
//
// Arguments are double quoted so that a value such as -sDEVICE=pdfwrite
// reaches the program as a string instead of being bound as a parameter.
// PowerShell also treats typographic quotes as quote characters, so they are
// escaped alongside their ASCII forms.
type powerShell struct {
	name Name
}

func (p *powerShell) Name() Name { return p.name }

// Escape backtick-escapes the characters that are special inside a double
// quoted string: backtick, $ and double quotes.
func (p *powerShell) Escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '`', '$', '"', '“', '”', '„':
			b.WriteRune('`')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EscapeLiteral doubles single quotes for use inside a single quoted string.
func (p *powerShell) EscapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\'', '‘', '’', '‚', '‛':
			b.WriteRune(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (p *powerShell) Quote(s string) string { return `"` + p.Escape(s) + `"` }

// QuoteLiteral returns s as a single quoted string, in which nothing expands.
func (p *powerShell) QuoteLiteral(s string) string { return "'" + p.EscapeLiteral(s) + "'" }

// Join quotes the executable behind the call operator when needed. The token
// that follows -Command or -File is a script body or path and is passed
// through untouched; quoting resumes after it.
func (p *powerShell) Join(executable string, args ...string) string {
	var b strings.Builder
	if p.needsQuote(executable) {
		b.WriteString("& ")
		b.WriteString(p.Quote(executable))
	} else {
		b.WriteString(executable)
	}

	passThrough := false
	for _, a := range args {
		b.WriteByte(' ')
		switch {
		case passThrough:
			b.WriteString(a)
		case p.needsQuote(a):
			b.WriteString(p.Quote(a))
		default:
			b.WriteString(a)
		}
		passThrough = !passThrough && isScriptSwitch(a)
	}
	return b.String()
}

func isScriptSwitch(arg string) bool {
	return strings.EqualFold(arg, "-Command") || strings.EqualFold(arg, "-File")
}

func (p *powerShell) needsQuote(s string) bool {
	return s == "" || s[0] == '-' || !allIn(s, `_./\:=+%-`)
}

func (p *powerShell) FormatPath(path string) string { return path }

func (p *powerShell) EnvVar(name string) string { return "$ENV:" + name }

func (p *powerShell) HeadlessEnvironment() map[string]string { return map[string]string{} }

func (p *powerShell) Interpreter(commandLine string) []string {
	return []string{string(p.name), "-NoProfile", "-NonInteractive", "-Command", commandLine}
}

func (p *powerShell) Execute(ctx context.Context, req Request) (*Output, error) {
	return run(ctx, p, req)
}
