// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"strings"
)

// cmdSpecials are the characters cmd.exe interprets outside double quotes.
const cmdSpecials = "%^<>&|"

// cmdShell is the Windows command processor. A line goes through two
// parsers: cmd.exe itself (percent expansion, carets, redirection) and then
// the C runtime of the target program, which splits the command line into
// argv. Quoting has to satisfy both.
type cmdShell struct{}

func (c *cmdShell) Name() Name { return Cmd }

// Escape puts a caret in front of every character cmd.exe would interpret
// in an unquoted word.
func (c *cmdShell) Escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(cmdSpecials, s[i]) >= 0 {
			b.WriteByte('^')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Quote wraps s in double quotes. Inside the quotes an embedded " is
// doubled, a % steps outside the quotes as "^%" because cmd.exe expands
// variables even in quoted text, and runs of backslashes that precede any
// double quote are doubled for the C runtime.
func (c *cmdShell) Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	backslashes := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '\\':
			backslashes++
			continue
		case '"':
			b.WriteString(strings.Repeat(`\`, 2*backslashes))
			b.WriteString(`""`)
		case '%':
			b.WriteString(strings.Repeat(`\`, 2*backslashes))
			b.WriteString(`"^%"`)
		default:
			b.WriteString(strings.Repeat(`\`, backslashes))
			b.WriteByte(ch)
		}
		backslashes = 0
	}
	b.WriteString(strings.Repeat(`\`, 2*backslashes))
	b.WriteByte('"')
	return b.String()
}

// Join quotes words containing white space, a double quote, a percent sign
// or a leading dash, and caret-escapes the rest in place.
func (c *cmdShell) Join(executable string, args ...string) string {
	return joinWords(executable, args, c.needsQuote, c.Quote, c.Escape)
}

func (c *cmdShell) needsQuote(s string) bool {
	return s == "" || s[0] == '-' || hasSpace(s) || strings.ContainsAny(s, `"%`)
}

func (c *cmdShell) FormatPath(path string) string {
	return strings.ReplaceAll(path, "/", `\`)
}

func (c *cmdShell) EnvVar(name string) string { return "%" + name + "%" }

func (c *cmdShell) HeadlessEnvironment() map[string]string { return map[string]string{} }

// Interpreter wraps the line in one more pair of quotes; with /s cmd.exe
// strips exactly that pair and runs the rest verbatim. /d skips AutoRun.
func (c *cmdShell) Interpreter(commandLine string) []string {
	return []string{string(Cmd), "/d", "/s", "/c", `"` + commandLine + `"`}
}

func (c *cmdShell) Execute(ctx context.Context, req Request) (*Output, error) {
	return run(ctx, c, req)
}
