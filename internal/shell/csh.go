// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"strings"
)

// cShell covers tcsh and csh. History substitution runs before quote
// removal, so ! must be escaped even inside single quotes.
type cShell struct {
	name Name
}

func (c *cShell) Name() Name { return c.name }

// Escape backslash-escapes ! $ \ " and backtick for unquoted or double
// quoted use.
func (c *cShell) Escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '!', '$', '\\', '"', '`':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Quote single quotes s, replacing ' with '\'', ! with \! and a newline
// with a backslash-newline.
func (c *cShell) Quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			b.WriteString(`'\''`)
		case '!':
			b.WriteString(`\!`)
		case '\n':
			b.WriteString("\\\n")
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func (c *cShell) Join(executable string, args ...string) string {
	return joinWords(executable, args, c.needsQuote, c.Quote, identity)
}

func (c *cShell) needsQuote(s string) bool {
	return s == "" || s[0] == '-' || !allIn(s, "_./:,+@-")
}

func (c *cShell) FormatPath(path string) string { return path }

func (c *cShell) EnvVar(name string) string { return "$" + name }

func (c *cShell) HeadlessEnvironment() map[string]string {
	return map[string]string{"DISPLAY": ""}
}

// Interpreter runs the line with -f so ~/.tcshrc and ~/.cshrc are skipped.
func (c *cShell) Interpreter(commandLine string) []string {
	return []string{string(c.name), "-f", "-c", commandLine}
}

func (c *cShell) Execute(ctx context.Context, req Request) (*Output, error) {
	return run(ctx, c, req)
}
