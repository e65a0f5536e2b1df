// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

type (
	// posix covers bash, zsh, sh and dash. Single quotes are fully literal in
	// all of them, so the only character that needs care is the quote itself.
	posix struct {
		name Name
	}

	// fish uses POSIX-style single quotes, but a backslash inside them
	// escapes a following backslash or quote.
	fish struct{}
)

func (p *posix) Name() Name { return p.name }

// Escape replaces every ' with '\'' (close, escaped quote, reopen).
func (p *posix) Escape(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

func (p *posix) Quote(s string) string { return "'" + p.Escape(s) + "'" }

func (p *posix) Join(executable string, args ...string) string {
	return joinWords(executable, args, p.needsQuote, p.Quote, identity)
}

func (p *posix) needsQuote(s string) bool {
	if s == "" || s[0] == '-' {
		return true
	}
	// zsh expands a leading = to a command path.
	if p.name == Zsh && s[0] == '=' {
		return true
	}

	lang := syntax.LangPOSIX
	if p.name == Bash || p.name == Zsh {
		lang = syntax.LangBash
	}
	quoted, err := syntax.Quote(s, lang)
	return err != nil || quoted != s
}

func (p *posix) FormatPath(path string) string { return path }

func (p *posix) EnvVar(name string) string { return "$" + name }

func (p *posix) HeadlessEnvironment() map[string]string {
	return map[string]string{"DISPLAY": ""}
}

func (p *posix) Interpreter(commandLine string) []string {
	if p.name == Zsh {
		// -f skips the startup files so user aliases cannot shadow the tool.
		return []string{string(Zsh), "-f", "-c", commandLine}
	}
	return []string{string(p.name), "-c", commandLine}
}

func (p *posix) Execute(ctx context.Context, req Request) (*Output, error) {
	return run(ctx, p, req)
}

func (f *fish) Name() Name { return Fish }

// Escape doubles backslashes, then replaces every ' with '\''.
func (f *fish) Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `'\''`)
}

func (f *fish) Quote(s string) string { return "'" + f.Escape(s) + "'" }

func (f *fish) Join(executable string, args ...string) string {
	return joinWords(executable, args, f.needsQuote, f.Quote, identity)
}

func (f *fish) needsQuote(s string) bool {
	return s == "" || s[0] == '-' || !allIn(s, "_./:,+@=-")
}

func (f *fish) FormatPath(path string) string { return path }

func (f *fish) EnvVar(name string) string { return "$" + name }

func (f *fish) HeadlessEnvironment() map[string]string {
	return map[string]string{"DISPLAY": ""}
}

func (f *fish) Interpreter(commandLine string) []string {
	return []string{string(Fish), "-c", commandLine}
}

func (f *fish) Execute(ctx context.Context, req Request) (*Output, error) {
	return run(ctx, f, req)
}
