// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"testing"
)

// roundTripArgs covers white space, both quote kinds, every expansion sigil,
// leading dashes and the characters each dialect treats specially.
var roundTripArgs = []string{
	"plain",
	"with space",
	"it's",
	`say "hi"`,
	"dollar $HOME",
	"${x}",
	"back`tick",
	"-sDEVICE=pdfwrite",
	"--output=a b",
	"-",
	"",
	"100%",
	"%PATH%",
	`C:\Program Files\gs\`,
	`trailing\`,
	`\"`,
	`a\\"b`,
	"bang!",
	"semi;colon",
	"amp&pipe|caret^",
	"<in >out",
	"glob*?[a]",
	"~tilde",
	"=equals",
	"brace{a,b}",
	"paren(x)",
	"hash#",
	"unicode é ñ",
	"smart “quotes” and ‘single’",
	"tab\tsep",
	"a''b",
	"@splat",
	"comma,list",
}

// multiline values cannot be represented on a cmd.exe command line.
var multilineArgs = []string{"line1\nline2", "trailing newline\n"}

func argsFor(name Name) []string {
	if name == Cmd {
		return roundTripArgs
	}
	return append(slices.Clone(roundTripArgs), multilineArgs...)
}

func TestJoin_RoundTrip(t *testing.T) {
	t.Parallel()

	executables := []string{"gs", "/opt/my tools/gs", "C:/Program Files/gs/bin/gswin64c.exe"}

	for _, name := range Names() {
		t.Run(string(name), func(t *testing.T) {
			t.Parallel()
			d := MustNew(name)
			args := argsFor(name)

			for _, exe := range executables {
				line := d.Join(exe, args...)
				got, err := splitFor(name, line)
				if err != nil {
					t.Fatalf("split(%s) error = %v", line, err)
				}
				want := append([]string{exe}, args...)
				if !slices.Equal(got, want) {
					for i := range min(len(got), len(want)) {
						if got[i] != want[i] {
							t.Errorf("word %d = %q, want %q", i, got[i], want[i])
						}
					}
					t.Fatalf("round trip length %d, want %d\nline: %s", len(got), len(want), line)
				}
			}
		})
	}
}

func TestQuote_ReparsesToSelf(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		t.Run(string(name), func(t *testing.T) {
			t.Parallel()
			d := MustNew(name)
			for _, s := range argsFor(name) {
				// Prefix a bare word so that PowerShell and cmd see an
				// executable position first.
				got, err := splitFor(name, "x "+d.Quote(s))
				if err != nil {
					t.Fatalf("split(Quote(%q)) error = %v", s, err)
				}
				if len(got) != 2 || got[1] != s {
					t.Errorf("split(Quote(%q)) = %q", s, got)
				}
			}
		})
	}
}

func TestJoin_QuotesRequiredWords(t *testing.T) {
	t.Parallel()

	sigils := map[Name][]string{
		Bash: {"$"}, Zsh: {"$"}, Sh: {"$"}, Dash: {"$"}, Fish: {"$"},
		PowerShell: {"$", "`"}, Pwsh: {"$", "`"},
		Cmd:  {"%"},
		Tcsh: {"!", "$", "`"}, Csh: {"!", "$", "`"},
	}

	for name, list := range sigils {
		d := MustNew(name)
		words := []string{"has space", "-leading"}
		for _, s := range list {
			words = append(words, "a"+s+"b")
		}
		for _, w := range words {
			line := d.Join("tool", w)
			arg := strings.TrimPrefix(line, "tool ")
			if arg == w {
				t.Errorf("%s: Join left %q unquoted", name, w)
			}
		}
	}
}

func TestJoin_LeavesSafeWordsBare(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		d := MustNew(name)
		if got := d.Join("gs", "input.ps", "out/file.pdf"); got != "gs input.ps out/file.pdf" {
			t.Errorf("%s: Join() = %q", name, got)
		}
	}
}

func TestPOSIX(t *testing.T) {
	t.Parallel()

	d := MustNew(Bash)
	if got := d.Escape("it's"); got != `it'\''s` {
		t.Errorf("Escape() = %q", got)
	}
	if got := d.Quote("it's"); got != `'it'\''s'` {
		t.Errorf("Quote() = %q", got)
	}
	if got := d.Join("gs", "-sDEVICE=pdfwrite", "a b.ps"); got != `gs '-sDEVICE=pdfwrite' 'a b.ps'` {
		t.Errorf("Join() = %q", got)
	}
	if got := MustNew(Zsh).Join("echo", "=ls"); got != `echo '=ls'` {
		t.Errorf("zsh Join() = %q", got)
	}
}

func TestFish(t *testing.T) {
	t.Parallel()

	d := MustNew(Fish)
	if got := d.Escape(`a\b'`); got != `a\\b'\''` {
		t.Errorf("Escape() = %q", got)
	}
	if got := d.Quote(`x\`); got != `'x\\'` {
		t.Errorf("Quote() = %q", got)
	}
}

func TestPowerShell(t *testing.T) {
	t.Parallel()

	d := MustNew(Pwsh)
	ps := d.(*powerShell)

	if got := d.Escape("a`b$c\"d"); got != "a``b`$c`\"d" {
		t.Errorf("Escape() = %q", got)
	}
	if got := ps.EscapeLiteral("it's"); got != "it''s" {
		t.Errorf("EscapeLiteral() = %q", got)
	}
	if got := ps.QuoteLiteral("$x"); got != "'$x'" {
		t.Errorf("QuoteLiteral() = %q", got)
	}

	tests := []struct {
		name string
		exe  string
		args []string
		want string
	}{
		{
			name: "dash values are quoted",
			exe:  "gswin64c",
			args: []string{"-sDEVICE=pdfwrite", "-sOutputFile=out.pdf", "in.ps"},
			want: `gswin64c "-sDEVICE=pdfwrite" "-sOutputFile=out.pdf" in.ps`,
		},
		{
			name: "quoted executable uses the call operator",
			exe:  `C:\Program Files\gs\bin\gswin64c.exe`,
			args: []string{"-v"},
			want: "& \"C:\\Program Files\\gs\\bin\\gswin64c.exe\" \"-v\"",
		},
		{
			name: "token after -Command passes through",
			exe:  "pwsh",
			args: []string{"-NoProfile", "-Command", "Get-Item $env:TEMP | Select Name", "-x y"},
			want: `pwsh "-NoProfile" "-Command" Get-Item $env:TEMP | Select Name "-x y"`,
		},
		{
			name: "-File is case insensitive and only affects one token",
			exe:  "powershell",
			args: []string{"-file", "C:/scripts/run me.ps1", "$arg"},
			want: "powershell \"-file\" C:/scripts/run me.ps1 \"`$arg\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := d.Join(tt.exe, tt.args...); got != tt.want {
				t.Errorf("Join() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPowerShell_DashValuesKeepTheirDash(t *testing.T) {
	t.Parallel()

	for _, name := range []Name{PowerShell, Pwsh} {
		d := MustNew(name)
		args := []string{"-sDEVICE=pdfwrite", "-dNOPAUSE", "--", "-r300", "–en-dash"}
		got, err := splitPowerShell(d.Join("gs", args...))
		if err != nil {
			t.Fatalf("%s: split error = %v", name, err)
		}
		if !slices.Equal(got[1:], args) {
			t.Errorf("%s: split = %q, want %q", name, got[1:], args)
		}
	}
}

func TestCmd(t *testing.T) {
	t.Parallel()

	d := MustNew(Cmd)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"escape", d.Escape("a&b|c<d>e^f%g"), "a^&b^|c^<d^>e^^f^%g"},
		{"quote space", d.Quote("a b"), `"a b"`},
		{"quote embedded quote", d.Quote(`say "hi"`), `"say ""hi"""`},
		{"quote percent", d.Quote("50%"), `"50"^%""`},
		{"quote trailing backslash", d.Quote(`C:\dir\`), `"C:\dir\\"`},
		{"quote empty", d.Quote(""), `""`},
		{"join escapes in place", d.Join("gs", "a&b", "x y"), `gs a^&b "x y"`},
		{"join quotes dash", d.Join("gs", "-q"), `gs "-q"`},
		{"format path", d.FormatPath("C:/Program Files/gs/bin"), `C:\Program Files\gs\bin`},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, tt.got, tt.want)
		}
	}
}

func TestCsh(t *testing.T) {
	t.Parallel()

	d := MustNew(Tcsh)
	if got := d.Escape(`a!b$c\d"e` + "`"); got != `a\!b\$c\\d\"e\`+"`" {
		t.Errorf("Escape() = %s", got)
	}
	if got := d.Quote("it's bang!"); got != `'it'\''s bang\!'` {
		t.Errorf("Quote() = %s", got)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	const p = "C:/Users/me/in.ps"
	for _, name := range Names() {
		want := p
		if name == Cmd {
			want = `C:\Users\me\in.ps`
		}
		if got := MustNew(name).FormatPath(p); got != want {
			t.Errorf("%s: FormatPath() = %q, want %q", name, got, want)
		}
	}
}

func TestEnvVarAndHeadless(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     Name
		ref      string
		headless map[string]string
	}{
		{Bash, "$GS_LIB", map[string]string{"DISPLAY": ""}},
		{Fish, "$GS_LIB", map[string]string{"DISPLAY": ""}},
		{Tcsh, "$GS_LIB", map[string]string{"DISPLAY": ""}},
		{PowerShell, "$ENV:GS_LIB", map[string]string{}},
		{Cmd, "%GS_LIB%", map[string]string{}},
	}

	for _, tt := range tests {
		d := MustNew(tt.name)
		if got := d.EnvVar("GS_LIB"); got != tt.ref {
			t.Errorf("%s: EnvVar() = %q, want %q", tt.name, got, tt.ref)
		}
		if got := d.HeadlessEnvironment(); !maps.Equal(got, tt.headless) {
			t.Errorf("%s: HeadlessEnvironment() = %v, want %v", tt.name, got, tt.headless)
		}
	}
}

func TestInterpreter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name Name
		want []string
	}{
		{Bash, []string{"bash", "-c", "gs -v"}},
		{Dash, []string{"dash", "-c", "gs -v"}},
		{Zsh, []string{"zsh", "-f", "-c", "gs -v"}},
		{Tcsh, []string{"tcsh", "-f", "-c", "gs -v"}},
		{Pwsh, []string{"pwsh", "-NoProfile", "-NonInteractive", "-Command", "gs -v"}},
		{Cmd, []string{"cmd", "/d", "/s", "/c", `"gs -v"`}},
	}

	for _, tt := range tests {
		if got := MustNew(tt.name).Interpreter("gs -v"); !slices.Equal(got, tt.want) {
			t.Errorf("%s: Interpreter() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNew_Unknown(t *testing.T) {
	t.Parallel()

	_, err := New("ksh93")
	if !errors.Is(err, ErrUnknownShell) {
		t.Errorf("New(ksh93) error = %v, want ErrUnknownShell", err)
	}
}
