// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Issue identifiers. The zero value is not a valid Id.
const (
	ToolNotFoundId Id = iota + 1
	ToolParseErrorId
	CommandNotFoundId
	ProfileNotFoundId
	ExecutableNotFoundId
	ParameterInvalidId
	ExecutionTimeoutId
	ExecutionFailedId
	ConfigLoadFailedId
	ShellNotSupportedId
)

type (
	// Id identifies a known class of user-facing problem.
	Id int

	// MarkdownMsg is guidance text rendered for the terminal.
	MarkdownMsg string

	// HttpLink is a documentation or reference URL.
	HttpLink string

	// Issue is the long-form guidance shown for a class of failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render returns the guidance formatted for a terminal using the given
// glamour style ("auto", "dark", "light", "notty" or a JSON style path).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	toolNotFoundIssue = &Issue{
		id: ToolNotFoundId,
		mdMsg: `
# No description for this tool

toolrun looked for a description file in every configured tool directory.

## Search locations, in order
For each directory in ` + "`tool_paths`" + `:
1. ` + "`<dir>/<tool>.cue`" + `, ` + "`.yaml`" + `, ` + "`.yml`" + ` or ` + "`.toml`" + `
2. ` + "`<dir>/<tool>/*.cue`" + ` and the other extensions, one file per version

## Things you can try
- Check the spelling of the tool name or use one of its aliases
- Add the directory holding the description to ` + "`tool_paths`" + ` or pass ` + "`--tool-path`" + `
- Relax the ` + "`--version`" + ` constraint; only declared versions inside the files count`,
	}

	toolParseErrorIssue = &Issue{
		id: ToolParseErrorId,
		mdMsg: `
# The tool description is invalid

The file was found but does not match the tool description schema.

## Things you can try
- Read the path in the message above; CUE reports it as ` + "`profiles[0].commands[1].name`" + `
- Every option and flag needs a ` + "`cli`" + ` token
- Symbol values need a ` + "`values`" + ` list; ` + "`size`" + ` and ` + "`of`" + ` only apply to arrays
- An environment variable sets exactly one of ` + "`value`" + ` or ` + "`from`",
	}

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# The selected profile has no such command

## Things you can try
- Run ` + "`toolrun profile <tool>`" + ` to see the commands of the profile chosen for this host
- Commands inherited from a parent profile are listed too`,
	}

	profileNotFoundIssue = &Issue{
		id: ProfileNotFoundId,
		mdMsg: `
# No profile fits this host

A profile is chosen only when its platforms and shells both include the
current ones and its version requirement accepts the installed tool.
There is no closest match.

## Things you can try
- Pass ` + "`--shell`" + ` or ` + "`--platform`" + ` to target another environment
- Check the ` + "`version`" + ` requirement of each profile against the detected tool version
- Add a profile with empty ` + "`platforms`" + ` or ` + "`shells`" + ` to make it universal`,
	}

	executableNotFoundIssue = &Issue{
		id: ExecutableNotFoundId,
		mdMsg: `
# The tool is not installed where toolrun can see it

toolrun tried the tool name and each alias on ` + "`PATH`" + `, then every
` + "`search_paths`" + ` pattern for this platform.

## Things you can try
- Install the tool or add its directory to ` + "`PATH`" + `
- Add the install location to ` + "`search_paths`" + ` in the description; ` + "`**`" + ` globs are supported`,
	}

	parameterInvalidIssue = &Issue{
		id: ParameterInvalidId,
		mdMsg: `
# A parameter was rejected

Parameters are checked against their declared type and constraints before
anything is run.

## Things you can try
- Pass values as ` + "`-p name=value`" + `; repeat ` + "`-p`" + ` for each element of an array
- Run ` + "`toolrun plan`" + ` to see the argument list without running the tool`,
	}

	executionTimeoutIssue = &Issue{
		id: ExecutionTimeoutId,
		mdMsg: `
# The tool did not finish in time

The process and everything it started were terminated.

## Things you can try
- Raise the limit with ` + "`--timeout`" + ` or ` + "`default_timeout`" + ` in the config
- Check whether the tool waits for input on stdin`,
	}

	executionFailedIssue = &Issue{
		id: ExecutionFailedId,
		mdMsg: `
# The tool exited with an error

The captured standard error is shown above. Exit codes above 128 mean the
tool was terminated by a signal.

## Things you can try
- Run ` + "`toolrun plan`" + ` with the same parameters and try the command line by hand
- Use ` + "`--allow-failure`" + ` when a non-zero exit is expected`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# The configuration could not be loaded

## Things you can try
- Check the CUE syntax of the config file named above
- Durations such as ` + "`default_timeout`" + ` use Go syntax, e.g. ` + "`\"90s\"`" + ` or ` + "`\"2m\"`" + `
- ` + "`TOOLRUN_*`" + ` environment variables override file values`,
	}

	shellNotSupportedIssue = &Issue{
		id: ShellNotSupportedId,
		mdMsg: `
# Unsupported shell

toolrun speaks bash, zsh, sh, dash, fish, PowerShell (` + "`powershell`" + ` and ` + "`pwsh`" + `),
cmd, tcsh and csh.

## Things you can try
- Pass ` + "`--shell`" + ` with one of the names above
- Set ` + "`shell`" + ` in the config to stop auto-detection`,
	}

	issues = map[Id]*Issue{
		toolNotFoundIssue.Id():       toolNotFoundIssue,
		toolParseErrorIssue.Id():     toolParseErrorIssue,
		commandNotFoundIssue.Id():    commandNotFoundIssue,
		profileNotFoundIssue.Id():    profileNotFoundIssue,
		executableNotFoundIssue.Id(): executableNotFoundIssue,
		parameterInvalidIssue.Id():   parameterInvalidIssue,
		executionTimeoutIssue.Id():   executionTimeoutIssue,
		executionFailedIssue.Id():    executionFailedIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		shellNotSupportedIssue.Id():  shellNotSupportedIssue,
	}
)

// Values returns every known issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for v := range maps.Values(issues) {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
