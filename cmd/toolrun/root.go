// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "toolrun",
		Short: "Run command-line tools from portable descriptions",
		Long: TitleStyle.Render("toolrun") + SubtitleStyle.Render(" - run command-line tools from portable descriptions") + `

toolrun reads a description of a tool's commands and parameters, picks the
profile that fits this platform, shell and installed tool version, and
builds a correctly quoted invocation from named, typed parameters.

Descriptions are CUE, YAML or TOML files named after the tool and are
looked up in the configured tool paths.

` + SubtitleStyle.Render("Examples:") + `
  toolrun profile ghostscript                  Show the profile chosen for this host
  toolrun plan gs convert -p inputs=a.ps       Show the command line without running it
  toolrun exec gs convert -p inputs=a.ps       Run it
  toolrun config show                          Show the effective configuration`,
		SilenceUsage: true,
	}

	f := &app.flags
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&f.configFile, "config", "", "config file (default is $HOME/.config/toolrun/config.cue)")
	pf.StringArrayVarP(&f.toolPaths, "tool-path", "T", nil, "directory with tool descriptions, searched before configured ones (repeatable)")
	pf.StringVar(&f.shell, "shell", "", "shell dialect to quote for (default: detected)")
	pf.StringVar(&f.platform, "platform", "", "platform to select profiles for (default: this host)")
	pf.DurationVar(&f.timeout, "timeout", 0, "limit on a tool's run time (default from config)")

	rootCmd.AddCommand(
		newExecCommand(app),
		newPlanCommand(app),
		newProfileCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)
	return rootCmd
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the toolrun version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(app.stdout, "toolrun "+getVersionString())
		},
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with process defaults and exits with the status of
// the failed command, if any.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		if exitErr, ok := errors.AsType[*ExitError](err); ok {
			os.Exit(exitErr.Code)
		}
		os.Exit(exitFailure)
	}
}
