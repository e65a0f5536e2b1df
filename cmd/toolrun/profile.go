// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toolrun/toolrun/internal/app/execute"
	"github.com/toolrun/toolrun/internal/profile"
	"github.com/toolrun/toolrun/pkg/tooldef"
)

func newProfileCommand(app *App) *cobra.Command {
	var (
		toolVersion string
		all         bool
	)

	cmd := &cobra.Command{
		Use:   "profile <tool>",
		Short: "Show the profile selected for this host",
		Long: `Show which profile of a tool description fits this platform, shell and
installed tool version, together with the commands and parameters it offers.

With --all every profile is listed with the reason it was or was not chosen.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(cmd, app.runProfile(cmd.Context(), args[0], toolVersion, all))
		},
	}

	cmd.Flags().StringVar(&toolVersion, "tool-version", "", "constraint on the description's declared version")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every profile and its eligibility")

	return cmd
}

func (a *App) runProfile(ctx context.Context, tool, toolVersion string, all bool) error {
	s, err := a.session(ctx)
	if err != nil {
		return err
	}

	sel, err := s.orchestrator.Select(ctx, tool, toolVersion)
	if err != nil {
		return err
	}

	w := a.stdout
	fmt.Fprintln(w, TitleStyle.Render(sel.Tool.Name)+" "+SubtitleStyle.Render(describeVersion(sel.Tool.Version)))
	fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render("Source:"), sel.Source)
	if len(sel.Tool.Aliases) > 0 {
		fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render("Aliases:"), strings.Join(sel.Tool.Aliases, ", "))
	}
	if sel.Tool.Implements != "" {
		fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render("Implements:"), sel.Tool.Implements)
	}
	fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render("Executable:"), describeExecutable(sel))
	fmt.Fprintln(w)

	if all {
		q := profile.Query{Platform: s.platform, Shell: s.dialect.Name(), ToolVersion: sel.ToolVersion}
		fmt.Fprintln(w, SubtitleStyle.Render("Profiles:"))
		for _, p := range sel.Tool.Profiles() {
			ok, reason := profile.Eligible(p, q)
			switch {
			case p == sel.Profile:
				fmt.Fprintf(w, "  %s %s\n", SuccessStyle.Render("✓"), p.Name+" "+SuccessStyle.Render("(selected)"))
			case ok:
				fmt.Fprintf(w, "  %s %s\n", SuccessStyle.Render("✓"), p.Name+" "+ValueStyle.Render("(shadowed by an earlier profile)"))
			default:
				fmt.Fprintf(w, "  %s %s %s\n", ErrorStyle.Render("✗"), p.Name, ValueStyle.Render("("+reason+")"))
			}
		}
		fmt.Fprintln(w)
	}

	renderProfile(w, sel.Profile, sel.ToolVersion)
	return nil
}

// describeRequirement renders the version requirement of p, flagging it
// when the tool version is unknown and the requirement went unchecked.
func describeRequirement(p *tooldef.Profile, toolVersion string) string {
	if profile.Unverified(p, toolVersion) {
		return p.Version + " " + WarningStyle.Render("(not verified: version unknown)")
	}
	return p.Version
}

func describeExecutable(sel *execute.Selection) string {
	if !sel.Resolved {
		return sel.Executable + " " + WarningStyle.Render("(not found)")
	}
	if sel.ToolVersion == "" {
		return sel.Executable + " " + ValueStyle.Render("(version unknown)")
	}
	return sel.Executable + " " + ValueStyle.Render("(version "+sel.ToolVersion+")")
}

// renderProfile lists the commands of p with their parameters.
func renderProfile(w io.Writer, p *tooldef.Profile, toolVersion string) {
	fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("Profile:"), TitleStyle.Render(p.Name))
	if p.Inherits != "" {
		fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render("Inherits:"), p.Inherits)
	}
	if p.Version != "" {
		fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render("Requires:"), describeRequirement(p, toolVersion))
	}

	for _, c := range p.Commands() {
		fmt.Fprintln(w)
		name := CmdStyle.Render(c.Name)
		if c.Subcommand != "" {
			name += " " + ValueStyle.Render("("+c.Subcommand+")")
		}
		fmt.Fprintln(w, "  "+name)
		for _, o := range c.Options {
			fmt.Fprintf(w, "    %s %s %s\n", o.Name, ValueStyle.Render(string(o.EffectiveType())), markRequired(o.Required))
		}
		for _, o := range c.PostOptions {
			fmt.Fprintf(w, "    %s %s %s\n", o.Name, ValueStyle.Render(string(o.EffectiveType())), markRequired(o.Required))
		}
		for _, f := range c.Flags {
			fmt.Fprintf(w, "    %s %s\n", f.Name, ValueStyle.Render("flag"))
		}
		for _, arg := range c.Arguments {
			kind := string(arg.EffectiveType())
			if arg.Variadic {
				kind += "..."
			}
			fmt.Fprintf(w, "    %s %s %s\n", arg.Name, ValueStyle.Render(kind), markRequired(arg.Required))
		}
	}
}

func markRequired(required bool) string {
	if required {
		return WarningStyle.Render("required")
	}
	return ""
}
