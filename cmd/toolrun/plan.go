// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/toolrun/toolrun/internal/app/execute"
)

func newPlanCommand(app *App) *cobra.Command {
	var (
		rf    runFlags
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "plan <tool> <command>",
		Short: "Show what exec would run, without running it",
		Long: `Resolve a tool command exactly as exec would and print the selected
profile, the executable, the argument list, the joined command line and the
environment. Nothing is executed apart from the version probe.

With --watch the plan is printed again whenever a tool description changes.`,
		Example: `  toolrun plan ghostscript convert -p device=pdfwrite -p output=out.pdf -p inputs=in.ps
  toolrun plan gs convert -p inputs=in.ps --watch`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.request(args[0], args[1])
			if err != nil {
				return app.fail(cmd, err)
			}
			return app.fail(cmd, app.runPlan(cmd.Context(), req, watch))
		},
	}

	rf.register(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-plan when tool descriptions change (default from config)")

	return cmd
}

// runPlan prints the plan for req. When watching, it keeps re-planning on
// description changes until ctx is cancelled; failures of later plans are
// reported without ending the watch.
func (a *App) runPlan(ctx context.Context, req execute.Request, watch bool) error {
	s, err := a.session(ctx)
	if err != nil {
		return err
	}

	plan, err := s.orchestrator.Plan(ctx, req)
	if err != nil && !(watch || s.cfg.Watch) {
		return err
	}
	if err != nil {
		renderError(a.stderr, err, a.flags.verbose)
	} else {
		renderPlan(a.stdout, s, plan)
	}

	if !watch && !s.cfg.Watch {
		return nil
	}

	fmt.Fprintln(a.stdout, SubtitleStyle.Render("Watching for changes. Press Ctrl+C to stop."))
	err = s.discovery.Watch(ctx, func(changed []string) {
		s.logger.Info("re-planning", "changed", changed)
		plan, err := s.orchestrator.Plan(ctx, req)
		if err != nil {
			renderError(a.stderr, err, a.flags.verbose)
			return
		}
		renderPlan(a.stdout, s, plan)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// renderPlan prints the resolved invocation: where the description came
// from, which profile and executable were chosen and the exact argv.
func renderPlan(w io.Writer, s *session, p *execute.Plan) {
	fmt.Fprintln(w, TitleStyle.Render("Plan"))
	fmt.Fprintln(w)

	field := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render(label), value)
	}

	field("Tool:", CmdStyle.Render(p.Tool.Name)+" "+ValueStyle.Render(describeVersion(p.Tool.Version)))
	field("Source:", p.Source)
	field("Profile:", p.Profile.Name)
	field("Command:", p.Command.Name)
	field("Platform:", string(s.platform))
	field("Shell:", string(s.dialect.Name()))

	exe := p.Executable
	if !p.Resolved {
		exe += " " + WarningStyle.Render("(not found)")
	}
	field("Executable:", exe)
	if p.ToolVersion != "" {
		field("Version:", p.ToolVersion)
	} else {
		field("Version:", ValueStyle.Render("unknown"))
	}
	if p.Profile.Version != "" {
		field("Requires:", describeRequirement(p.Profile, p.ToolVersion))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, LabelStyle.Render("  Arguments:"))
	if len(p.Args) == 0 {
		fmt.Fprintln(w, "    "+ValueStyle.Render("(none)"))
	}
	for i, arg := range p.Args {
		fmt.Fprintf(w, "    %s %s\n", ValueStyle.Render(fmt.Sprintf("[%d]", i)), arg)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, LabelStyle.Render("  Command line:"))
	fmt.Fprintln(w, "    "+CmdStyle.Render(p.CommandLine))

	if len(p.Env) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, LabelStyle.Render("  Environment:"))
		for _, k := range slices.Sorted(maps.Keys(p.Env)) {
			fmt.Fprintf(w, "    %s=%s\n", k, p.Env[k])
		}
	}

	for _, d := range p.Diagnostics {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s %s\n", WarningStyle.Render("Warning:"), d.Message)
	}
	fmt.Fprintln(w)
}

func describeVersion(v string) string {
	if v == "" {
		return "(unversioned)"
	}
	return "v" + v
}
