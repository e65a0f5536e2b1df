// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/toolrun/toolrun/internal/app/execute"
)

// runFlags are the flags shared by exec and plan.
type runFlags struct {
	params      []string
	toolVersion string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.params, "param", "p", nil, "parameter as name=value; repeat a name for lists, omit the value for flags")
	cmd.Flags().StringVar(&f.toolVersion, "tool-version", "", `constraint on the description's declared version, e.g. "~> 1.2"`)
}

func (f *runFlags) request(tool, command string) (execute.Request, error) {
	params, err := parseParams(f.params)
	if err != nil {
		return execute.Request{}, err
	}
	return execute.Request{
		Tool:               tool,
		DescriptionVersion: f.toolVersion,
		Command:            command,
		Params:             params,
	}, nil
}

func newExecCommand(app *App) *cobra.Command {
	var (
		rf           runFlags
		allowFailure bool
		dir          string
		forwardStdin bool
	)

	cmd := &cobra.Command{
		Use:   "exec <tool> <command>",
		Short: "Run a tool command",
		Long: `Run a command of a described tool.

The profile is chosen for this platform, shell and the installed tool's
version. Parameter values are validated and passed as separate arguments;
they are never interpreted by the shell.`,
		Example: `  toolrun exec ghostscript convert -p device=pdfwrite -p output=out.pdf -p inputs=a.ps -p inputs=b.ps
  toolrun exec gs convert -p device=png16m -p output=page.png -p resolution=300 -p inputs=doc.pdf`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.request(args[0], args[1])
			if err != nil {
				return app.fail(cmd, err)
			}
			req.AllowFailure = allowFailure
			req.Dir = dir
			if forwardStdin {
				req.Stdin = app.stdin
			}
			return app.fail(cmd, app.runExec(cmd.Context(), req))
		},
	}

	rf.register(cmd)
	cmd.Flags().BoolVar(&allowFailure, "allow-failure", false, "exit 0 even when the tool fails")
	cmd.Flags().StringVar(&dir, "dir", "", "working directory of the tool")
	cmd.Flags().BoolVar(&forwardStdin, "stdin", false, "forward standard input to the tool")

	return cmd
}

// runExec runs req and copies the captured output to the App streams. The
// output is written even when the tool failed.
func (a *App) runExec(ctx context.Context, req execute.Request) error {
	s, err := a.session(ctx)
	if err != nil {
		return err
	}

	_, res, err := s.orchestrator.Run(ctx, req)
	if res != nil {
		_, _ = a.stdout.Write(res.Stdout)
		_, _ = a.stderr.Write(res.Stderr)
		s.logger.Debug("tool finished", "id", res.ID, "status", res.Status, "code", res.ExitCode, "duration", res.Duration())
	}
	return err
}
