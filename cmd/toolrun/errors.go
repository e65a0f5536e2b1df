// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toolrun/toolrun/internal/app/execute"
	"github.com/toolrun/toolrun/internal/discovery"
	"github.com/toolrun/toolrun/internal/issue"
	"github.com/toolrun/toolrun/internal/profile"
	"github.com/toolrun/toolrun/internal/runtime"
	"github.com/toolrun/toolrun/internal/shell"
	"github.com/toolrun/toolrun/internal/valuetype"
	"github.com/toolrun/toolrun/internal/version"
	"github.com/toolrun/toolrun/pkg/platform"
	"github.com/toolrun/toolrun/pkg/tooldef"
)

// describeError wraps err in an ActionableError that names the failed step
// and points at its guidance. Errors that already carry context pass
// through unchanged.
func describeError(err error) *issue.ActionableError {
	if ae, ok := errors.AsType[*issue.ActionableError](err); ok {
		return ae
	}

	b := issue.NewErrorContext().Wrap(err)
	switch {
	case errors.Is(err, discovery.ErrToolNotFound):
		b.WithOperation("find tool description").WithIssue(issue.ToolNotFoundId)
		if nf, ok := errors.AsType[*discovery.ToolNotFoundError](err); ok {
			b.WithResource(nf.Name)
			if len(nf.Versions) > 0 {
				b.WithSuggestion("Declared versions: " + strings.Join(nf.Versions, ", "))
			}
		}
	case errors.Is(err, tooldef.ErrInvalidDefinition), errors.Is(err, tooldef.ErrInheritanceCycle),
		errors.Is(err, tooldef.ErrUnknownParent), errors.Is(err, tooldef.ErrUnsupportedFormat):
		b.WithOperation("load tool description").WithIssue(issue.ToolParseErrorId)
	case errors.Is(err, execute.ErrCommandNotFound):
		b.WithOperation("look up command").WithIssue(issue.CommandNotFoundId)
		if nf, ok := errors.AsType[*execute.CommandNotFoundError](err); ok {
			b.WithResource(nf.Command)
		}
	case errors.Is(err, profile.ErrProfileNotFound):
		b.WithOperation("select profile").WithIssue(issue.ProfileNotFoundId)
		if nf, ok := errors.AsType[*profile.NotFoundError](err); ok {
			b.WithResource("for " + nf.Tool)
		}
	case errors.Is(err, runtime.ErrExecutableNotFound):
		b.WithOperation("locate executable").WithIssue(issue.ExecutableNotFoundId)
	case errors.Is(err, valuetype.ErrValidation), errors.Is(err, ErrInvalidParam):
		b.WithOperation("validate parameters").WithIssue(issue.ParameterInvalidId)
	case errors.Is(err, runtime.ErrTimeout):
		b.WithOperation("run tool").WithIssue(issue.ExecutionTimeoutId)
	case errors.Is(err, runtime.ErrExecutionFailed):
		b.WithOperation("run tool").WithIssue(issue.ExecutionFailedId)
		if ee, ok := errors.AsType[*runtime.ExecutionError](err); ok && ee.Result != nil && ee.Result.Status != runtime.StatusExited {
			if sig, ok := ee.Result.ExitCode.Signal(); ok {
				b.WithSuggestion(fmt.Sprintf("The tool was ended by signal %d; check for crashes or resource limits", sig))
			}
		}
	case errors.Is(err, shell.ErrUnknownShell):
		b.WithOperation("select shell").WithIssue(issue.ShellNotSupportedId)
	case errors.Is(err, platform.ErrInvalidPlatform):
		b.WithOperation("select platform").
			WithSuggestion("Use one of: linux, macos, windows, freebsd, openbsd, netbsd")
	case errors.Is(err, version.ErrInvalidConstraint), errors.Is(err, version.ErrInvalidVersion):
		b.WithOperation("parse version constraint").
			WithSuggestion(`Write constraints like ">= 9.50", "~> 2.1" or ">= 1.0, < 2.0"`)
	default:
		b.WithOperation("run toolrun")
	}
	return b.Build()
}

// renderError prints err with its suggestions. In verbose mode the error
// chain and the long-form guidance follow.
func renderError(w io.Writer, err error, verbose bool) {
	ae := describeError(err)
	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+ae.Format(verbose))

	if !verbose {
		return
	}
	if guidance := ae.Guidance(); guidance != nil {
		if rendered, rerr := guidance.Render("auto"); rerr == nil {
			fmt.Fprint(w, rendered)
		}
	}
}

// fail renders err and converts it into the ExitError returned from RunE.
// The error was already shown, so cobra is told not to print it again.
func (a *App) fail(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	renderError(a.stderr, err, a.flags.verbose)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return newExitError(err)
}
