// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/toolrun/toolrun/internal/app/execute"
	"github.com/toolrun/toolrun/internal/discovery"
	"github.com/toolrun/toolrun/internal/issue"
	"github.com/toolrun/toolrun/internal/runtime"
)

func TestDescribeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantOp   string
		wantRes  string
		wantId   issue.Id
		wantHint string
	}{
		{
			name:     "tool not found",
			err:      &discovery.ToolNotFoundError{Name: "gs", Versions: []string{"1.0.0", "2.0.0"}},
			wantOp:   "find tool description",
			wantRes:  "gs",
			wantId:   issue.ToolNotFoundId,
			wantHint: "1.0.0, 2.0.0",
		},
		{
			name:    "command not found",
			err:     fmt.Errorf("plan: %w", &execute.CommandNotFoundError{Tool: "gs", Command: "dance"}),
			wantOp:  "look up command",
			wantRes: "dance",
			wantId:  issue.CommandNotFoundId,
		},
		{
			name:   "timeout",
			err:    &runtime.TimeoutError{CommandLine: "gs", Timeout: time.Second},
			wantOp: "run tool",
			wantId: issue.ExecutionTimeoutId,
		},
		{
			name: "killed by signal",
			err:  &runtime.ExecutionError{Result: &runtime.ExecutionResult{
				CommandLine: "gs", Status: runtime.StatusSignaled, ExitCode: 137, Signal: "killed",
			}},
			wantOp:   "run tool",
			wantId:   issue.ExecutionFailedId,
			wantHint: "signal 9",
		},
		{
			name:   "invalid param",
			err:    fmt.Errorf("%w %q", ErrInvalidParam, "=x"),
			wantOp: "validate parameters",
			wantId: issue.ParameterInvalidId,
		},
		{
			name:   "unclassified",
			err:    errors.New("disk on fire"),
			wantOp: "run toolrun",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ae := describeError(tt.err)
			if ae.Operation != tt.wantOp {
				t.Errorf("Operation = %q, want %q", ae.Operation, tt.wantOp)
			}
			if ae.Resource != tt.wantRes {
				t.Errorf("Resource = %q, want %q", ae.Resource, tt.wantRes)
			}
			if ae.Issue != tt.wantId {
				t.Errorf("Issue = %v, want %v", ae.Issue, tt.wantId)
			}
			if !errors.Is(ae, tt.err) {
				t.Errorf("describeError() does not wrap %v", tt.err)
			}
			if tt.wantHint != "" && !strings.Contains(strings.Join(ae.Suggestions, "\n"), tt.wantHint) {
				t.Errorf("Suggestions = %v, want one containing %q", ae.Suggestions, tt.wantHint)
			}
		})
	}
}

func TestDescribeError_KeepsActionable(t *testing.T) {
	t.Parallel()

	orig := issue.NewErrorContext().WithOperation("load configuration").Build()
	if got := describeError(fmt.Errorf("wrapped: %w", orig)); got != orig {
		t.Errorf("describeError() = %v, want the original ActionableError", got)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"tool exit status", &runtime.ExecutionError{Result: &runtime.ExecutionResult{ExitCode: 7}}, 7},
		{"timeout", &runtime.TimeoutError{Timeout: time.Second}, exitTimeout},
		{"no result", &runtime.ExecutionError{}, exitFailure},
		{"other", errors.New("nope"), exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderError(&buf, &discovery.ToolNotFoundError{Name: "gs"}, false)
	if !strings.Contains(buf.String(), "failed to find tool description gs") {
		t.Errorf("renderError() = %q, want the operation and resource", buf.String())
	}
}

func TestGetVersionString(t *testing.T) {
	t.Parallel()

	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q, want dev (built from source)", got)
	}
}
