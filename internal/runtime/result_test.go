// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestExecutionResult_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result ExecutionResult
		want   bool
	}{
		{name: "exit zero", result: ExecutionResult{Status: StatusExited}, want: true},
		{name: "exit non-zero", result: ExecutionResult{Status: StatusExited, ExitCode: 2}, want: false},
		{name: "signaled", result: ExecutionResult{Status: StatusSignaled, ExitCode: 137}, want: false},
		{name: "unknown with zero code", result: ExecutionResult{Status: StatusUnknown}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.result.Success(); got != tt.want {
				t.Errorf("Success() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExecutionResult_Duration(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := &ExecutionResult{StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond)}
	if got := r.Duration(); got != 1500*time.Millisecond {
		t.Errorf("Duration() = %v, want 1.5s", got)
	}
}

func TestExecutionError(t *testing.T) {
	t.Parallel()

	res := &ExecutionResult{
		CommandLine: "gs -q missing.ps",
		Status:      StatusExited,
		ExitCode:    1,
		Stderr:      []byte("Error: /undefinedfilename\n"),
	}
	err := error(&ExecutionError{Result: res})

	if !errors.Is(err, ErrExecutionFailed) {
		t.Error("errors.Is(err, ErrExecutionFailed) = false")
	}
	for _, want := range []string{"gs -q missing.ps", "exited with code 1", "/undefinedfilename"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error() = %q, want it to contain %q", err.Error(), want)
		}
	}

	ee, ok := errors.AsType[*ExecutionError](err)
	if !ok || ee.Result != res {
		t.Error("ExecutionError does not carry its result")
	}
}

func TestExecutionError_TruncatesStderrOnRuneBoundary(t *testing.T) {
	t.Parallel()

	// One ASCII byte shifts the two-byte runes so byte 512 falls inside one.
	stderr := "x" + strings.Repeat("é", 400)
	err := &ExecutionError{Result: &ExecutionResult{
		CommandLine: "pdftk in.pdf",
		Status:      StatusExited,
		ExitCode:    2,
		Stderr:      []byte(stderr),
	}}

	msg := err.Error()
	if !utf8.ValidString(msg) {
		t.Errorf("Error() is not valid UTF-8: %q", msg)
	}
	if !strings.HasSuffix(msg, "é...") {
		t.Errorf("Error() = %q, want it to end with a whole rune and ...", msg)
	}
	quoted := msg[strings.Index(msg, ": ")+2 : len(msg)-len("...")]
	if len(quoted) > maxErrorStderr {
		t.Errorf("quoted stderr is %d bytes, want at most %d", len(quoted), maxErrorStderr)
	}
}

func TestExecutableNotFoundError(t *testing.T) {
	t.Parallel()

	err := error(&ExecutableNotFoundError{Name: "gs", Aliases: []string{"gswin64c"}, Patterns: []string{"/opt/gs/*/bin/gs"}})
	if !errors.Is(err, ErrExecutableNotFound) {
		t.Error("errors.Is(err, ErrExecutableNotFound) = false")
	}
	for _, want := range []string{`"gs"`, "gswin64c", "/opt/gs/*/bin/gs"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error() = %q, want it to contain %q", err.Error(), want)
		}
	}
}
