// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/toolrun/toolrun/internal/shell"
	"github.com/toolrun/toolrun/pkg/platform"
)

// tracerName is the instrumentation scope of execution spans.
const tracerName = "github.com/toolrun/toolrun/internal/runtime"

type (
	// Executor runs tool invocations through one shell dialect. It holds no
	// per-call state and is safe for concurrent use.
	Executor struct {
		dialect  shell.Dialect
		logger   *log.Logger
		tracer   trace.Tracer
		sandbox  platform.SandboxType
		goos     platform.Type
		lookPath func(string) (string, error)
		environ  func() []string
	}

	// Option configures an Executor.
	Option func(*Executor)

	// ExecOptions are the per-call settings of Execute.
	ExecOptions struct {
		// Aliases are alternative executable names tried on PATH after the
		// primary name.
		Aliases []string
		// SearchPaths are glob patterns tried after PATH lookup fails.
		SearchPaths []string
		// Dir is the working directory; empty means the current one.
		Dir string
		// Env overlays the inherited environment.
		Env map[string]string
		// Headless applies the dialect's headless overlay between the
		// inherited environment and Env.
		Headless bool
		// Stdin is fed to the process when set.
		Stdin io.Reader
		// Timeout bounds the run; zero means only ctx bounds it.
		Timeout time.Duration
		// AllowFailure returns non-zero exits as results instead of errors.
		AllowFailure bool
	}
)

// NewExecutor creates an executor for the given dialect. By default it
// logs nowhere, traces with the global OpenTelemetry provider, detects the
// sandbox and platform of the current process, and inherits os.Environ.
func NewExecutor(d shell.Dialect, opts ...Option) *Executor {
	e := &Executor{
		dialect:  d,
		logger:   log.New(io.Discard),
		tracer:   otel.Tracer(tracerName),
		sandbox:  platform.DetectSandbox(),
		goos:     platform.Current(),
		lookPath: exec.LookPath,
		environ:  os.Environ,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithLogger sets the logger for resolution and exit events.
func WithLogger(l *log.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTracer sets the tracer used for execution spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Executor) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithSandbox overrides sandbox detection. Inside a sandbox every spawn is
// routed to the host.
func WithSandbox(st platform.SandboxType) Option {
	return func(e *Executor) { e.sandbox = st }
}

// WithPlatform overrides the platform used for environment key folding and
// executable checks.
func WithPlatform(p platform.Type) Option {
	return func(e *Executor) { e.goos = p }
}

// WithLookPath replaces the PATH lookup.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(e *Executor) { e.lookPath = fn }
}

// WithEnviron replaces the inherited environment.
func WithEnviron(fn func() []string) Option {
	return func(e *Executor) { e.environ = fn }
}

// Dialect returns the dialect the executor runs commands through.
func (e *Executor) Dialect() shell.Dialect { return e.dialect }

// Environment returns the complete child environment for opts.
func (e *Executor) Environment(opts ExecOptions) []string {
	var overlays []map[string]string
	if opts.Headless {
		overlays = append(overlays, e.dialect.HeadlessEnvironment())
	}
	overlays = append(overlays, opts.Env)
	return mergeEnv(e.environ(), e.goos == platform.TypeWindows, overlays...)
}

// Execute resolves executable, runs it with args and classifies the exit.
//
// On a non-zero exit without AllowFailure the result is returned together
// with an *ExecutionError carrying it. Resolution failures, timeouts and
// spawn failures return a nil result.
func (e *Executor) Execute(ctx context.Context, executable string, args []string, opts ExecOptions) (_ *ExecutionResult, err error) {
	id := uuid.NewString()
	ctx, span := e.tracer.Start(ctx, "toolrun.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("toolrun.execution_id", id),
			attribute.String("toolrun.executable", executable),
			attribute.String("toolrun.dialect", string(e.dialect.Name())),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	logger := e.logger.With("id", id)

	path, err := e.Resolve(executable, opts.Aliases, opts.SearchPaths)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved executable", "name", executable, "path", path)

	req := shell.Request{
		Executable: path,
		Args:       args,
		Dir:        opts.Dir,
		Env:        e.Environment(opts),
		Stdin:      opts.Stdin,
		Timeout:    opts.Timeout,
		Prefix:     platform.HostArgv(e.sandbox, nil),
	}
	logger.Debug("running", "command", e.dialect.Join(path, args...))

	out, err := e.dialect.Execute(ctx, req)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			logger.Warn("command timed out", "timeout", opts.Timeout)
		}
		return nil, err
	}

	res := &ExecutionResult{
		ID:          id,
		Executable:  path,
		Argv:        out.Argv,
		CommandLine: out.CommandLine,
		Stdout:      out.Stdout,
		Stderr:      out.Stderr,
		StartedAt:   out.StartedAt,
		FinishedAt:  out.FinishedAt,
	}
	res.ExitCode, res.Status, res.Signal = classify(out.State)

	span.SetAttributes(
		attribute.Int("toolrun.exit_code", int(res.ExitCode)),
		attribute.String("toolrun.exit_status", res.Status.String()),
	)
	logger.Debug("finished", "status", res.Status, "code", res.ExitCode, "duration", res.Duration())

	if !res.Success() && !opts.AllowFailure {
		return res, &ExecutionError{Result: res}
	}
	return res, nil
}
