// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"time"
)

// killGrace is how long Wait keeps waiting for the output pipes after the
// process group has been killed.
const killGrace = 2 * time.Second

// run joins the request into a command line, starts the dialect's
// interpreter on it and waits for it to finish or time out.
//
// A non-zero exit is not an error: the returned Output carries the process
// state and the caller classifies it. A timeout kills the whole process
// group and returns *TimeoutError.
func run(ctx context.Context, d Dialect, req Request) (*Output, error) {
	line := d.Join(req.Executable, req.Args...)
	argv := d.Interpreter(line)
	if len(req.Prefix) > 0 {
		argv = append(slices.Clone(req.Prefix), argv...)
	}

	runCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = req.Dir
	cmd.Env = req.Env
	// os/exec copies Stdin from its own goroutine while two more goroutines
	// drain stdout and stderr, so a child that echoes large output while
	// reading large input cannot deadlock on a full pipe.
	cmd.Stdin = req.Stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = killGrace
	configureProcess(cmd, d.Name(), argv)

	out := &Output{CommandLine: line, Argv: argv, StartedAt: time.Now()}
	err := cmd.Run()
	out.FinishedAt = time.Now()
	out.Stdout = stdout.Bytes()
	out.Stderr = stderr.Bytes()
	out.State = cmd.ProcessState

	if err == nil {
		return out, nil
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		timeout := req.Timeout
		if timeout == 0 {
			if deadline, ok := ctx.Deadline(); ok {
				timeout = deadline.Sub(out.StartedAt).Round(time.Millisecond)
			}
		}
		return out, &TimeoutError{CommandLine: line, Timeout: timeout}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, fmt.Errorf("run %s: %w", argv[0], ctxErr)
	}
	if _, ok := errors.AsType[*exec.ExitError](err); ok && out.State != nil {
		return out, nil
	}
	return out, fmt.Errorf("run %s: %w", argv[0], err)
}
