// Package pipe runs external programs and captures their standard output.
//
// Each call spawns exactly one child with no standard input, collects
// everything it writes to standard output and waits for it to exit. The
// child's pipes and process handle are released before Run returns.
package pipe

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
)

// Runner executes an invocation and returns its captured standard output.
type Runner interface {
	Run(ctx context.Context, inv Invocation) ([]byte, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, inv Invocation) ([]byte, error)

func (f RunnerFunc) Run(ctx context.Context, inv Invocation) ([]byte, error) {
	return f(ctx, inv)
}

// ExecRunner runs invocations as child processes.
type ExecRunner struct {
	stderr   io.Writer
	recorder metrics.Recorder
}

// NewExecRunner returns a runner that forwards child stderr to os.Stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{stderr: os.Stderr, recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder observing each invocation.
func (r *ExecRunner) WithRecorder(rec metrics.Recorder) *ExecRunner {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// Run executes inv and returns everything it wrote to standard output.
// Start failures, wait failures and non-zero exits are reported as a
// subprocess error wrapping *Error. Canceling ctx kills the child and the
// returned error matches ctx.Err() rather than the kill signal.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) ([]byte, error) {
	start := time.Now()
	out, err := r.run(ctx, inv)
	r.recorder.ObservePipeDuration(inv.Name, time.Since(start), err == nil)
	return out, err
}

func (r *ExecRunner) run(ctx context.Context, inv Invocation) ([]byte, error) {
	var stdout bytes.Buffer

	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Stdin = nil
	cmd.Stdout = &stdout
	cmd.Stderr = r.stderr

	slog.Debug("Running external program", logfields.Command(inv.String()))

	if err := cmd.Start(); err != nil {
		return nil, wrap(&Error{Command: inv.Name, Op: OpStart, Err: err})
	}

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, wrap(&Error{Command: inv.Name, Op: OpWait, Err: ctxErr})
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, wrap(&Error{Command: inv.Name, Op: OpExit, ExitCode: exitErr.ExitCode(), Err: err})
		}
		return nil, wrap(&Error{Command: inv.Name, Op: OpWait, Err: err})
	}

	return stdout.Bytes(), nil
}

func wrap(pe *Error) error {
	b := ferrors.WrapError(pe, ferrors.CategorySubprocess, "run "+pe.Command).
		Fatal().
		WithContext("command", pe.Command).
		WithContext("op", string(pe.Op))
	if pe.Op == OpExit {
		b = b.WithContext("exit_code", pe.ExitCode)
	}
	return b.Build()
}
