// Package capture runs a Python program with import profiling enabled and
// collects the trace the interpreter writes to stderr.
//
// The child's stdout is passed through unchanged so that interactive
// programs keep working; stderr is buffered, since that is where
// `-X importtime` output lands. A non-zero exit status is reported in
// [Result.ExitCode] rather than as an error: a program that crashes half-way
// through its imports still produces a useful trace.
package capture

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/matzehuels/pyimporttime/pkg/errors"
	"github.com/matzehuels/pyimporttime/pkg/observability"
)

// DefaultPython is the interpreter used when [Command.Python] is empty.
const DefaultPython = "python3"

// EnvVar enables import profiling without touching the interpreter's flags.
const EnvVar = "PYTHONPROFILEIMPORTTIME"

// Command describes a traced interpreter run.
type Command struct {
	// Python is the interpreter name or path. Defaults to DefaultPython.
	Python string
	// Args are passed to the interpreter, or to the script when Args[0]
	// names an executable Python script.
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env adds KEY=VALUE entries to the inherited environment.
	Env []string
	// Stdin and Stdout are connected to the child. Nil means the process's
	// own stdin and stdout.
	Stdin  io.Reader
	Stdout io.Writer
	// Stderr, when set, receives a copy of everything the child writes to
	// stderr, trace lines included.
	Stderr io.Writer
}

// Result is the outcome of a traced run.
type Result struct {
	Trace      string        // everything the child wrote to stderr
	ExitCode   int           // child exit status; -1 if killed by a signal
	Executable string        // program actually started
	Args       []string      // arguments passed to Executable
	Duration   time.Duration // wall time of the run
}

// Run starts the interpreter, waits for it to exit and returns its stderr.
//
// Errors are returned only when the process cannot be run at all
// (CAPTURE_FAILED) or ctx is cancelled (ctx.Err()).
func Run(ctx context.Context, c Command) (*Result, error) {
	python := c.Python
	if python == "" {
		python = DefaultPython
	}
	if err := errors.ValidateInterpreter(python); err != nil {
		return nil, err
	}

	exe, args := Resolve(python, c.Args)

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), EnvVar+"=1")
	cmd.Env = append(cmd.Env, c.Env...)
	cmd.Stdin, cmd.Stdout = os.Stdin, os.Stdout
	if c.Stdin != nil {
		cmd.Stdin = c.Stdin
	}
	if c.Stdout != nil {
		cmd.Stdout = c.Stdout
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if c.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, c.Stderr)
	}

	hooks := observability.Capture()
	hooks.OnCaptureStart(ctx, exe, args)
	start := time.Now()

	err := cmd.Run()
	res := &Result{
		Trace:      stderr.String(),
		Executable: exe,
		Args:       args,
		Duration:   time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		hooks.OnCaptureComplete(ctx, exe, -1, stderr.Len(), res.Duration, ctxErr)
		return nil, ctxErr
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case stderrors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		err = errors.Wrap(errors.ErrCodeCaptureFailed, err, "run %s", exe)
		hooks.OnCaptureComplete(ctx, exe, -1, 0, res.Duration, err)
		return nil, err
	}

	hooks.OnCaptureComplete(ctx, exe, res.ExitCode, stderr.Len(), res.Duration, nil)
	return res, nil
}
