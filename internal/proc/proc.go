// Package proc runs external commands with captured output, bounded
// wall-clock timeouts, and per-call environment overrides. Everything that
// shells out (simctl, xcodebuild) goes through the Runner interface so tests
// can substitute a scripted spy and assert on the exact invocations.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Command describes one external invocation.
type Command struct {
	Name string
	Args []string

	// ExtraEnv entries ("KEY=VALUE") are appended to a copy of the parent
	// environment. The parent's own environment is never mutated.
	ExtraEnv []string

	// Dir is the working directory; empty means inherit.
	Dir string

	// Timeout bounds the call's wall clock. Zero means no bound beyond ctx.
	Timeout time.Duration
}

// Outcome is the terminal state of a finished command. A non-zero exit and
// a timeout are both normal outcomes here, not errors; Run reserves its
// error return for failures to execute at all (binary missing, fork failed).
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}

// Runner executes commands. The production implementation is ExecRunner.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Outcome, error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct {
	Log *slog.Logger
}

func (r ExecRunner) Run(ctx context.Context, spec Command) (Outcome, error) {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	cmd.Env = append(os.Environ(), spec.ExtraEnv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	out := Outcome{Stdout: stdout.String(), Stderr: stderr.String()}

	if ctx.Err() == context.DeadlineExceeded {
		out.TimedOut = true
		if r.Log != nil {
			r.Log.Warn("command timed out", "cmd", spec.Name, "elapsed", elapsed)
		}
		return out, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			if r.Log != nil {
				r.Log.Debug("command exited non-zero",
					"cmd", spec.Name, "exit_code", out.ExitCode, "elapsed", elapsed)
			}
			return out, nil
		}
		return out, fmt.Errorf("run %s: %w", spec.Name, err)
	}

	if r.Log != nil {
		r.Log.Debug("command succeeded", "cmd", spec.Name, "elapsed", elapsed)
	}
	return out, nil
}
