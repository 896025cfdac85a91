// Package proctest provides a scripted Runner for tests that must observe
// or fake external process invocations.
package proctest

import (
	"context"
	"sync"

	"github.com/noahzs/ios-preview-mcp/internal/proc"
)

// Runner records every Command it receives and answers via Script. A nil
// Script reports success with empty output for every call.
type Runner struct {
	Script func(cmd proc.Command) (proc.Outcome, error)

	mu    sync.Mutex
	calls []proc.Command
}

func (r *Runner) Run(_ context.Context, cmd proc.Command) (proc.Outcome, error) {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	r.mu.Unlock()

	if r.Script == nil {
		return proc.Outcome{}, nil
	}
	return r.Script(cmd)
}

// Calls returns a copy of every recorded invocation in order.
func (r *Runner) Calls() []proc.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]proc.Command, len(r.calls))
	copy(out, r.calls)
	return out
}

// CommandLines renders each recorded call as "name arg1 arg2 ..." for
// compact assertions.
func (r *Runner) CommandLines() []string {
	calls := r.Calls()
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		line := c.Name
		for _, a := range c.Args {
			line += " " + a
		}
		lines = append(lines, line)
	}
	return lines
}
