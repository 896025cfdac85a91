package main

import (
	"github.com/noahzs/ios-preview-mcp/internal/logging"
	"github.com/noahzs/ios-preview-mcp/internal/preview"
	"github.com/noahzs/ios-preview-mcp/internal/proc"
	"github.com/noahzs/ios-preview-mcp/internal/simctl"
)

func newRunner() proc.ExecRunner {
	return proc.ExecRunner{Log: logging.New("proc")}
}

func newSimctl(runner proc.Runner) *simctl.Client {
	sim := simctl.NewClient(runner)
	sim.BootTimeout = cfg.BootTimeout.Std()
	sim.QueryTimeout = cfg.QueryTimeout.Std()
	sim.ScratchDir = cfg.ScratchDir
	return sim
}

func newWorkflow(runner proc.Runner, sim *simctl.Client) *preview.Workflow {
	w := preview.New(runner, sim)
	w.BuildTimeout = cfg.BuildTimeout.Std()
	w.SearchTimeout = cfg.SearchTimeout.Std()
	w.SettleDelay = cfg.SettleDelay.Std()
	return w
}
