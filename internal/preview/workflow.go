package preview

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/noahzs/ios-preview-mcp/internal/logging"
	"github.com/noahzs/ios-preview-mcp/internal/proc"
	"github.com/noahzs/ios-preview-mcp/internal/simctl"
)

// Workflow runs one build-and-screenshot cycle to completion. It holds no
// state between runs; concurrent runs against the same device or scheme
// are the caller's responsibility to avoid.
type Workflow struct {
	// BuildTimeout bounds the xcodebuild call.
	BuildTimeout time.Duration
	// SearchTimeout bounds the fallback filesystem search.
	SearchTimeout time.Duration
	// SettleDelay is waited after a fresh simulator boot.
	SettleDelay time.Duration

	runner proc.Runner
	sim    *simctl.Client
	log    *slog.Logger
	sleep  func(time.Duration)
}

// New returns a Workflow with the default timeout policy.
func New(runner proc.Runner, sim *simctl.Client) *Workflow {
	return &Workflow{
		BuildTimeout:  180 * time.Second,
		SearchTimeout: 10 * time.Second,
		SettleDelay:   2 * time.Second,
		runner:        runner,
		sim:           sim,
		log:           logging.New("workflow"),
		sleep:         time.Sleep,
	}
}

// BuildAndScreenshot validates the request, boots the simulator, runs the
// single generated snapshot test, and resolves the produced PNG. Every
// failure mode comes back as a Result value; a panic anywhere in the
// orchestration is converted rather than propagated.
func (w *Workflow) BuildAndScreenshot(ctx context.Context, req Request) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("workflow panicked", "panic", r)
			res = recoveredResult(r)
		}
	}()

	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return Result{Status: StatusInvalidInput, Message: err.Error()}
	}
	if _, err := os.Stat(req.WorkspacePath); err != nil {
		return Result{
			Status:  StatusInvalidInput,
			Message: fmt.Sprintf("Workspace/project not found at %s", req.WorkspacePath),
		}
	}

	w.log.Info("building and testing view",
		"view", req.ViewName, "scheme", req.Scheme, "device", req.Device, "record", req.Record)

	// A failed boot usually means the device is already booted; only a
	// fresh boot needs time to settle before being targeted.
	booted, err := w.sim.Boot(ctx, req.Device)
	if err != nil {
		return internalResult(err)
	}
	if booted {
		w.sleep(w.SettleDelay)
	}

	out, err := w.runTest(ctx, req)
	if err != nil {
		return internalResult(err)
	}
	if out.TimedOut {
		return Result{
			Status: StatusTimeout,
			Message: fmt.Sprintf("Build timed out after %d seconds. The build might be hanging or taking too long.",
				int(w.BuildTimeout.Seconds())),
		}
	}
	if out.ExitCode != 0 {
		return classifyFailure(out)
	}

	return w.locateArtifact(ctx, req)
}

func (w *Workflow) runTest(ctx context.Context, req Request) (proc.Outcome, error) {
	testID := TestIdentifier(req.TestTarget, req.ViewName)
	destination := "platform=iOS Simulator," + simctl.DeviceSpecifier(req.Device)

	cmd := proc.Command{
		Name: "xcodebuild",
		Args: []string{
			"test",
			buildFlag(req.WorkspacePath), req.WorkspacePath,
			"-scheme", req.Scheme,
			"-destination", destination,
			"-only-testing", testID,
		},
		Timeout: w.BuildTimeout,
	}
	if req.Record {
		cmd.ExtraEnv = []string{RecordModeEnv + "=1"}
	}

	w.log.Info("running snapshot test", "test", testID, "destination", destination)
	return w.runner.Run(ctx, cmd)
}

func (w *Workflow) locateArtifact(ctx context.Context, req Request) Result {
	filename := SnapshotFilename(req.ViewName)

	absWorkspace, err := filepath.Abs(req.WorkspacePath)
	if err != nil {
		return internalResult(err)
	}
	workspaceDir := filepath.Dir(absWorkspace)

	candidates := CandidatePaths(workspaceDir, req.SnapshotsDir, req.TestTarget, filename)
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			w.log.Info("screenshot captured", "path", candidate)
			return Result{Status: StatusOK, Path: candidate}
		}
	}

	// The harness's output root is not fully known in advance; fall back
	// to a bounded search by exact filename.
	if found, ok := searchByName(ctx, workspaceDir, filename, w.SearchTimeout); ok {
		w.log.Info("screenshot found via fallback search", "path", found)
		return Result{Status: StatusOK, Path: found}
	}

	return Result{Status: StatusArtifactMissing, Checked: candidates}
}
