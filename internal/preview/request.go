// Package preview implements the build-test-locate workflow: it drives
// xcodebuild against a single generated snapshot test and resolves the PNG
// the snapshot harness wrote.
package preview

import (
	"fmt"
	"strings"

	"github.com/noahzs/ios-preview-mcp/internal/simctl"
)

// SnapshotTestClass is the generated test class the harness requires.
// The naming convention is fixed by the harness, not configurable.
const SnapshotTestClass = "ViewSnapshotTests"

// RecordModeEnv switches the snapshot harness into record mode when set
// to "1" in the xcodebuild child environment.
const RecordModeEnv = "SNAPSHOT_RECORD_MODE"

// DefaultSnapshotsDir is where the harness writes snapshots unless the
// project overrides it.
const DefaultSnapshotsDir = "./__Snapshots__"

// Request carries the inputs for one build-and-screenshot run.
type Request struct {
	// ViewName is the SwiftUI view type, e.g. "ContentView".
	ViewName string
	// WorkspacePath points at the .xcworkspace or .xcodeproj file.
	WorkspacePath string
	// Scheme is the Xcode scheme to build.
	Scheme string
	// TestTarget is the test target containing the generated snapshot tests.
	TestTarget string
	// Device is a simulator name or UDID; empty selects the default.
	Device string
	// SnapshotsDir is where the harness writes snapshots, relative to the
	// harness's output root; empty selects the default.
	SnapshotsDir string
	// Record refreshes the snapshot baseline instead of comparing.
	Record bool
}

// ApplyDefaults fills empty optional fields in place.
func (r *Request) ApplyDefaults() {
	if r.Device == "" {
		r.Device = simctl.DefaultDevice
	}
	if r.SnapshotsDir == "" {
		r.SnapshotsDir = DefaultSnapshotsDir
	}
}

// Validate reports the first missing required field.
func (r *Request) Validate() error {
	switch {
	case r.ViewName == "":
		return fmt.Errorf("view_name is required")
	case r.WorkspacePath == "":
		return fmt.Errorf("workspace_path is required")
	case r.Scheme == "":
		return fmt.Errorf("scheme is required")
	case r.TestTarget == "":
		return fmt.Errorf("test_target is required")
	}
	return nil
}

// TestIdentifier names the single generated test xcodebuild should run:
// <test_target>/ViewSnapshotTests/test<ViewName>.
func TestIdentifier(testTarget, viewName string) string {
	return testTarget + "/" + SnapshotTestClass + "/test" + viewName
}

// SnapshotFilename is the PNG the harness writes for the view's generated
// test. Sequence number 1: the generated method snapshots exactly once.
func SnapshotFilename(viewName string) string {
	return "test" + viewName + ".1.png"
}

// buildFlag picks the xcodebuild container flag from the path suffix.
func buildFlag(workspacePath string) string {
	if strings.HasSuffix(workspacePath, ".xcworkspace") {
		return "-workspace"
	}
	return "-project"
}
