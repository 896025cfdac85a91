package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/noahzs/ios-preview-mcp/internal/preview"
)

var (
	buildView         string
	buildWorkspace    string
	buildScheme       string
	buildTestTarget   string
	buildDevice       string
	buildSnapshotsDir string
	buildRecord       bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build one view, run its snapshot test, and print the screenshot path",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildView, "view", "", "SwiftUI view name, e.g. ContentView (required)")
	buildCmd.Flags().StringVar(&buildWorkspace, "workspace", "", "Path to .xcworkspace or .xcodeproj file (required)")
	buildCmd.Flags().StringVar(&buildScheme, "scheme", "", "Xcode scheme name (required)")
	buildCmd.Flags().StringVar(&buildTestTarget, "test-target", "", "Test target containing ViewSnapshotTests (required)")
	buildCmd.Flags().StringVar(&buildDevice, "device", "", "Simulator device name or UDID")
	buildCmd.Flags().StringVar(&buildSnapshotsDir, "snapshots-dir", "", "Directory where snapshots are stored")
	buildCmd.Flags().BoolVar(&buildRecord, "record", false, "Refresh the snapshot baseline instead of comparing")
	_ = buildCmd.MarkFlagRequired("view")
	_ = buildCmd.MarkFlagRequired("workspace")
	_ = buildCmd.MarkFlagRequired("scheme")
	_ = buildCmd.MarkFlagRequired("test-target")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	runner := newRunner()
	w := newWorkflow(runner, newSimctl(runner))

	req := preview.Request{
		ViewName:      buildView,
		WorkspacePath: buildWorkspace,
		Scheme:        buildScheme,
		TestTarget:    buildTestTarget,
		Device:        buildDevice,
		SnapshotsDir:  buildSnapshotsDir,
		Record:        buildRecord,
	}
	if req.Device == "" {
		req.Device = cfg.Device
	}
	if req.SnapshotsDir == "" {
		req.SnapshotsDir = cfg.SnapshotsDir
	}

	res := w.BuildAndScreenshot(cmd.Context(), req)
	if res.Status == preview.StatusOK {
		color.Green("%s", res.Path)
		return nil
	}

	fmt.Fprintln(os.Stderr, color.RedString("%s", res.Text()))
	os.Exit(1)
	return nil
}
