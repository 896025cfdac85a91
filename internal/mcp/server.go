// Package mcp exposes the preview workflow as MCP tools over the official
// go-sdk. Every tool returns a single text content block: an absolute path
// on success, a prefixed message on failure. Handler errors never reach the
// transport; faults become failure text.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/noahzs/ios-preview-mcp/internal/config"
	"github.com/noahzs/ios-preview-mcp/internal/logging"
	"github.com/noahzs/ios-preview-mcp/internal/preview"
	"github.com/noahzs/ios-preview-mcp/internal/proc"
	"github.com/noahzs/ios-preview-mcp/internal/simctl"
)

// Server wraps the MCP SDK server around the preview workflow and the
// simctl client. Handlers are stateless; nothing is shared across calls
// beyond the injected runner.
type Server struct {
	MCPServer *sdkmcp.Server

	cfg      config.Config
	workflow *preview.Workflow
	sim      *simctl.Client
	log      *slog.Logger
}

// NewServer builds a server with the given configuration. The runner is
// injected so tests can substitute a scripted spy.
func NewServer(cfg config.Config, runner proc.Runner) *Server {
	sim := simctl.NewClient(runner)
	sim.BootTimeout = cfg.BootTimeout.Std()
	sim.QueryTimeout = cfg.QueryTimeout.Std()
	sim.ScratchDir = cfg.ScratchDir

	workflow := preview.New(runner, sim)
	workflow.BuildTimeout = cfg.BuildTimeout.Std()
	workflow.SearchTimeout = cfg.SearchTimeout.Std()
	workflow.SettleDelay = cfg.SettleDelay.Std()

	s := &Server{
		cfg:      cfg,
		workflow: workflow,
		sim:      sim,
		log:      logging.New("mcp"),
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "ios-preview", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "build_and_screenshot",
		Description: "Build a SwiftUI view and capture its screenshot via the snapshot-test harness. Returns the absolute path to the PNG.",
	}, s.handleBuildAndScreenshot)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_simulators",
		Description: "List all available iOS Simulator devices.",
	}, s.handleListSimulators)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "quick_screenshot",
		Description: "Screenshot the currently running simulator without rebuilding. Returns the absolute path to the PNG.",
	}, s.handleQuickScreenshot)
}

// --- Tool input types ---

type buildAndScreenshotInput struct {
	ViewName      string `json:"view_name" jsonschema:"name of the SwiftUI view (e.g. ContentView, ProfileView)"`
	WorkspacePath string `json:"workspace_path" jsonschema:"path to the .xcworkspace or .xcodeproj file"`
	Scheme        string `json:"scheme" jsonschema:"Xcode scheme name"`
	TestTarget    string `json:"test_target" jsonschema:"test target containing ViewSnapshotTests"`
	Device        string `json:"device,omitempty" jsonschema:"simulator device name or UDID (default iPhone 15 Pro)"`
	SnapshotsDir  string `json:"snapshots_dir,omitempty" jsonschema:"directory where snapshots are stored (default ./__Snapshots__)"`
	Record        bool   `json:"record,omitempty" jsonschema:"run in record mode to refresh the snapshot baseline"`
}

type listSimulatorsInput struct{}

type quickScreenshotInput struct {
	Device string `json:"device,omitempty" jsonschema:"simulator device name or UDID (default iPhone 15 Pro)"`
}

// --- Tool handlers ---

func textResult(text string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
	}
}

// guard converts a handler panic into failure text so no fault crosses the
// tool boundary.
func (s *Server) guard(res **sdkmcp.CallToolResult, err *error) {
	if r := recover(); r != nil {
		s.log.Error("tool handler panicked", "panic", r)
		*res = textResult(fmt.Sprintf("❌ Unexpected error: %v", r))
		*err = nil
	}
}

func (s *Server) handleBuildAndScreenshot(ctx context.Context, _ *sdkmcp.CallToolRequest, input buildAndScreenshotInput) (res *sdkmcp.CallToolResult, _ any, err error) {
	defer s.guard(&res, &err)

	req := preview.Request{
		ViewName:      input.ViewName,
		WorkspacePath: input.WorkspacePath,
		Scheme:        input.Scheme,
		TestTarget:    input.TestTarget,
		Device:        input.Device,
		SnapshotsDir:  input.SnapshotsDir,
		Record:        input.Record,
	}
	if req.Device == "" {
		req.Device = s.cfg.Device
	}
	if req.SnapshotsDir == "" {
		req.SnapshotsDir = s.cfg.SnapshotsDir
	}

	result := s.workflow.BuildAndScreenshot(ctx, req)
	return textResult(result.Text()), nil, nil
}

func (s *Server) handleListSimulators(ctx context.Context, _ *sdkmcp.CallToolRequest, _ listSimulatorsInput) (res *sdkmcp.CallToolResult, _ any, err error) {
	defer s.guard(&res, &err)

	devices, listErr := s.sim.List(ctx)
	if listErr != nil {
		return textResult(fmt.Sprintf("❌ Error listing simulators: %v", listErr)), nil, nil
	}
	return textResult(FormatDeviceList(devices)), nil, nil
}

func (s *Server) handleQuickScreenshot(ctx context.Context, _ *sdkmcp.CallToolRequest, input quickScreenshotInput) (res *sdkmcp.CallToolResult, _ any, err error) {
	defer s.guard(&res, &err)

	device := input.Device
	if device == "" {
		device = s.cfg.Device
	}

	path, capErr := s.sim.QuickScreenshot(ctx, device)
	if capErr != nil {
		return textResult(fmt.Sprintf("❌ Error taking screenshot: %v", capErr)), nil, nil
	}
	return textResult(path), nil, nil
}

// FormatDeviceList renders simulators as the tool's bulleted listing, or an
// explanatory message when none are installed.
func FormatDeviceList(devices []simctl.Device) string {
	if len(devices) == 0 {
		return "No iOS simulators found. Install simulators via Xcode preferences."
	}
	var b strings.Builder
	b.WriteString("Available iOS Simulators:")
	for _, d := range devices {
		b.WriteString("\n  • ")
		b.WriteString(d.Raw)
	}
	return b.String()
}
