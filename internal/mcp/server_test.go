package mcp_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/noahzs/ios-preview-mcp/internal/config"
	mcpserver "github.com/noahzs/ios-preview-mcp/internal/mcp"
	"github.com/noahzs/ios-preview-mcp/internal/proc"
	"github.com/noahzs/ios-preview-mcp/internal/proc/proctest"
	"github.com/noahzs/ios-preview-mcp/internal/simctl"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})))
	os.Exit(m.Run())
}

func connectInMemory(t *testing.T, ctx context.Context, srv *mcpserver.Server) *sdkmcp.ClientSession {
	t.Helper()
	t1, t2 := sdkmcp.NewInMemoryTransports()
	serverSession, err := srv.MCPServer.Connect(ctx, t1, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

// callToolText invokes a tool and returns its single text content block.
func callToolText(t *testing.T, ctx context.Context, session *sdkmcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	for _, c := range res.Content {
		if tc, ok := c.(*sdkmcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatalf("no text content in %s result", name)
	return ""
}

func TestServer_ToolDiscovery(t *testing.T) {
	srv := mcpserver.NewServer(config.Default(), &proctest.Runner{})
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	want := map[string]bool{
		"build_and_screenshot": false,
		"list_simulators":      false,
		"quick_screenshot":     false,
	}
	for _, tool := range tools.Tools {
		if _, ok := want[tool.Name]; ok {
			want[tool.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("tool %q not found in ListTools", name)
		}
	}
}

func TestServer_BuildAndScreenshot_MissingWorkspace(t *testing.T) {
	spy := &proctest.Runner{}
	srv := mcpserver.NewServer(config.Default(), spy)
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)

	text := callToolText(t, ctx, session, "build_and_screenshot", map[string]any{
		"view_name":      "ContentView",
		"workspace_path": "/no/such/App.xcworkspace",
		"scheme":         "MyApp",
		"test_target":    "MyAppTests",
	})

	if !strings.HasPrefix(text, "❌ Error: Workspace/project not found at") {
		t.Errorf("text = %q", text)
	}
	if n := len(spy.Calls()); n != 0 {
		t.Errorf("spawned %d processes, want 0", n)
	}
}

func TestServer_ListSimulators(t *testing.T) {
	spy := &proctest.Runner{Script: func(proc.Command) (proc.Outcome, error) {
		return proc.Outcome{Stdout: "-- iOS 17.2 --\n    iPhone 15 Pro (8EA4F067-77E6-4B55-B74F-8B4B2F2C9A01) (Booted)\n"}, nil
	}}
	srv := mcpserver.NewServer(config.Default(), spy)
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)

	text := callToolText(t, ctx, session, "list_simulators", nil)
	if !strings.HasPrefix(text, "Available iOS Simulators:") {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(text, "• iPhone 15 Pro") {
		t.Errorf("text missing device bullet: %q", text)
	}
}

func TestServer_ListSimulators_Empty(t *testing.T) {
	srv := mcpserver.NewServer(config.Default(), &proctest.Runner{})
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)

	text := callToolText(t, ctx, session, "list_simulators", nil)
	if text != "No iOS simulators found. Install simulators via Xcode preferences." {
		t.Errorf("text = %q", text)
	}
}

func TestServer_QuickScreenshot_UsesConfiguredDefaultDevice(t *testing.T) {
	spy := &proctest.Runner{Script: func(cmd proc.Command) (proc.Outcome, error) {
		target := cmd.Args[len(cmd.Args)-1]
		if err := os.WriteFile(target, []byte("png"), 0o644); err != nil {
			return proc.Outcome{}, err
		}
		return proc.Outcome{}, nil
	}}
	cfg := config.Default()
	cfg.Device = "iPhone 16"
	cfg.ScratchDir = t.TempDir()
	srv := mcpserver.NewServer(cfg, spy)
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)

	text := callToolText(t, ctx, session, "quick_screenshot", nil)
	if !filepath.IsAbs(text) || !strings.HasSuffix(text, ".png") {
		t.Errorf("expected an absolute PNG path, got %q", text)
	}

	call := spy.Calls()[0]
	deviceArgSeen := false
	for _, arg := range call.Args {
		if arg == "iPhone 16" {
			deviceArgSeen = true
		}
	}
	if !deviceArgSeen {
		t.Errorf("configured default device not used, args: %v", call.Args)
	}
}

func TestServer_QuickScreenshot_Failure(t *testing.T) {
	spy := &proctest.Runner{Script: func(proc.Command) (proc.Outcome, error) {
		return proc.Outcome{ExitCode: 1, Stderr: "Invalid device: iPhone 99"}, nil
	}}
	cfg := config.Default()
	cfg.ScratchDir = t.TempDir()
	srv := mcpserver.NewServer(cfg, spy)
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)

	text := callToolText(t, ctx, session, "quick_screenshot", map[string]any{"device": "iPhone 99"})
	if !strings.HasPrefix(text, "❌ Error taking screenshot:") {
		t.Errorf("text = %q", text)
	}
}

func TestFormatDeviceList(t *testing.T) {
	devices := []simctl.Device{
		{Raw: "iPhone 15 (D5C2F6A1-9E04-4B2F-8A31-0C6E2B7D4F90) (Shutdown)"},
		{Raw: "iPad Air (1B7D0E44-3A92-4F6B-BD2C-7E5A90C1F328) (Booted)"},
	}
	got := mcpserver.FormatDeviceList(devices)
	want := "Available iOS Simulators:\n" +
		"  • iPhone 15 (D5C2F6A1-9E04-4B2F-8A31-0C6E2B7D4F90) (Shutdown)\n" +
		"  • iPad Air (1B7D0E44-3A92-4F6B-BD2C-7E5A90C1F328) (Booted)"
	if got != want {
		t.Errorf("FormatDeviceList:\ngot  %q\nwant %q", got, want)
	}
}
