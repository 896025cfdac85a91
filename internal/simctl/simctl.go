// Package simctl wraps the `xcrun simctl` device-control utility: booting
// simulators, enumerating available devices, and capturing screenshots.
package simctl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/noahzs/ios-preview-mcp/internal/logging"
	"github.com/noahzs/ios-preview-mcp/internal/proc"
)

const (
	// DefaultDevice targets the simulator most snapshot suites pin to.
	DefaultDevice = "iPhone 15 Pro"

	defaultScratchDir   = "/tmp/ios_screenshots"
	defaultBootTimeout  = 30 * time.Second
	defaultQueryTimeout = 10 * time.Second
)

// Client issues simctl subcommands through a proc.Runner.
type Client struct {
	BootTimeout  time.Duration
	QueryTimeout time.Duration

	// ScratchDir receives ad-hoc screenshots taken outside a build run.
	ScratchDir string

	runner proc.Runner
	log    *slog.Logger
	now    func() time.Time
}

// NewClient returns a Client with default timeouts and scratch directory.
func NewClient(r proc.Runner) *Client {
	return &Client{
		BootTimeout:  defaultBootTimeout,
		QueryTimeout: defaultQueryTimeout,
		ScratchDir:   defaultScratchDir,
		runner:       r,
		log:          logging.New("simctl"),
		now:          time.Now,
	}
}

// DeviceSpecifier maps a device string to an xcodebuild destination field.
// UDIDs contain dashes and device names typically don't, so any dash selects
// the id= form. A device name containing a dash would be misclassified; the
// heuristic is kept for compatibility with the test harnesses that rely on it.
func DeviceSpecifier(device string) string {
	if strings.Contains(device, "-") {
		return "id=" + device
	}
	return "name=" + device
}

// Boot boots the named device. A non-zero exit is reported as booted=false
// with a nil error: the device is usually already booted and the caller
// proceeds either way.
func (c *Client) Boot(ctx context.Context, device string) (booted bool, err error) {
	out, err := c.runner.Run(ctx, proc.Command{
		Name:    "xcrun",
		Args:    []string{"simctl", "boot", device},
		Timeout: c.BootTimeout,
	})
	if err != nil {
		return false, err
	}
	if out.ExitCode != 0 || out.TimedOut {
		c.log.Debug("boot did not succeed, continuing",
			"device", device, "exit_code", out.ExitCode, "timed_out", out.TimedOut)
		return false, nil
	}
	return true, nil
}

// Screenshot captures the device's current screen to outPath.
func (c *Client) Screenshot(ctx context.Context, device, outPath string) error {
	out, err := c.runner.Run(ctx, proc.Command{
		Name:    "xcrun",
		Args:    []string{"simctl", "io", device, "screenshot", outPath},
		Timeout: c.QueryTimeout,
	})
	if err != nil {
		return err
	}
	if out.ExitCode != 0 || out.TimedOut {
		return fmt.Errorf("failed to capture screenshot: %s", strings.TrimSpace(out.Stderr))
	}
	return nil
}

// QuickScreenshot captures the device's current screen to the scratch
// directory under a timestamped filename and returns the absolute path.
func (c *Client) QuickScreenshot(ctx context.Context, device string) (string, error) {
	if err := os.MkdirAll(c.ScratchDir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshots dir: %w", err)
	}

	path := filepath.Join(c.ScratchDir, fmt.Sprintf("simulator_%d.png", c.now().Unix()))
	if err := c.Screenshot(ctx, device, path); err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("screenshot command succeeded but file not found at %s", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	c.log.Info("screenshot captured", "device", device, "path", abs)
	return abs, nil
}
