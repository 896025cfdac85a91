package simctl

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/noahzs/ios-preview-mcp/internal/proc"
)

// Device is one simulator line from `simctl list devices available`.
type Device struct {
	Name  string
	UDID  string
	State string

	// Raw is the trimmed source line, kept for display.
	Raw string
}

// e.g. "iPhone 15 Pro (8EA4F067-77E6-4B55-B74F-8B4B2F2C9A01) (Shutdown)"
var deviceLineRE = regexp.MustCompile(`^(.+?) \(([0-9A-Fa-f-]{36})\) \((\w+)\)`)

// List returns available iPhone and iPad simulators. Runtime headers and
// non-iOS devices (watches, TVs) are filtered out.
func (c *Client) List(ctx context.Context) ([]Device, error) {
	out, err := c.runner.Run(ctx, proc.Command{
		Name:    "xcrun",
		Args:    []string{"simctl", "list", "devices", "available"},
		Timeout: c.QueryTimeout,
	})
	if err != nil {
		return nil, err
	}
	if out.TimedOut {
		return nil, fmt.Errorf("simctl list timed out")
	}
	if out.ExitCode != 0 {
		return nil, fmt.Errorf("failed to list simulators: %s", strings.TrimSpace(out.Stderr))
	}
	return parseDeviceLines(out.Stdout), nil
}

func parseDeviceLines(stdout string) []Device {
	var devices []Device
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "iPhone") && !strings.Contains(line, "iPad") {
			continue
		}
		d := Device{Raw: line}
		if m := deviceLineRE.FindStringSubmatch(line); m != nil {
			d.Name, d.UDID, d.State = m[1], m[2], m[3]
		} else {
			d.Name = line
		}
		devices = append(devices, d)
	}
	return devices
}
