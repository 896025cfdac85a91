// Package config carries the server's default device, directories, and
// timeout policy. Values come from built-in defaults, then an optional YAML
// file, then IOS_PREVIEW_* environment variables. Tool parameters supplied
// per call always win over anything here; nothing in this package persists
// state between invocations.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/noahzs/ios-preview-mcp/internal/simctl"
)

// Duration is a time.Duration that unmarshals from YAML strings like "180s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Log configures the global slog handler.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the full server configuration.
type Config struct {
	// Device is the simulator targeted when a call omits one.
	Device string `yaml:"device"`
	// SnapshotsDir is the snapshot directory assumed when a call omits one.
	SnapshotsDir string `yaml:"snapshots_dir"`
	// ScratchDir receives quick screenshots.
	ScratchDir string `yaml:"scratch_dir"`

	BuildTimeout  Duration `yaml:"build_timeout"`
	BootTimeout   Duration `yaml:"boot_timeout"`
	QueryTimeout  Duration `yaml:"query_timeout"`
	SearchTimeout Duration `yaml:"search_timeout"`
	SettleDelay   Duration `yaml:"settle_delay"`

	Log Log `yaml:"log"`
}

// Default returns the built-in policy: the values the original toolchain
// wrappers hard-code.
func Default() Config {
	return Config{
		Device:        simctl.DefaultDevice,
		SnapshotsDir:  "./__Snapshots__",
		ScratchDir:    "/tmp/ios_screenshots",
		BuildTimeout:  Duration(180 * time.Second),
		BootTimeout:   Duration(30 * time.Second),
		QueryTimeout:  Duration(10 * time.Second),
		SearchTimeout: Duration(10 * time.Second),
		SettleDelay:   Duration(2 * time.Second),
		Log:           Log{Level: "info", Format: "text"},
	}
}

// Load builds a Config from defaults, the optional YAML file at path
// (empty path skips the file), and finally the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config yaml: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("IOS_PREVIEW_DEVICE", &c.Device)
	setString("IOS_PREVIEW_SNAPSHOTS_DIR", &c.SnapshotsDir)
	setString("IOS_PREVIEW_SCRATCH_DIR", &c.ScratchDir)
	setString("IOS_PREVIEW_LOG_LEVEL", &c.Log.Level)
	setString("IOS_PREVIEW_LOG_FORMAT", &c.Log.Format)

	if v := os.Getenv("IOS_PREVIEW_BUILD_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.BuildTimeout = Duration(parsed)
		}
	}
}
