// Package config loads arrownav settings from YAML files and the environment.
package config

import (
	stderrors "errors"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/odvcencio/arrownav/pkg/errors"
	"github.com/odvcencio/arrownav/pkg/logging"
	"github.com/odvcencio/arrownav/pkg/nav"
)

// Config represents the arrownav configuration.
type Config struct {
	Navigation NavigationConfig `yaml:"navigation"`
	Scroll     ScrollConfig     `yaml:"scroll"`
	Input      InputConfig      `yaml:"input"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Demo       DemoConfig       `yaml:"demo"`
}

// NavigationConfig configures the focus controller.
type NavigationConfig struct {
	// Keys maps direction names to key names, e.g. {"up": ["Up", "k"]}.
	// Empty means the arrow keys.
	Keys                 map[string][]string `yaml:"keys"`
	InitialFocus         string              `yaml:"initial_focus"`
	LegacyCornerPolicies bool                `yaml:"legacy_corner_policies"`
}

// ScrollConfig configures auto-scrolling.
type ScrollConfig struct {
	BandLow     float64 `yaml:"band_low"`
	BandHigh    float64 `yaml:"band_high"`
	SmoothSteps int     `yaml:"smooth_steps"`
}

// InputConfig configures key handling.
type InputConfig struct {
	// MaxMovesPerSecond throttles held arrow keys; 0 disables throttling.
	MaxMovesPerSecond float64 `yaml:"max_moves_per_second"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// TelemetryConfig configures metrics and tracing. Empty values disable them.
type TelemetryConfig struct {
	MetricsAddr string `yaml:"metrics_addr"`
	TraceFile   string `yaml:"trace_file"`
}

// DemoConfig shapes the demo screen.
type DemoConfig struct {
	Rows        int                `yaml:"rows"`
	TilesPerRow int                `yaml:"tiles_per_row"`
	SideItems   int                `yaml:"side_items"`
	RowPolicy   nav.EnteringPolicy `yaml:"row_policy"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Scroll: ScrollConfig{
			BandLow:     nav.DefaultBandLow,
			BandHigh:    nav.DefaultBandHigh,
			SmoothSteps: 6,
		},
		Input: InputConfig{
			MaxMovesPerSecond: 30,
		},
		Logging: LoggingConfig{
			Level: string(logging.LevelInfo),
		},
		Demo: DemoConfig{
			Rows:        4,
			TilesPerRow: 12,
			SideItems:   3,
			RowPolicy:   nav.PolicyLast,
		},
	}
}

// UserPath returns ~/.arrownav/config.yaml, or "" without a home directory.
func UserPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".arrownav", "config.yaml")
}

// ProjectPath is the per-directory config file.
var ProjectPath = filepath.Join(".", ".arrownav", "config.yaml")

// Load loads the user config, then the project config, then environment
// overrides. Missing files are skipped.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range []string{UserPath(), ProjectPath} {
		if path == "" {
			continue
		}
		if err := loadAndMerge(cfg, path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads defaults, the file at path, then environment overrides.
// The file must exist.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadAndMerge(cfg, path); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ARROWNAV_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ARROWNAV_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("ARROWNAV_METRICS_ADDR"); v != "" {
		cfg.Telemetry.MetricsAddr = v
	}
	if v := os.Getenv("ARROWNAV_TRACE_FILE"); v != "" {
		cfg.Telemetry.TraceFile = v
	}
	if v := os.Getenv("ARROWNAV_INITIAL_FOCUS"); v != "" {
		cfg.Navigation.InitialFocus = v
	}
	if v, ok := envBool("ARROWNAV_LEGACY_CORNERS"); ok {
		cfg.Navigation.LegacyCornerPolicies = v
	}
	if v := strings.TrimSpace(os.Getenv("ARROWNAV_MAX_MOVES_PER_SECOND")); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Input.MaxMovesPerSecond = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("ARROWNAV_SMOOTH_STEPS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Scroll.SmoothSteps = parsed
		}
	}
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	invalid := func(msg, key string, value any) *errors.Error {
		return errors.New(errors.ErrCodeConfigInvalid, msg).WithContext("key", key).WithContext("value", value)
	}

	if _, err := c.KeyMap(); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid key bindings").
			WithContext("key", "navigation.keys").
			WithRemediation("use direction names up, down, left, right and key names such as Up, PageDown or a single character like k")
	}
	if c.Scroll.BandLow < 0 || c.Scroll.BandHigh > 1 || c.Scroll.BandLow >= c.Scroll.BandHigh {
		return invalid("scroll band must satisfy 0 <= band_low < band_high <= 1", "scroll.band_low", c.Scroll.BandLow).
			WithContext("band_high", c.Scroll.BandHigh)
	}
	if c.Scroll.SmoothSteps < 0 {
		return invalid("smooth_steps must not be negative", "scroll.smooth_steps", c.Scroll.SmoothSteps)
	}
	if c.Input.MaxMovesPerSecond < 0 {
		return invalid("max_moves_per_second must not be negative", "input.max_moves_per_second", c.Input.MaxMovesPerSecond)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid log level").
			WithContext("key", "logging.level").
			WithRemediation("use debug, info, warn or error")
	}
	if c.Demo.Rows < 1 {
		return invalid("demo needs at least one row", "demo.rows", c.Demo.Rows)
	}
	if c.Demo.TilesPerRow < 1 {
		return invalid("demo rows need at least one tile", "demo.tiles_per_row", c.Demo.TilesPerRow)
	}
	if c.Demo.SideItems < 0 {
		return invalid("side_items must not be negative", "demo.side_items", c.Demo.SideItems)
	}
	return nil
}

// ValidationWarnings returns non-fatal concerns about the configuration.
func (c *Config) ValidationWarnings() []string {
	var warnings []string
	if addr := strings.TrimSpace(c.Telemetry.MetricsAddr); addr != "" && !isLoopbackBindAddress(addr) {
		warnings = append(warnings, "telemetry.metrics_addr "+addr+" is reachable from other hosts")
	}
	if c.Input.MaxMovesPerSecond == 0 {
		warnings = append(warnings, "input.max_moves_per_second is 0; held keys are not throttled")
	}
	return warnings
}

// KeyMap returns the configured key bindings, or the arrow keys when none are set.
func (c *Config) KeyMap() (nav.KeyMap, error) {
	if len(c.Navigation.Keys) == 0 {
		return nav.DefaultKeyMap(), nil
	}
	return nav.ParseKeyMap(c.Navigation.Keys)
}

// EnteringOptions returns the entering policy options.
func (c *Config) EnteringOptions() nav.EnteringOptions {
	return nav.EnteringOptions{LegacyCorners: c.Navigation.LegacyCornerPolicies}
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() logging.Level {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return logging.LevelInfo
	}
	return level
}

func isLoopbackBindAddress(addr string) bool {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return false
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return false
	}
	switch strings.ToLower(host) {
	case "localhost":
		return true
	case "0.0.0.0", "::":
		return false
	default:
		ip := net.ParseIP(host)
		if ip == nil {
			return false
		}
		return ip.IsLoopback()
	}
}
