package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/winjitsu/internal/action"
	"github.com/1broseidon/winjitsu/internal/palette"
)

// Backend names.
const (
	BackendExec = "exec" // xdotool + xrandr subprocesses
	BackendX11  = "x11"  // direct X11 connection
)

// Resolution is a width/height pair in pixels.
type Resolution struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Animation tunes the stepped move.
type Animation struct {
	Steps      int           `yaml:"steps"`
	FrameDelay time.Duration `yaml:"frame_delay"`
}

// Config holds the application configuration.
type Config struct {
	Backend            string            `yaml:"backend"`
	CacheDir           string            `yaml:"cache_dir,omitempty"`
	FallbackResolution Resolution        `yaml:"fallback_resolution"`
	Animation          Animation         `yaml:"animation"`
	LogLevel           string            `yaml:"log_level"`
	Palette            string            `yaml:"palette"`
	Hotkeys            map[string]string `yaml:"hotkeys"`
	// CachePruneInterval is how often the daemon drops records of closed
	// windows. Zero disables pruning.
	CachePruneInterval time.Duration `yaml:"cache_prune_interval"`
}

// DefaultHotkeys binds the most common actions to Super+Alt chords.
func DefaultHotkeys() map[string]string {
	return map[string]string{
		"N":  "Mod4-Mod1-Up",
		"S":  "Mod4-Mod1-Down",
		"E":  "Mod4-Mod1-Right",
		"W":  "Mod4-Mod1-Left",
		"NW": "Mod4-Mod1-u",
		"NE": "Mod4-Mod1-i",
		"SW": "Mod4-Mod1-j",
		"SE": "Mod4-Mod1-k",
		"C":  "Mod4-Mod1-c",
		"TF": "Mod4-Mod1-f",
		"TD": "Mod4-Mod1-d",
	}
}

func DefaultConfig() *Config {
	return &Config{
		Backend:            BackendExec,
		FallbackResolution: Resolution{Width: 1920, Height: 1080},
		Animation: Animation{
			Steps:      25,
			FrameDelay: 0,
		},
		LogLevel:           "warning",
		Palette:            "auto",
		Hotkeys:            DefaultHotkeys(),
		CachePruneInterval: 10 * time.Minute,
	}
}

type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendExec, BackendX11:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: %s, %s", BackendExec, BackendX11)}
	}
	if c.FallbackResolution.Width <= 0 || c.FallbackResolution.Height <= 0 {
		return &ValidationError{Path: "fallback_resolution", Err: fmt.Errorf("width and height must be > 0")}
	}
	if c.Animation.Steps < 1 {
		return &ValidationError{Path: "animation.steps", Err: fmt.Errorf("steps must be >= 1")}
	}
	if c.Animation.FrameDelay < 0 {
		return &ValidationError{Path: "animation.frame_delay", Err: fmt.Errorf("frame_delay must be >= 0")}
	}
	if c.Palette != "auto" && !palette.IsLauncher(c.Palette) {
		return &ValidationError{Path: "palette", Err: fmt.Errorf("palette must be auto or one of: %s", strings.Join(palette.Launchers, ", "))}
	}
	if c.CachePruneInterval < 0 {
		return &ValidationError{Path: "cache_prune_interval", Err: fmt.Errorf("cache_prune_interval must be >= 0")}
	}
	if _, ok := parseLogLevel(c.LogLevel); !ok {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	seen := make(map[string]string, len(c.Hotkeys))
	for _, token := range sortedKeys(c.Hotkeys) {
		if _, err := action.Parse(token); err != nil {
			return &ValidationError{Path: "hotkeys." + token, Err: err}
		}
		keys := strings.TrimSpace(c.Hotkeys[token])
		if keys == "" {
			return &ValidationError{Path: "hotkeys." + token, Err: fmt.Errorf("key sequence must not be empty")}
		}
		if other, dup := seen[keys]; dup {
			return &ValidationError{Path: "hotkeys." + token, Err: fmt.Errorf("%q is already bound to %s", keys, other)}
		}
		seen[keys] = token
	}
	return nil
}

// SlogLevel returns the configured level for log/slog.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLogLevel(c.LogLevel)
	return level
}

func parseLogLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warning", "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
