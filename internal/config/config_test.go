package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Backend != BackendExec {
		t.Fatalf("default backend = %q, want %q", cfg.Backend, BackendExec)
	}
	if cfg.Animation.Steps != 25 {
		t.Fatalf("default steps = %d, want 25", cfg.Animation.Steps)
	}
	if cfg.FallbackResolution != (Resolution{Width: 1920, Height: 1080}) {
		t.Fatalf("default fallback = %+v", cfg.FallbackResolution)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendExec || len(cfg.Hotkeys) != len(DefaultHotkeys()) {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "warning" {
		t.Fatalf("log_level = %q, want warning", cfg.LogLevel)
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"backend: x11",
		"cache_dir: /tmp/winjitsu-test",
		"fallback_resolution:",
		"  width: 2560",
		"animation:",
		"  steps: 10",
		"  frame_delay: 8ms",
		"log_level: debug",
		"cache_prune_interval: 1h",
		"palette: rofi",
		"hotkeys:",
		"  F: Mod4-Return",
		"  CC: Mod4-Shift-BackSpace",
		"",
	}, "\n"))

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendX11 {
		t.Fatalf("backend = %q", cfg.Backend)
	}
	if cfg.CacheDir != "/tmp/winjitsu-test" {
		t.Fatalf("cache_dir = %q", cfg.CacheDir)
	}
	if cfg.FallbackResolution != (Resolution{Width: 2560, Height: 1080}) {
		t.Fatalf("fallback = %+v", cfg.FallbackResolution)
	}
	if cfg.Animation.Steps != 10 || cfg.Animation.FrameDelay != 8*time.Millisecond {
		t.Fatalf("animation = %+v", cfg.Animation)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("SlogLevel() = %v", cfg.SlogLevel())
	}
	if cfg.Palette != "rofi" {
		t.Fatalf("palette = %q", cfg.Palette)
	}
	if cfg.CachePruneInterval != time.Hour {
		t.Fatalf("cache_prune_interval = %v", cfg.CachePruneInterval)
	}
	if len(cfg.Hotkeys) != 2 || cfg.Hotkeys["F"] != "Mod4-Return" {
		t.Fatalf("hotkeys should replace defaults, got %v", cfg.Hotkeys)
	}
}

func TestLoadFromPath_RejectsUnknownKeys(t *testing.T) {
	if _, err := LoadFromPath(writeConfig(t, "gap_size: 4\n")); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadFromPath_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		path string
	}{
		{"backend", "backend: wayland\n", "backend"},
		{"steps", "animation:\n  steps: 0\n", "animation.steps"},
		{"delay", "animation:\n  frame_delay: -1s\n", "animation.frame_delay"},
		{"fallback", "fallback_resolution:\n  height: 0\n", "fallback_resolution"},
		{"log level", "log_level: loud\n", "log_level"},
		{"palette", "palette: zenity\n", "palette"},
		{"prune interval", "cache_prune_interval: -5m\n", "cache_prune_interval"},
		{"unknown action", "hotkeys:\n  UP: Mod4-Up\n", "hotkeys.UP"},
		{"empty keys", "hotkeys:\n  N: \"  \"\n", "hotkeys.N"},
		{"duplicate keys", "hotkeys:\n  N: Mod4-Up\n  S: Mod4-Up\n", "hotkeys.S"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromPath(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("Path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestResolveCacheDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	cfg := DefaultConfig()
	got, err := cfg.ResolveCacheDir()
	if err != nil {
		t.Fatalf("ResolveCacheDir: %v", err)
	}
	if want := filepath.Join(xdg, "winjitsu"); got != want {
		t.Fatalf("ResolveCacheDir() = %q, want %q", got, want)
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg.CacheDir = "~/geometry"
	got, err = cfg.ResolveCacheDir()
	if err != nil {
		t.Fatalf("ResolveCacheDir: %v", err)
	}
	if want := filepath.Join(home, "geometry"); got != want {
		t.Fatalf("ResolveCacheDir() = %q, want %q", got, want)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", td)

	got, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	if want := filepath.Join(td, "winjitsu", "config.yaml"); got != want {
		t.Fatalf("DefaultConfigPath() = %q, want %q", got, want)
	}
}

func TestMarshal_RoundTrips(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Animation.FrameDelay = 5 * time.Millisecond

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	loaded, err := LoadFromPath(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("reload: %v\n%s", err, data)
	}
	if loaded.Animation != cfg.Animation || loaded.Backend != cfg.Backend {
		t.Fatalf("reloaded %+v, want %+v", loaded, cfg)
	}
}
