package config

import "time"

// RawConfig mirrors Config with pointer fields so an omitted key can be told
// apart from a zero value.
type RawConfig struct {
	Backend            *string            `yaml:"backend"`
	CacheDir           *string            `yaml:"cache_dir"`
	FallbackResolution *RawResolution     `yaml:"fallback_resolution"`
	Animation          *RawAnimation      `yaml:"animation"`
	LogLevel           *string            `yaml:"log_level"`
	Palette            *string            `yaml:"palette"`
	Hotkeys            *map[string]string `yaml:"hotkeys"`
	CachePruneInterval *time.Duration     `yaml:"cache_prune_interval"`
}

type RawResolution struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawAnimation struct {
	Steps      *int           `yaml:"steps"`
	FrameDelay *time.Duration `yaml:"frame_delay"`
}

// BuildEffectiveConfig applies raw on top of the defaults. A hotkeys map,
// when present, replaces the default bindings entirely.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Backend != nil {
		cfg.Backend = *raw.Backend
	}
	if raw.CacheDir != nil {
		cfg.CacheDir = *raw.CacheDir
	}
	if raw.FallbackResolution != nil {
		if raw.FallbackResolution.Width != nil {
			cfg.FallbackResolution.Width = *raw.FallbackResolution.Width
		}
		if raw.FallbackResolution.Height != nil {
			cfg.FallbackResolution.Height = *raw.FallbackResolution.Height
		}
	}
	if raw.Animation != nil {
		if raw.Animation.Steps != nil {
			cfg.Animation.Steps = *raw.Animation.Steps
		}
		if raw.Animation.FrameDelay != nil {
			cfg.Animation.FrameDelay = *raw.Animation.FrameDelay
		}
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Palette != nil {
		cfg.Palette = *raw.Palette
	}
	if raw.Hotkeys != nil {
		cfg.Hotkeys = make(map[string]string, len(*raw.Hotkeys))
		for token, keys := range *raw.Hotkeys {
			cfg.Hotkeys[token] = keys
		}
	}
	if raw.CachePruneInterval != nil {
		cfg.CachePruneInterval = *raw.CachePruneInterval
	}

	return cfg
}
