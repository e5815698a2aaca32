package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level choirsynth configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Cache  CacheConfig  `yaml:"cache"`
	Log    LogConfig    `yaml:"log"`
}

// EngineConfig controls offline rendering.
type EngineConfig struct {
	SampleRate int `yaml:"sample_rate"`
	Channels   int `yaml:"channels"`

	// MaxTracks caps the number of enabled tracks in one song render.
	MaxTracks int `yaml:"max_tracks"`

	// DefaultDurationSeconds is used when a song request omits a duration.
	DefaultDurationSeconds float64 `yaml:"default_duration_seconds"`

	// MixGain scales each voiced segment before it is summed onto the
	// track bus.
	MixGain float64 `yaml:"mix_gain"`
}

// CacheConfig controls the rendered-asset cache.
type CacheConfig struct {
	// Dir holds cached WAV files and the sqlite index. Empty disables
	// caching entirely.
	Dir string `yaml:"dir"`

	// MaxSizeMB bounds the total size of cached WAV files. 0 disables
	// the cache.
	MaxSizeMB int64 `yaml:"max_size_mb"`
}

// LogConfig controls the global logger.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// Load reads a YAML config file. Values of the form ${VAR} are expanded
// from the environment before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	setDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a config with every field at its default value.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// setDefaults fills unset fields.
func setDefaults(cfg *Config) {
	if cfg.Engine.SampleRate == 0 {
		cfg.Engine.SampleRate = 44100
	}
	if cfg.Engine.Channels == 0 {
		cfg.Engine.Channels = 2
	}
	if cfg.Engine.MaxTracks == 0 {
		cfg.Engine.MaxTracks = 10
	}
	if cfg.Engine.DefaultDurationSeconds == 0 {
		cfg.Engine.DefaultDurationSeconds = 8
	}
	if cfg.Engine.MixGain == 0 {
		cfg.Engine.MixGain = 0.5
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if strings.HasPrefix(cfg.Cache.Dir, "~/") {
		// Go does not expand ~ on its own.
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.Cache.Dir = home + cfg.Cache.Dir[1:]
		}
	}
}

// Validate rejects configurations the engine cannot run with.
func (cfg *Config) Validate() error {
	if cfg.Engine.SampleRate <= 0 {
		return fmt.Errorf("engine.sample_rate must be positive, got %d", cfg.Engine.SampleRate)
	}
	if cfg.Engine.Channels != 1 && cfg.Engine.Channels != 2 {
		return fmt.Errorf("engine.channels must be 1 or 2, got %d", cfg.Engine.Channels)
	}
	if cfg.Engine.MaxTracks < 1 {
		return fmt.Errorf("engine.max_tracks must be at least 1, got %d", cfg.Engine.MaxTracks)
	}
	if cfg.Engine.DefaultDurationSeconds <= 0 || cfg.Engine.DefaultDurationSeconds > 60 {
		return fmt.Errorf("engine.default_duration_seconds must be in (0,60], got %g", cfg.Engine.DefaultDurationSeconds)
	}
	if cfg.Engine.MixGain <= 0 || cfg.Engine.MixGain > 1 {
		return fmt.Errorf("engine.mix_gain must be in (0,1], got %g", cfg.Engine.MixGain)
	}
	if cfg.Cache.MaxSizeMB < 0 {
		return fmt.Errorf("cache.max_size_mb must not be negative, got %d", cfg.Cache.MaxSizeMB)
	}
	return nil
}
