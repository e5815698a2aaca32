package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.Engine.SampleRate != 44100 {
		t.Errorf("Engine.SampleRate: got %d, want 44100", cfg.Engine.SampleRate)
	}
	if cfg.Engine.Channels != 2 {
		t.Errorf("Engine.Channels: got %d, want 2", cfg.Engine.Channels)
	}
	if cfg.Engine.MaxTracks != 10 {
		t.Errorf("Engine.MaxTracks: got %d, want 10", cfg.Engine.MaxTracks)
	}
	if cfg.Engine.DefaultDurationSeconds != 8 {
		t.Errorf("Engine.DefaultDurationSeconds: got %g, want 8", cfg.Engine.DefaultDurationSeconds)
	}
	if cfg.Engine.MixGain != 0.5 {
		t.Errorf("Engine.MixGain: got %g, want 0.5", cfg.Engine.MixGain)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level: got %q, want info", cfg.Log.Level)
	}
}

func TestSetDefaults_DoesNotOverride(t *testing.T) {
	cfg := &Config{
		Engine: EngineConfig{SampleRate: 48000, Channels: 1, MaxTracks: 4, DefaultDurationSeconds: 12, MixGain: 0.3},
		Log:    LogConfig{Level: "debug"},
	}
	setDefaults(cfg)

	if cfg.Engine.SampleRate != 48000 {
		t.Errorf("SampleRate should not be overridden: got %d", cfg.Engine.SampleRate)
	}
	if cfg.Engine.Channels != 1 {
		t.Errorf("Channels should not be overridden: got %d", cfg.Engine.Channels)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level should not be overridden: got %q", cfg.Log.Level)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample rate", func(c *Config) { c.Engine.SampleRate = -1 }},
		{"three channels", func(c *Config) { c.Engine.Channels = 3 }},
		{"zero max tracks", func(c *Config) { c.Engine.MaxTracks = -2 }},
		{"too long default duration", func(c *Config) { c.Engine.DefaultDurationSeconds = 90 }},
		{"mix gain above one", func(c *Config) { c.Engine.MixGain = 1.5 }},
		{"negative cache size", func(c *Config) { c.Cache.MaxSizeMB = -1 }},
	}

	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error, got nil", tc.name)
		}
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "choirsynth.yaml")
	content := []byte(`
engine:
  sample_rate: 44100
  channels: 1
  max_tracks: 6
log:
  level: debug
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Engine.Channels != 1 {
		t.Errorf("Channels: got %d, want 1", cfg.Engine.Channels)
	}
	if cfg.Engine.MaxTracks != 6 {
		t.Errorf("MaxTracks: got %d, want 6", cfg.Engine.MaxTracks)
	}
	// Unset fields get defaults.
	if cfg.Engine.MixGain != 0.5 {
		t.Errorf("MixGain default: got %g, want 0.5", cfg.Engine.MixGain)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "choirsynth.yaml")
	t.Setenv("CHOIRSYNTH_CACHE_DIR", dir)
	content := []byte("cache:\n  dir: ${CHOIRSYNTH_CACHE_DIR}\n  max_size_mb: 32\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Cache.Dir != dir {
		t.Errorf("Cache.Dir: got %q, want %q", cfg.Cache.Dir, dir)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/choirsynth.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
