package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Control.TickRate != 60 {
		t.Errorf("expected default tick rate 60, got %d", cfg.Control.TickRate)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
camera:
  index: 2
  mirror: true
control:
  tick_rate: 30
trigger:
  entry_debounce_ms: 1000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Camera.Index != 2 {
		t.Errorf("expected camera index 2, got %d", cfg.Camera.Index)
	}
	if !cfg.Camera.Mirror {
		t.Error("expected mirror enabled")
	}
	if cfg.Control.TickRate != 30 {
		t.Errorf("expected tick rate 30, got %d", cfg.Control.TickRate)
	}

	// Untouched sections keep their defaults.
	if cfg.Stability.WindowSize != 6 {
		t.Errorf("expected default window size 6, got %d", cfg.Stability.WindowSize)
	}

	tcfg := cfg.TriggerMachineConfig()
	if tcfg.EntryDebounce != time.Second {
		t.Errorf("expected 1s entry debounce, got %v", tcfg.EntryDebounce)
	}
	if tcfg.ClickHoldDelay != 300*time.Millisecond {
		t.Errorf("expected default click hold delay, got %v", tcfg.ClickHoldDelay)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "camera: [not: a: mapping")

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tick rate", func(c *Config) { c.Control.TickRate = 0 }},
		{"zero active fps", func(c *Config) { c.Camera.ActiveFPS = 0 }},
		{"padding too large", func(c *Config) { c.Control.PaddingX = 0.5 }},
		{"negative padding", func(c *Config) { c.Control.PaddingY = -0.1 }},
		{"quorum above window", func(c *Config) { c.Stability.Quorum = 7 }},
		{"zero window", func(c *Config) { c.Stability.WindowSize = 0 }},
		{"extension ratio at 1", func(c *Config) { c.Gestures.ExtensionRatio = 1.0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
control:
  tick_rate: -5
`)

	if _, err := Load(path); err == nil {
		t.Error("expected invalid config to be rejected")
	}
}

func TestConfig_ComponentConversions(t *testing.T) {
	cfg := Default()

	ecfg := cfg.ExecutorConfig()
	if ecfg.ClickCooldown != 500*time.Millisecond {
		t.Errorf("expected 500ms click cooldown, got %v", ecfg.ClickCooldown)
	}
	if ecfg.PaddingX != 0.15 {
		t.Errorf("expected padding 0.15, got %f", ecfg.PaddingX)
	}

	gcfg := cfg.ClassifierConfig()
	if gcfg.ExtensionRatio != 1.05 {
		t.Errorf("expected extension ratio 1.05, got %f", gcfg.ExtensionRatio)
	}

	scfg := cfg.StabilityBufferConfig()
	if scfg.Quorum != 4 {
		t.Errorf("expected quorum 4, got %d", scfg.Quorum)
	}
}
