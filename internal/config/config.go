// Package config loads the mudra configuration file. All tuning
// constants are load-time; nothing here mutates at runtime.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/gesture"
)

// Config is the top-level YAML configuration.
//
// The file is the primary configuration surface; flags exist only for
// small overrides. Defaults and validation live here so the rest of
// the code can assume a well-formed config.
type Config struct {
	Camera    CameraConfig    `yaml:"camera"`
	Detector  DetectorConfig  `yaml:"detector"`
	Gestures  GesturesConfig  `yaml:"gestures"`
	Stability StabilityConfig `yaml:"stability"`
	Trigger   TriggerConfig   `yaml:"trigger"`
	Control   ControlConfig   `yaml:"control"`
	Server    ServerConfig    `yaml:"server"`
}

type CameraConfig struct {
	Index     int  `yaml:"index"`
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	ActiveFPS int  `yaml:"active_fps"`
	IdleFPS   int  `yaml:"idle_fps"`
	Mirror    bool `yaml:"mirror"`
	// MotionThreshold is the percent of changed pixels below which
	// the pipeline falls back to the idle frame rate.
	MotionThreshold float64 `yaml:"motion_threshold"`
	// IdleAfterMS is how long without motion before idling.
	IdleAfterMS int `yaml:"idle_after_ms"`
}

type DetectorConfig struct {
	MaxHands        int     `yaml:"max_hands"`
	MinConfidence   float64 `yaml:"min_confidence"`
	MinTrackingConf float64 `yaml:"min_tracking_confidence"`
}

type GesturesConfig struct {
	ExtensionRatio         float64 `yaml:"extension_ratio"`
	ThumbClearFactor       float64 `yaml:"thumb_clear_factor"`
	PinchFactor            float64 `yaml:"pinch_factor"`
	PinchFloor             float64 `yaml:"pinch_floor"`
	PairTogetherFactor     float64 `yaml:"pair_together_factor"`
	DoubleClickGuardFactor float64 `yaml:"double_click_guard_factor"`
}

type StabilityConfig struct {
	WindowSize        int     `yaml:"window_size"`
	Quorum            int     `yaml:"quorum"`
	VelocityLockSpeed float64 `yaml:"velocity_lock_speed"`
}

type TriggerConfig struct {
	EntryDebounceMS        int     `yaml:"entry_debounce_ms"`
	ClickHoldDelayMS       int     `yaml:"click_hold_delay_ms"`
	DoubleClickHoldDelayMS int     `yaml:"double_click_hold_delay_ms"`
	MovementGraceMS        int     `yaml:"movement_grace_ms"`
	ScrollGraceMS          int     `yaml:"scroll_grace_ms"`
	ScrollMultiplier       float64 `yaml:"scroll_multiplier"`
}

type ControlConfig struct {
	Enabled          bool    `yaml:"enabled"`
	TickRate         int     `yaml:"tick_rate"`
	PaddingX         float64 `yaml:"padding_x"`
	PaddingY         float64 `yaml:"padding_y"`
	CursorMinCutoff  float64 `yaml:"cursor_min_cutoff"`
	CursorBeta       float64 `yaml:"cursor_beta"`
	ScrollMinCutoff  float64 `yaml:"scroll_min_cutoff"`
	ScrollBeta       float64 `yaml:"scroll_beta"`
	DerivativeCutoff float64 `yaml:"derivative_cutoff"`
	ClickCooldownMS  int     `yaml:"click_cooldown_ms"`
	ScrollCooldownMS int     `yaml:"scroll_cooldown_ms"`
	ScrollStep       int     `yaml:"scroll_step"`
	ScrollDeadZone   float64 `yaml:"scroll_dead_zone"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// Default returns a fully-populated Config with production defaults.
func Default() Config {
	gcfg := gesture.DefaultClassifierConfig()
	scfg := gesture.DefaultStabilityConfig()
	tcfg := control.DefaultTriggerConfig()
	ecfg := control.DefaultExecutorConfig()

	return Config{
		Camera: CameraConfig{
			Index:           0,
			Width:           1280,
			Height:          720,
			ActiveFPS:       30,
			IdleFPS:         5,
			Mirror:          false,
			MotionThreshold: 1.0,
			IdleAfterMS:     2000,
		},
		Detector: DetectorConfig{
			MaxHands:        2,
			MinConfidence:   0.5,
			MinTrackingConf: 0.5,
		},
		Gestures: GesturesConfig{
			ExtensionRatio:         gcfg.ExtensionRatio,
			ThumbClearFactor:       gcfg.ThumbClearFactor,
			PinchFactor:            gcfg.PinchFactor,
			PinchFloor:             gcfg.PinchFloor,
			PairTogetherFactor:     gcfg.PairTogetherFactor,
			DoubleClickGuardFactor: gcfg.DoubleClickGuardFactor,
		},
		Stability: StabilityConfig{
			WindowSize:        scfg.WindowSize,
			Quorum:            scfg.Quorum,
			VelocityLockSpeed: scfg.VelocityLockSpeed,
		},
		Trigger: TriggerConfig{
			EntryDebounceMS:        int(tcfg.EntryDebounce / time.Millisecond),
			ClickHoldDelayMS:       int(tcfg.ClickHoldDelay / time.Millisecond),
			DoubleClickHoldDelayMS: int(tcfg.DoubleClickHoldDelay / time.Millisecond),
			MovementGraceMS:        int(tcfg.MovementGrace / time.Millisecond),
			ScrollGraceMS:          int(tcfg.ScrollGrace / time.Millisecond),
			ScrollMultiplier:       tcfg.ScrollMultiplier,
		},
		Control: ControlConfig{
			Enabled:          true,
			TickRate:         60,
			PaddingX:         ecfg.PaddingX,
			PaddingY:         ecfg.PaddingY,
			CursorMinCutoff:  ecfg.CursorMinCutoff,
			CursorBeta:       ecfg.CursorBeta,
			ScrollMinCutoff:  ecfg.ScrollMinCutoff,
			ScrollBeta:       ecfg.ScrollBeta,
			DerivativeCutoff: ecfg.DerivativeCutoff,
			ClickCooldownMS:  int(ecfg.ClickCooldown / time.Millisecond),
			ScrollCooldownMS: int(ecfg.ScrollCooldown / time.Millisecond),
			ScrollStep:       ecfg.ScrollStep,
			ScrollDeadZone:   ecfg.ScrollDeadZone,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error;
// defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Camera.ActiveFPS <= 0 || c.Camera.IdleFPS <= 0 {
		return fmt.Errorf("camera fps must be positive")
	}
	if c.Control.TickRate <= 0 {
		return fmt.Errorf("control tick_rate must be positive")
	}
	if c.Control.PaddingX < 0 || c.Control.PaddingX >= 0.5 ||
		c.Control.PaddingY < 0 || c.Control.PaddingY >= 0.5 {
		return fmt.Errorf("padding fractions must be in [0, 0.5)")
	}
	if c.Stability.WindowSize <= 0 {
		return fmt.Errorf("stability window_size must be positive")
	}
	if c.Stability.Quorum <= 0 || c.Stability.Quorum > c.Stability.WindowSize {
		return fmt.Errorf("stability quorum must be in [1, window_size]")
	}
	if c.Gestures.ExtensionRatio <= 1.0 {
		return fmt.Errorf("gestures extension_ratio must exceed 1.0")
	}
	return nil
}

// ClassifierConfig converts to the gesture package's config type.
func (c *Config) ClassifierConfig() gesture.ClassifierConfig {
	return gesture.ClassifierConfig{
		ExtensionRatio:         c.Gestures.ExtensionRatio,
		ThumbClearFactor:       c.Gestures.ThumbClearFactor,
		PinchFactor:            c.Gestures.PinchFactor,
		PinchFloor:             c.Gestures.PinchFloor,
		PairTogetherFactor:     c.Gestures.PairTogetherFactor,
		DoubleClickGuardFactor: c.Gestures.DoubleClickGuardFactor,
	}
}

// StabilityBufferConfig converts to the gesture package's config type.
func (c *Config) StabilityBufferConfig() gesture.StabilityConfig {
	return gesture.StabilityConfig{
		WindowSize:        c.Stability.WindowSize,
		Quorum:            c.Stability.Quorum,
		VelocityLockSpeed: c.Stability.VelocityLockSpeed,
	}
}

// TriggerMachineConfig converts to the control package's config type.
func (c *Config) TriggerMachineConfig() control.TriggerConfig {
	return control.TriggerConfig{
		EntryDebounce:        time.Duration(c.Trigger.EntryDebounceMS) * time.Millisecond,
		ClickHoldDelay:       time.Duration(c.Trigger.ClickHoldDelayMS) * time.Millisecond,
		DoubleClickHoldDelay: time.Duration(c.Trigger.DoubleClickHoldDelayMS) * time.Millisecond,
		MovementGrace:        time.Duration(c.Trigger.MovementGraceMS) * time.Millisecond,
		ScrollGrace:          time.Duration(c.Trigger.ScrollGraceMS) * time.Millisecond,
		ScrollMultiplier:     c.Trigger.ScrollMultiplier,
	}
}

// ExecutorConfig converts to the control package's config type.
func (c *Config) ExecutorConfig() control.ExecutorConfig {
	return control.ExecutorConfig{
		PaddingX:         c.Control.PaddingX,
		PaddingY:         c.Control.PaddingY,
		CursorMinCutoff:  c.Control.CursorMinCutoff,
		CursorBeta:       c.Control.CursorBeta,
		ScrollMinCutoff:  c.Control.ScrollMinCutoff,
		ScrollBeta:       c.Control.ScrollBeta,
		DerivativeCutoff: c.Control.DerivativeCutoff,
		ClickCooldown:    time.Duration(c.Control.ClickCooldownMS) * time.Millisecond,
		ScrollCooldown:   time.Duration(c.Control.ScrollCooldownMS) * time.Millisecond,
		ScrollStep:       c.Control.ScrollStep,
		ScrollDeadZone:   c.Control.ScrollDeadZone,
	}
}
