package config

import (
	"fmt"
)

// Validate enforces the control core's configuration rules.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := validateControl(cfg); err != nil {
		return fmt.Errorf("control validation failed: %w", err)
	}
	if err := validateSensing(cfg); err != nil {
		return fmt.Errorf("sensing validation failed: %w", err)
	}
	if err := validateTelemetry(cfg); err != nil {
		return fmt.Errorf("telemetry validation failed: %w", err)
	}
	if err := validateChannels(cfg); err != nil {
		return fmt.Errorf("channel validation failed: %w", err)
	}
	return nil
}

// validateControl validates control-loop timing and limits.
func validateControl(cfg *Config) error {
	if cfg.ControlPeriod <= 0 {
		return fmt.Errorf("control period must be positive, got %v", cfg.ControlPeriod)
	}
	// The staleness check runs once per tick; a timeout shorter than
	// one period could never be observed as fresh.
	if cfg.IntentStaleTimeout < cfg.ControlPeriod {
		return fmt.Errorf("intent stale timeout %v must be >= control period %v",
			cfg.IntentStaleTimeout, cfg.ControlPeriod)
	}
	if cfg.IntentMinInterval < 0 {
		return fmt.Errorf("intent min interval must be non-negative, got %v", cfg.IntentMinInterval)
	}
	if cfg.SlewPerTick <= 0 || cfg.SlewPerTick > 2 {
		return fmt.Errorf("slew per tick must be in (0, 2], got %v", cfg.SlewPerTick)
	}
	if cfg.ChannelCeiling <= 0 || cfg.ChannelCeiling > 1 {
		return fmt.Errorf("channel ceiling must be in (0, 1], got %v", cfg.ChannelCeiling)
	}
	return nil
}

// validateSensing validates sampler timing and thresholds.
func validateSensing(cfg *Config) error {
	if cfg.SamplePeriod <= 0 {
		return fmt.Errorf("sample period must be positive, got %v", cfg.SamplePeriod)
	}
	if cfg.DegradedThreshold <= 0 {
		return fmt.Errorf("degraded threshold must be positive, got %d", cfg.DegradedThreshold)
	}
	if cfg.ObstacleThresholdCm <= 0 {
		return fmt.Errorf("obstacle threshold must be positive, got %v", cfg.ObstacleThresholdCm)
	}
	return nil
}

// validateTelemetry validates logger and status hub bounds.
func validateTelemetry(cfg *Config) error {
	if cfg.LogPath == "" {
		return fmt.Errorf("log path must be set")
	}
	if cfg.LogBacklogCap <= 0 {
		return fmt.Errorf("log backlog cap must be positive, got %d", cfg.LogBacklogCap)
	}
	if cfg.StatusBuffer <= 0 {
		return fmt.Errorf("status buffer must be positive, got %d", cfg.StatusBuffer)
	}
	return nil
}

// validateChannels validates pin assignment and calibration per channel.
func validateChannels(cfg *Config) error {
	seen := make(map[int]int)
	for i, ch := range cfg.Channels {
		if ch.Pin <= 0 {
			return fmt.Errorf("channel %d: pin must be positive, got %d", i, ch.Pin)
		}
		if prev, dup := seen[ch.Pin]; dup {
			return fmt.Errorf("channel %d: pin %d already assigned to channel %d", i, ch.Pin, prev)
		}
		seen[ch.Pin] = i
		if err := ch.Cal.Validate(); err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
	}
	return nil
}
