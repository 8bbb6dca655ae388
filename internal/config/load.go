package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file consulted when ROV_CONFIG is unset.
const DefaultFile = "rovcore.yaml"

// Load merges Baseline() + ROV_* environment overrides + an optional
// YAML file, then validates the result.
func Load() (*Config, error) {
	cfg := Baseline()

	applyEnvOverrides(cfg)

	path := os.Getenv("ROV_CONFIG")
	if path == "" {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := applyFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies ROV_* environment variables to the config.
func applyEnvOverrides(cfg *Config) {
	cfg.ControlPeriod = envDuration("ROV_CONTROL_PERIOD", cfg.ControlPeriod)
	cfg.IntentStaleTimeout = envDuration("ROV_INTENT_STALE_TIMEOUT", cfg.IntentStaleTimeout)
	cfg.IntentMinInterval = envDuration("ROV_INTENT_MIN_INTERVAL", cfg.IntentMinInterval)
	cfg.SlewPerTick = envFloat("ROV_SLEW_PER_TICK", cfg.SlewPerTick)
	cfg.ChannelCeiling = envFloat("ROV_CHANNEL_CEILING", cfg.ChannelCeiling)

	cfg.SamplePeriod = envDuration("ROV_SAMPLE_PERIOD", cfg.SamplePeriod)
	cfg.DegradedThreshold = envInt("ROV_DEGRADED_THRESHOLD", cfg.DegradedThreshold)
	cfg.ObstacleThresholdCm = envFloat("ROV_OBSTACLE_THRESHOLD_CM", cfg.ObstacleThresholdCm)
	cfg.RangeTriggerPin = envInt("ROV_RANGE_TRIGGER_PIN", cfg.RangeTriggerPin)
	cfg.RangeEchoPin = envInt("ROV_RANGE_ECHO_PIN", cfg.RangeEchoPin)

	cfg.LogPath = envString("ROV_LOG_PATH", cfg.LogPath)
	cfg.LogBacklogCap = envInt("ROV_LOG_BACKLOG_CAP", cfg.LogBacklogCap)
	cfg.StatusBuffer = envInt("ROV_STATUS_BUFFER", cfg.StatusBuffer)
	cfg.AuditDir = envString("ROV_AUDIT_DIR", cfg.AuditDir)
}

// fileConfig is the YAML schema. Durations are given in milliseconds;
// zero values leave the corresponding setting untouched.
type fileConfig struct {
	ControlPeriodMs      int     `yaml:"control_period_ms"`
	IntentStaleTimeoutMs int     `yaml:"intent_stale_timeout_ms"`
	IntentMinIntervalMs  int     `yaml:"intent_min_interval_ms"`
	SlewPerTick          float64 `yaml:"slew_per_tick"`
	ChannelCeiling       float64 `yaml:"channel_ceiling"`

	SamplePeriodMs      int     `yaml:"sample_period_ms"`
	DegradedThreshold   int     `yaml:"degraded_threshold"`
	ObstacleThresholdCm float64 `yaml:"obstacle_threshold_cm"`
	RangeTriggerPin     int     `yaml:"range_trigger_pin"`
	RangeEchoPin        int     `yaml:"range_echo_pin"`

	LogPath       string `yaml:"log_path"`
	LogBacklogCap int    `yaml:"log_backlog_cap"`
	StatusBuffer  int    `yaml:"status_buffer"`
	AuditDir      string `yaml:"audit_dir"`

	Channels []channelFile `yaml:"channels"`
}

type channelFile struct {
	Pin       int     `yaml:"pin"`
	NeutralUs float64 `yaml:"neutral_us"`
	MinUs     float64 `yaml:"min_us"`
	MaxUs     float64 `yaml:"max_us"`
	Inverted  bool    `yaml:"inverted"`
}

// applyFile merges a YAML file into the config. File values take
// precedence over baseline and environment.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	if fc.ControlPeriodMs != 0 {
		cfg.ControlPeriod = time.Duration(fc.ControlPeriodMs) * time.Millisecond
	}
	if fc.IntentStaleTimeoutMs != 0 {
		cfg.IntentStaleTimeout = time.Duration(fc.IntentStaleTimeoutMs) * time.Millisecond
	}
	if fc.IntentMinIntervalMs != 0 {
		cfg.IntentMinInterval = time.Duration(fc.IntentMinIntervalMs) * time.Millisecond
	}
	if fc.SlewPerTick != 0 {
		cfg.SlewPerTick = fc.SlewPerTick
	}
	if fc.ChannelCeiling != 0 {
		cfg.ChannelCeiling = fc.ChannelCeiling
	}
	if fc.SamplePeriodMs != 0 {
		cfg.SamplePeriod = time.Duration(fc.SamplePeriodMs) * time.Millisecond
	}
	if fc.DegradedThreshold != 0 {
		cfg.DegradedThreshold = fc.DegradedThreshold
	}
	if fc.ObstacleThresholdCm != 0 {
		cfg.ObstacleThresholdCm = fc.ObstacleThresholdCm
	}
	if fc.RangeTriggerPin != 0 {
		cfg.RangeTriggerPin = fc.RangeTriggerPin
	}
	if fc.RangeEchoPin != 0 {
		cfg.RangeEchoPin = fc.RangeEchoPin
	}
	if fc.LogPath != "" {
		cfg.LogPath = fc.LogPath
	}
	if fc.LogBacklogCap != 0 {
		cfg.LogBacklogCap = fc.LogBacklogCap
	}
	if fc.StatusBuffer != 0 {
		cfg.StatusBuffer = fc.StatusBuffer
	}
	if fc.AuditDir != "" {
		cfg.AuditDir = fc.AuditDir
	}

	if len(fc.Channels) > 0 {
		if len(fc.Channels) != len(cfg.Channels) {
			return fmt.Errorf("expected %d channels, got %d", len(cfg.Channels), len(fc.Channels))
		}
		for i, ch := range fc.Channels {
			cfg.Channels[i].Pin = ch.Pin
			cfg.Channels[i].Cal.NeutralUs = ch.NeutralUs
			cfg.Channels[i].Cal.MinUs = ch.MinUs
			cfg.Channels[i].Cal.MaxUs = ch.MaxUs
			cfg.Channels[i].Cal.Inverted = ch.Inverted
		}
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
