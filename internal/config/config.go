package config

import (
	"time"

	"github.com/rov-control/rovcore/internal/actuation"
	"github.com/rov-control/rovcore/internal/thrust"
)

// ChannelConfig binds one motor channel to its GPIO pin and calibration.
type ChannelConfig struct {
	Pin int
	Cal actuation.Calibration
}

// Config carries every tunable of the control core.
type Config struct {
	// Control loop
	ControlPeriod      time.Duration
	IntentStaleTimeout time.Duration
	IntentMinInterval  time.Duration
	SlewPerTick        float64
	ChannelCeiling     float64

	// Sensing
	SamplePeriod        time.Duration
	DegradedThreshold   int
	ObstacleThresholdCm float64
	RangeTriggerPin     int
	RangeEchoPin        int

	// Telemetry
	LogPath       string
	LogBacklogCap int
	StatusBuffer  int

	// Audit
	AuditDir string

	Channels [thrust.ChannelCount]ChannelConfig
}

// Baseline returns the built-in defaults.
//
// The pulse band and pin assignment follow the reference vehicle: ESC
// pulses 800-1800 us on BCM pins 13/19 (vertical pair) and 12/18
// (horizontal pair); temperature sampled every 2 s; a 25 cm obstacle
// threshold.
func Baseline() *Config {
	cfg := &Config{
		ControlPeriod:      20 * time.Millisecond, // 50 Hz
		IntentStaleTimeout: 500 * time.Millisecond,
		IntentMinInterval:  5 * time.Millisecond,
		SlewPerTick:        0.2,
		ChannelCeiling:     1.0,

		SamplePeriod:        2 * time.Second,
		DegradedThreshold:   5,
		ObstacleThresholdCm: 25,
		RangeTriggerPin:     23,
		RangeEchoPin:        24,

		LogPath:       "logs/temperature.csv",
		LogBacklogCap: 256,
		StatusBuffer:  64,

		AuditDir: "logs",
	}

	pins := [thrust.ChannelCount]int{
		thrust.ChannelVerticalFore:        13,
		thrust.ChannelVerticalAft:         19,
		thrust.ChannelHorizontalPort:      12,
		thrust.ChannelHorizontalStarboard: 18,
	}
	for i := range cfg.Channels {
		cfg.Channels[i] = ChannelConfig{Pin: pins[i], Cal: actuation.DefaultCalibration()}
	}
	return cfg
}

// Pins returns the channel-ordered BCM pin list for the PWM output.
func (c *Config) Pins() []int {
	pins := make([]int, len(c.Channels))
	for i, ch := range c.Channels {
		pins[i] = ch.Pin
	}
	return pins
}
