package sensor

import (
	"context"
	"time"
)

// DS18B20 physical measurement range in Celsius. Values outside it are
// sensor faults, not water temperatures.
const (
	minPlausibleC = -55
	maxPlausibleC = 125
)

// Sample is one timestamped temperature reading. Immutable once
// created; invalid samples carry no temperature.
type Sample struct {
	Time  time.Time
	TempC float64
	TempF float64
	Valid bool
}

// Device is the southbound port for the temperature probe.
type Device interface {
	// ReadCelsius returns the probe temperature. Errors mean the read
	// failed (bus timeout, checksum failure, missing device).
	ReadCelsius(ctx context.Context) (float64, error)
}

// Sampler periodically reads the temperature device and tracks the
// sensor-degraded condition.
type Sampler struct {
	dev               Device
	degradedThreshold int

	consecInvalid int

	now func() time.Time
}

// NewSampler creates a sampler. dev may be nil when no probe was
// found; every sample is then invalid, which keeps the audit trail
// honest without faulting the vehicle.
func NewSampler(dev Device, degradedThreshold int) *Sampler {
	return &Sampler{
		dev:               dev,
		degradedThreshold: degradedThreshold,
		now:               time.Now,
	}
}

// Sample reads the device once. A failed read, or a physically
// implausible value, yields an invalid sample instead of an error.
func (s *Sampler) Sample(ctx context.Context) Sample {
	ts := s.now()

	if s.dev == nil {
		s.consecInvalid++
		return Sample{Time: ts}
	}

	c, err := s.dev.ReadCelsius(ctx)
	if err != nil || c < minPlausibleC || c > maxPlausibleC {
		s.consecInvalid++
		return Sample{Time: ts}
	}

	s.consecInvalid = 0
	return Sample{
		Time:  ts,
		TempC: c,
		TempF: c*9.0/5.0 + 32.0,
		Valid: true,
	}
}

// Degraded reports whether the configured number of consecutive
// invalid samples has been reached. A single valid sample clears it.
func (s *Sampler) Degraded() bool {
	return s.consecInvalid >= s.degradedThreshold
}
