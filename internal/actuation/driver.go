package actuation

import (
	"math"
)

// Output is the southbound port a driver emits pulses through.
// Implementations report hardware faults as errors; the driver wraps
// them into ChannelError.
type Output interface {
	// Write emits a pulse width in microseconds on a channel.
	Write(channel int, pulseUs float64) error
}

// Driver owns one motor/ESC channel: safety clamping, slew limiting,
// and the calibration map from normalized command to pulse width.
//
// A driver is single-writer: only the supervisor's control loop calls
// Drive and Neutral, so no internal locking is needed.
type Driver struct {
	channel int
	cal     Calibration
	out     Output

	ceiling     float64
	slewPerTick float64

	last float64
}

// NewDriver creates a driver for one channel.
//
// ceiling caps command magnitude in (0, 1]; slewPerTick caps the change
// in command per control tick. Step commands stress brushless motors
// and ESCs, so the limiter spreads them over successive ticks.
func NewDriver(channel int, cal Calibration, out Output, ceiling, slewPerTick float64) *Driver {
	return &Driver{
		channel:     channel,
		cal:         cal,
		out:         out,
		ceiling:     ceiling,
		slewPerTick: slewPerTick,
	}
}

// Drive converts a normalized command into a pulse and emits it.
// Non-finite commands are rejected with ErrInvalidCommand. An output
// fault comes back as a ChannelError wrapping ErrChannelFault.
func (d *Driver) Drive(cmd float64) error {
	if math.IsNaN(cmd) || math.IsInf(cmd, 0) {
		return ErrInvalidCommand
	}

	// Clamp to the configured per-channel ceiling.
	if cmd > d.ceiling {
		cmd = d.ceiling
	} else if cmd < -d.ceiling {
		cmd = -d.ceiling
	}

	// Slew limit against the previous tick's value. A fresh driver
	// starts from zero thrust.
	if delta := cmd - d.last; delta > d.slewPerTick {
		cmd = d.last + d.slewPerTick
	} else if delta < -d.slewPerTick {
		cmd = d.last - d.slewPerTick
	}

	if err := d.out.Write(d.channel, d.cal.Pulse(cmd)); err != nil {
		return &ChannelError{Channel: d.channel, Cause: err}
	}

	d.last = cmd
	return nil
}

// Neutral emits the neutral pulse immediately, bypassing the slew
// limiter: safety overrides smoothness. Slew history restarts from
// zero thrust.
func (d *Driver) Neutral() error {
	d.last = 0
	if err := d.out.Write(d.channel, d.cal.NeutralUs); err != nil {
		return &ChannelError{Channel: d.channel, Cause: err}
	}
	return nil
}

// Channel returns the channel index this driver owns.
func (d *Driver) Channel() int {
	return d.channel
}

// Last returns the most recently emitted command after clamping and
// slew limiting.
func (d *Driver) Last() float64 {
	return d.last
}
