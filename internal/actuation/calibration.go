package actuation

// Calibration holds the per-channel pulse-width map. Immutable after load.
//
// The ESC band follows the vehicle's electronics: pulses in the
// 800-1800 us range, with NeutralUs producing zero thrust. Inverted
// flips command polarity for motors mounted mirror-image, so symmetric
// calibrations realize torque cancellation on the horizontal pair.
type Calibration struct {
	NeutralUs float64 `yaml:"neutral_us"`
	MinUs     float64 `yaml:"min_us"`
	MaxUs     float64 `yaml:"max_us"`
	Inverted  bool    `yaml:"inverted"`
}

// DefaultCalibration returns the ESC band of the reference vehicle.
func DefaultCalibration() Calibration {
	return Calibration{
		NeutralUs: 1300,
		MinUs:     800,
		MaxUs:     1800,
	}
}

// Pulse maps a normalized command in [-1, 1] to a pulse width in
// microseconds by linear interpolation: neutral-to-max for positive
// commands, neutral-to-min for negative ones.
func (c Calibration) Pulse(cmd float64) float64 {
	if c.Inverted {
		cmd = -cmd
	}
	if cmd >= 0 {
		return c.NeutralUs + cmd*(c.MaxUs-c.NeutralUs)
	}
	return c.NeutralUs + cmd*(c.NeutralUs-c.MinUs)
}

// Validate checks the pulse band ordering.
func (c Calibration) Validate() error {
	if c.MinUs <= 0 {
		return errCalibration("min pulse width must be positive")
	}
	if c.MaxUs <= c.MinUs {
		return errCalibration("max pulse width must exceed min")
	}
	if c.NeutralUs < c.MinUs || c.NeutralUs > c.MaxUs {
		return errCalibration("neutral pulse width must lie within [min, max]")
	}
	return nil
}
