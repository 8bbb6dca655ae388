// Package actuation converts normalized thrust commands into ESC pulse
// widths for the four motor channels.
//
// Each channel owns its calibration (neutral/min/max pulse width and
// polarity) and a per-tick slew limiter. Pulses leave the package through
// the Output port; hardware and fake implementations live in subpackages.
package actuation
