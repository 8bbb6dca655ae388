// Package thrust maps pilot intent onto the four motor channels.
//
// The horizontal motors are mounted mirror-image; giving them commands
// of equal magnitude and opposite sign cancels their reaction torque,
// so planar thrust produces no net yaw. The vertical pair spins to
// thrust the same direction and needs no mirroring.
package thrust

import (
	"math"

	"github.com/rov-control/rovcore/internal/intent"
)

// Channel order within a Command.
const (
	ChannelVerticalFore        = 0
	ChannelVerticalAft         = 1
	ChannelHorizontalPort      = 2
	ChannelHorizontalStarboard = 3

	// ChannelCount is the number of motor channels on the vehicle.
	ChannelCount = 4
)

// Command holds one normalized thrust value per motor channel, each in
// [-1, 1]. The zero value is the neutral command.
type Command [ChannelCount]float64

// Neutral is the all-channels-at-zero-thrust command.
func Neutral() Command {
	return Command{}
}

// Allocate mixes pilot intent into per-channel commands.
//
// Both vertical channels receive the vertical axis unchanged; the
// horizontal pair receives the planar axis with a sign flip on the
// starboard channel. Outputs are clamped to [-1, 1] post-mix, so a
// dominant axis saturates instead of erroring. Non-finite axis values
// allocate to neutral rather than propagate.
func Allocate(p intent.PilotIntent) Command {
	v := sanitize(p.Vertical)
	planar := sanitize(p.Planar)

	cmd := Command{
		ChannelVerticalFore:        v,
		ChannelVerticalAft:         v,
		ChannelHorizontalPort:      planar,
		ChannelHorizontalStarboard: -planar,
	}
	for i := range cmd {
		cmd[i] = clamp(cmd[i], -1, 1)
	}
	return cmd
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
