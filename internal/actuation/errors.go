package actuation

import (
	"errors"
	"fmt"
)

// Normalized actuation errors.
var (
	// ErrChannelFault indicates the actuation medium reported a fault
	// (stalled or disconnected ESC, dead output pin). Escalates to the
	// supervisor, which latches FAULT and neutrals every channel.
	ErrChannelFault = errors.New("CHANNEL_FAULT")

	// ErrInvalidCommand indicates a non-finite thrust command. Rejected
	// at the driver boundary; it never reaches the output.
	ErrInvalidCommand = errors.New("INVALID_COMMAND")
)

// ChannelError wraps an output fault with the faulting channel and the
// underlying diagnostic.
type ChannelError struct {
	Channel int
	Cause   error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("CHANNEL_FAULT: channel %d: %v", e.Channel, e.Cause)
}

func (e *ChannelError) Unwrap() error {
	return ErrChannelFault
}

func errCalibration(msg string) error {
	return fmt.Errorf("INVALID_CALIBRATION: %s", msg)
}
