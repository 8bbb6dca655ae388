// Package rpipwm emits ESC pulses through the Raspberry Pi hardware
// PWM peripheral.
//
// The ESCs expect a standard 50 Hz servo frame; a pulse width in
// microseconds is translated into a duty cycle against a fixed cycle
// length. Only the BCM pins routed to the PWM peripheral (12, 13, 18,
// 19) can carry a channel.
package rpipwm

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

const (
	frameHertz = 50
	// cycleLength is the duty-cycle denominator per frame. 20000 steps
	// over a 20 ms frame gives 1 us resolution.
	cycleLength = 20000
	usPerCycle  = (1000 * 1000) / frameHertz
)

// Output implements actuation.Output on Raspberry Pi PWM pins.
type Output struct {
	pins map[int]rpio.Pin
}

// Open memory-maps the GPIO peripheral and configures one PWM pin per
// channel. pins[i] is the BCM pin for channel i.
func Open(pins []int) (*Output, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("UNAVAILABLE: gpio mmap: %w", err)
	}

	o := &Output{pins: make(map[int]rpio.Pin, len(pins))}
	for channel, bcm := range pins {
		pin := rpio.Pin(bcm)
		pin.Mode(rpio.Pwm)
		pin.Freq(frameHertz * cycleLength)
		o.pins[channel] = pin
	}
	return o, nil
}

// Write sets the duty cycle for the channel's pin to the requested
// pulse width.
func (o *Output) Write(channel int, pulseUs float64) error {
	pin, ok := o.pins[channel]
	if !ok {
		return fmt.Errorf("UNAVAILABLE: no pin mapped for channel %d", channel)
	}
	if pulseUs < 0 || pulseUs > usPerCycle {
		return fmt.Errorf("INVALID_RANGE: pulse %.0f us outside frame", pulseUs)
	}
	pin.DutyCycle(dutyForUs(pulseUs), cycleLength)
	return nil
}

// Close releases the GPIO mapping.
func (o *Output) Close() error {
	return rpio.Close()
}

func dutyForUs(pulseUs float64) uint32 {
	return uint32(pulseUs * cycleLength / usPerCycle)
}
