// Package fake provides a scriptable pulse output for testing.
//
// It records every pulse per channel and can simulate a hardware fault
// on any channel, so supervisor and driver tests can exercise the
// FAULT escalation path without hardware.
package fake

import (
	"fmt"
	"sync"
)

// Output implements actuation.Output for tests.
type Output struct {
	mu     sync.Mutex
	pulses map[int][]float64
	faults map[int]error
}

// NewOutput creates an empty fake output.
func NewOutput() *Output {
	return &Output{
		pulses: make(map[int][]float64),
		faults: make(map[int]error),
	}
}

// Write records the pulse, or returns the scripted fault for the channel.
func (o *Output) Write(channel int, pulseUs float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err, ok := o.faults[channel]; ok {
		return err
	}
	o.pulses[channel] = append(o.pulses[channel], pulseUs)
	return nil
}

// FailChannel makes every subsequent Write on the channel fail.
func (o *Output) FailChannel(channel int, detail string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.faults[channel] = fmt.Errorf("ESC_FAULT: %s", detail)
}

// ClearFault removes a scripted fault.
func (o *Output) ClearFault(channel int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.faults, channel)
}

// Last returns the most recent pulse written to the channel.
func (o *Output) Last(channel int) (float64, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	p := o.pulses[channel]
	if len(p) == 0 {
		return 0, false
	}
	return p[len(p)-1], true
}

// Pulses returns a copy of every pulse written to the channel.
func (o *Output) Pulses(channel int) []float64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]float64, len(o.pulses[channel]))
	copy(out, o.pulses[channel])
	return out
}

// WriteCount returns how many pulses the channel has received.
func (o *Output) WriteCount(channel int) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pulses[channel])
}
