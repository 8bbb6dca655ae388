package actuation

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
)

// recordingOutput captures pulses in-process; scripted errors simulate
// hardware faults.
type recordingOutput struct {
	mu     sync.Mutex
	pulses map[int][]float64
	fail   map[int]error
}

func newRecordingOutput() *recordingOutput {
	return &recordingOutput{
		pulses: make(map[int][]float64),
		fail:   make(map[int]error),
	}
}

func (o *recordingOutput) Write(channel int, pulseUs float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err, ok := o.fail[channel]; ok {
		return err
	}
	o.pulses[channel] = append(o.pulses[channel], pulseUs)
	return nil
}

func (o *recordingOutput) last(channel int) float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	p := o.pulses[channel]
	if len(p) == 0 {
		return math.NaN()
	}
	return p[len(p)-1]
}

func newTestDriver(out Output) *Driver {
	return NewDriver(0, DefaultCalibration(), out, 1.0, 0.2)
}

func TestDriveEmitsCalibratedPulse(t *testing.T) {
	out := newRecordingOutput()
	d := newTestDriver(out)

	if err := d.Drive(0.1); err != nil {
		t.Fatalf("Drive failed: %v", err)
	}
	if got := out.last(0); got != 1350 {
		t.Errorf("pulse = %v, want 1350", got)
	}
	if d.Last() != 0.1 {
		t.Errorf("Last() = %v, want 0.1", d.Last())
	}
}

func TestDriveRejectsNonFinite(t *testing.T) {
	out := newRecordingOutput()
	d := newTestDriver(out)

	for _, cmd := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := d.Drive(cmd); !errors.Is(err, ErrInvalidCommand) {
			t.Errorf("Drive(%v) = %v, want ErrInvalidCommand", cmd, err)
		}
	}
	if len(out.pulses[0]) != 0 {
		t.Errorf("rejected commands reached the output: %v", out.pulses[0])
	}
}

func TestDriveClampsToCeiling(t *testing.T) {
	out := newRecordingOutput()
	d := NewDriver(0, DefaultCalibration(), out, 0.6, 2.0)

	if err := d.Drive(1.0); err != nil {
		t.Fatalf("Drive failed: %v", err)
	}
	if d.Last() != 0.6 {
		t.Errorf("Last() = %v, want ceiling 0.6", d.Last())
	}
	if err := d.Drive(-1.0); err != nil {
		t.Fatalf("Drive failed: %v", err)
	}
	if d.Last() != -0.6 {
		t.Errorf("Last() = %v, want -0.6", d.Last())
	}
}

func TestDriveSlewLimitsSteps(t *testing.T) {
	out := newRecordingOutput()
	d := newTestDriver(out)

	// A unit step spreads over successive ticks at 0.2 per tick.
	want := []float64{0.2, 0.4, 0.6, 0.8, 1.0, 1.0}
	for i, w := range want {
		if err := d.Drive(1.0); err != nil {
			t.Fatalf("tick %d: Drive failed: %v", i, err)
		}
		if got := d.Last(); math.Abs(got-w) > 1e-9 {
			t.Errorf("tick %d: Last() = %v, want %v", i, got, w)
		}
	}
}

func TestDriveSlewLimitsReversal(t *testing.T) {
	out := newRecordingOutput()
	d := newTestDriver(out)

	for i := 0; i < 5; i++ {
		if err := d.Drive(1.0); err != nil {
			t.Fatalf("Drive failed: %v", err)
		}
	}
	if err := d.Drive(-1.0); err != nil {
		t.Fatalf("Drive failed: %v", err)
	}
	if got := d.Last(); math.Abs(got-0.8) > 1e-9 {
		t.Errorf("after reversal Last() = %v, want 0.8", got)
	}
}

func TestNeutralBypassesSlew(t *testing.T) {
	out := newRecordingOutput()
	d := newTestDriver(out)

	for i := 0; i < 5; i++ {
		if err := d.Drive(1.0); err != nil {
			t.Fatalf("Drive failed: %v", err)
		}
	}
	if err := d.Neutral(); err != nil {
		t.Fatalf("Neutral failed: %v", err)
	}
	if got := out.last(0); got != 1300 {
		t.Errorf("neutral pulse = %v, want 1300", got)
	}
	if d.Last() != 0 {
		t.Errorf("Last() after Neutral = %v, want 0", d.Last())
	}

	// Slew history restarts from zero.
	if err := d.Drive(1.0); err != nil {
		t.Fatalf("Drive failed: %v", err)
	}
	if got := d.Last(); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("first Drive after Neutral: Last() = %v, want 0.2", got)
	}
}

func TestDriveWrapsOutputFault(t *testing.T) {
	out := newRecordingOutput()
	out.fail[3] = fmt.Errorf("ESC_FAULT: no feedback")
	d := NewDriver(3, DefaultCalibration(), out, 1.0, 2.0)

	err := d.Drive(0.5)
	if !errors.Is(err, ErrChannelFault) {
		t.Fatalf("Drive = %v, want ErrChannelFault", err)
	}
	var ce *ChannelError
	if !errors.As(err, &ce) {
		t.Fatalf("Drive error is not a *ChannelError: %v", err)
	}
	if ce.Channel != 3 {
		t.Errorf("faulting channel = %d, want 3", ce.Channel)
	}
}
