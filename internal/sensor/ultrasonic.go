package sensor

import (
	"context"
	"fmt"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
)

// Rangefinder is the southbound port for the obstacle sensor.
type Rangefinder interface {
	// DistanceCm returns the distance to the nearest obstacle.
	DistanceCm(ctx context.Context) (float64, error)
}

// Round-trip speed of sound in water-adjacent air, expressed as the
// divisor from echo microseconds to centimeters.
const usPerCm = 58.0

const echoTimeout = 60 * time.Millisecond

// JSNSR04T drives the waterproof ultrasonic rangefinder over two GPIO
// lines: a 10 us trigger pulse, then an echo line whose high time is
// proportional to distance.
type JSNSR04T struct {
	trigger rpio.Pin
	echo    rpio.Pin
}

// NewJSNSR04T configures the trigger and echo pins. The caller owns
// the GPIO mapping lifecycle (rpio.Open/Close).
func NewJSNSR04T(triggerPin, echoPin int) *JSNSR04T {
	t := rpio.Pin(triggerPin)
	e := rpio.Pin(echoPin)
	t.Output()
	t.Low()
	e.Input()
	return &JSNSR04T{trigger: t, echo: e}
}

// DistanceCm fires one ping and times the echo.
func (j *JSNSR04T) DistanceCm(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	j.trigger.High()
	time.Sleep(10 * time.Microsecond)
	j.trigger.Low()

	start, err := waitLevel(j.echo, rpio.High)
	if err != nil {
		return 0, err
	}
	end, err := waitLevel(j.echo, rpio.Low)
	if err != nil {
		return 0, err
	}

	us := float64(end.Sub(start).Microseconds())
	return us / usPerCm, nil
}

func waitLevel(pin rpio.Pin, want rpio.State) (time.Time, error) {
	deadline := time.Now().Add(echoTimeout)
	for pin.Read() != want {
		if time.Now().After(deadline) {
			return time.Time{}, fmt.Errorf("RANGEFINDER_TIMEOUT: echo line stuck")
		}
	}
	return time.Now(), nil
}
