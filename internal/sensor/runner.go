package sensor

import (
	"context"
	"sync"
	"time"
)

// obstaclePollInterval is how often the rangefinder is consulted. It
// is deliberately faster than the temperature cadence: obstacle hold
// gates thrust, temperature only feeds telemetry.
const obstaclePollInterval = 100 * time.Millisecond

// Recorder receives every sample, valid or not.
type Recorder interface {
	Append(Sample) error
}

// Conditions receives sensing-derived safety conditions. The
// supervisor implements it.
type Conditions interface {
	SetSensorDegraded(degraded bool)
	SetObstacleHold(held bool)
}

// Runner owns the sensing loops: the fixed-period temperature sampler
// and the obstacle watch. Both run decoupled from the control loop and
// never touch actuation directly.
type Runner struct {
	Sampler     *Sampler
	Rangefinder Rangefinder // nil disables the obstacle watch

	Recorder   Recorder
	Conditions Conditions

	SamplePeriod        time.Duration
	ObstacleThresholdCm float64
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		r.runSampling(ctx)
	}()

	if r.Rangefinder != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.runObstacleWatch(ctx)
		}()
	}

	wg.Wait()
}

func (r *Runner) runSampling(ctx context.Context) {
	ticker := time.NewTicker(r.SamplePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample := r.Sampler.Sample(ctx)
			if r.Recorder != nil {
				// Append is bounded and non-blocking; a full backlog
				// drops oldest records inside the recorder.
				_ = r.Recorder.Append(sample)
			}
			if r.Conditions != nil {
				r.Conditions.SetSensorDegraded(r.Sampler.Degraded())
			}
		}
	}
}

func (r *Runner) runObstacleWatch(ctx context.Context) {
	ticker := time.NewTicker(obstaclePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dist, err := r.Rangefinder.DistanceCm(ctx)
			// A broken rangefinder must not pin the vehicle in place;
			// the hold clears on read errors.
			held := err == nil && dist <= r.ObstacleThresholdCm
			if r.Conditions != nil {
				r.Conditions.SetObstacleHold(held)
			}
		}
	}
}
