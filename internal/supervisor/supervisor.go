package supervisor

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rov-control/rovcore/internal/intent"
	"github.com/rov-control/rovcore/internal/metrics"
	"github.com/rov-control/rovcore/internal/telemetry"
	"github.com/rov-control/rovcore/internal/thrust"
)

// Supervisor orchestrates the control loop and owns the safety state.
type Supervisor struct {
	intents IntentSource
	drivers []ChannelDriver
	hub     StatusHub
	audit   AuditLogger

	controlPeriod time.Duration
	staleTimeout  time.Duration

	mu          sync.RWMutex
	state       State
	faultReason string

	obstacleHold   atomic.Bool
	sensorDegraded atomic.Bool

	now func() time.Time
}

// New creates a supervisor in DISARMED over the given channel drivers.
func New(intents IntentSource, drivers []ChannelDriver, hub StatusHub, controlPeriod, staleTimeout time.Duration) *Supervisor {
	return &Supervisor{
		intents:       intents,
		drivers:       drivers,
		hub:           hub,
		controlPeriod: controlPeriod,
		staleTimeout:  staleTimeout,
		state:         StateDisarmed,
		now:           time.Now,
	}
}

// SetAuditLogger wires the audit trail in.
func (s *Supervisor) SetAuditLogger(audit AuditLogger) {
	s.audit = audit
}

// Run executes the control loop until ctx is cancelled, then leaves
// every channel at neutral.
func (s *Supervisor) Run(ctx context.Context) {
	ticker := time.NewTicker(s.controlPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.neutralAll()
			return
		case <-ticker.C:
			s.step(s.now())
		}
	}
}

// step is one control tick. It is the only mutator of the safety state
// besides Reset.
func (s *Supervisor) step(now time.Time) {
	metrics.Ticks.Inc()

	switch s.currentState() {
	case StateFault:
		// Terminal until reset; keep reasserting neutral.
		s.neutralAll()

	case StateDisarmed:
		s.neutralAll()
		p, at, ok := s.intents.Snapshot()
		if ok && now.Sub(at) <= s.staleTimeout && p.Mode == intent.ModeArm {
			s.transition(StateArmed, "arm", "", "")
		}

	case StateArmed:
		p, at, ok := s.intents.Snapshot()
		if !ok || now.Sub(at) > s.staleTimeout {
			s.latchFault("intent_timeout", "intent timeout")
			return
		}
		if p.Mode == intent.ModeDisarm {
			s.transition(StateDisarmed, "disarm", "", "")
			s.neutralAll()
			return
		}

		cmd := thrust.Allocate(p)
		if s.obstacleHold.Load() {
			// Hold position while an obstacle is in range; not a fault.
			cmd = thrust.Neutral()
		}
		for i, d := range s.drivers {
			if err := d.Drive(cmd[i]); err != nil {
				s.latchFault("channel_fault", fmt.Sprintf("channel fault: %v", err))
				return
			}
			metrics.ChannelCommand.WithLabelValues(strconv.Itoa(i)).Set(d.Last())
		}
	}
}

// latchFault transitions to FAULT and neutrals every channel within
// the same tick. code is the coarse reason for metric labels; reason
// carries the full diagnostic.
func (s *Supervisor) latchFault(code, reason string) {
	s.transition(StateFault, "faultLatch", code, reason)
	s.neutralAll()
}

// Reset clears a latched fault. Only the external reset collaborator
// calls this; any other state rejects it.
func (s *Supervisor) Reset() error {
	s.mu.Lock()
	if s.state != StateFault {
		s.mu.Unlock()
		return ErrNotFaulted
	}
	s.state = StateDisarmed
	s.faultReason = ""
	s.mu.Unlock()

	s.announce(StateDisarmed, "reset", "", "")
	return nil
}

// Faulted implements intent.StateSource.
func (s *Supervisor) Faulted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateFault
}

// Status returns the current state and fault reason, if any.
func (s *Supervisor) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{State: s.state, FaultReason: s.faultReason}
}

// SetSensorDegraded implements sensor.Conditions. Degraded sensing is
// telemetry-only; it never gates actuation.
func (s *Supervisor) SetSensorDegraded(degraded bool) {
	if s.sensorDegraded.Swap(degraded) == degraded {
		return
	}
	s.publish(telemetry.EventSensorDegraded, map[string]interface{}{
		"active": degraded,
		"ts":     s.now().UTC().Format(time.RFC3339),
	})
}

// SetObstacleHold implements sensor.Conditions. While held, thrust is
// suppressed to neutral without leaving ARMED.
func (s *Supervisor) SetObstacleHold(held bool) {
	if s.obstacleHold.Swap(held) == held {
		return
	}
	s.publish(telemetry.EventObstacleHold, map[string]interface{}{
		"active": held,
		"ts":     s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Supervisor) currentState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Supervisor) transition(to State, action, code, reason string) {
	s.mu.Lock()
	s.state = to
	if to == StateFault {
		s.faultReason = reason
	} else {
		s.faultReason = ""
	}
	s.mu.Unlock()

	s.announce(to, action, code, reason)
}

func (s *Supervisor) announce(to State, action, code, reason string) {
	metrics.State.Set(float64(to))
	// The label stays coarse; the full diagnostic lives in Status and
	// the audit trail.
	metrics.Transitions.WithLabelValues(to.String(), code).Inc()

	if s.audit != nil {
		s.audit.LogTransition(action, to.String(), reason)
	}

	data := map[string]interface{}{
		"state": to.String(),
		"ts":    s.now().UTC().Format(time.RFC3339),
	}
	eventType := telemetry.EventState
	if to == StateFault {
		eventType = telemetry.EventFault
		data["reason"] = reason
	}
	s.publish(eventType, data)
}

func (s *Supervisor) publish(eventType string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(telemetry.Event{Type: eventType, Data: data})
}

// neutralAll drives every channel to neutral. Errors are ignored: the
// command is reasserted on every subsequent tick, so a single missed
// write still converges to a safe state.
func (s *Supervisor) neutralAll() {
	for i, d := range s.drivers {
		_ = d.Neutral()
		metrics.ChannelCommand.WithLabelValues(strconv.Itoa(i)).Set(0)
	}
}
