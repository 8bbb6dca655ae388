package supervisor

import (
	"errors"
	"time"

	"github.com/rov-control/rovcore/internal/actuation"
	"github.com/rov-control/rovcore/internal/intent"
	"github.com/rov-control/rovcore/internal/sensor"
	"github.com/rov-control/rovcore/internal/telemetry"
)

// ChannelDriver is the minimal interface the supervisor needs from one
// actuation channel.
type ChannelDriver interface {
	Drive(cmd float64) error
	Neutral() error
	Last() float64
}

// IntentSource supplies the latest accepted pilot intent.
type IntentSource interface {
	Snapshot() (intent.PilotIntent, time.Time, bool)
}

// AuditLogger records safety state transitions.
type AuditLogger interface {
	LogTransition(action, state, reason string)
}

// StatusHub receives status events for the pilot-facing collaborator.
type StatusHub interface {
	Publish(telemetry.Event)
}

// ErrNotFaulted rejects a reset while no fault is latched.
var ErrNotFaulted = errors.New("NOT_FAULTED")

// Compile-time assertions for the concrete collaborators.
var (
	_ ChannelDriver      = (*actuation.Driver)(nil)
	_ IntentSource       = (*intent.Intake)(nil)
	_ StatusHub          = (*telemetry.Hub)(nil)
	_ intent.StateSource = (*Supervisor)(nil)
	_ sensor.Conditions  = (*Supervisor)(nil)
)
