package intent

import (
	"errors"
	"math"
	"sync"
	"time"
)

// Mode is the requested safety mode accompanying an intent.
type Mode int

const (
	ModeDisarm Mode = iota
	ModeArm
)

func (m Mode) String() string {
	switch m {
	case ModeDisarm:
		return "DISARM"
	case ModeArm:
		return "ARM"
	default:
		return "UNKNOWN"
	}
}

// PilotIntent is one discrete pilot command: requested vertical thrust,
// requested planar thrust, both normalized to [-1, 1], and a mode flag.
type PilotIntent struct {
	Vertical float64
	Planar   float64
	Mode     Mode
}

// Rejection reasons returned by Submit.
var (
	// ErrInvalidIntent rejects malformed intent: non-finite or
	// out-of-range axis values, or an unknown mode.
	ErrInvalidIntent = errors.New("INVALID_INTENT")

	// ErrFaultLatched rejects an ARM request while the supervisor holds
	// FAULT. The fault must be cleared by an explicit reset first.
	ErrFaultLatched = errors.New("FAULT_LATCHED")

	// ErrRateLimited rejects submissions arriving faster than the
	// configured minimum interval.
	ErrRateLimited = errors.New("RATE_LIMITED")
)

// StateSource reports whether the supervisor currently latches FAULT.
type StateSource interface {
	Faulted() bool
}

// Intake validates and holds the latest pilot intent. It is the single
// writer of the current intent; the control loop only reads snapshots.
type Intake struct {
	mu          sync.Mutex
	state       StateSource
	minInterval time.Duration

	current    PilotIntent
	receivedAt time.Time
	hasIntent  bool

	onReject func(error)

	now func() time.Time
}

// NewIntake creates an intake. minInterval of zero disables rate
// limiting.
func NewIntake(minInterval time.Duration) *Intake {
	return &Intake{
		minInterval: minInterval,
		now:         time.Now,
	}
}

// SetStateSource wires the supervisor in after construction. Until one
// is set, ARM requests are accepted (nothing is latched yet).
func (i *Intake) SetStateSource(state StateSource) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.state = state
}

// SetRejectionHook installs an observer called with every rejection
// reason, for audit and instrumentation.
func (i *Intake) SetRejectionHook(hook func(error)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.onReject = hook
}

// Submit validates the intent and, on success, replaces the held one
// and stamps its receipt time. The intake has no other side effects.
func (i *Intake) Submit(p PilotIntent) error {
	if !validAxis(p.Vertical) || !validAxis(p.Planar) {
		return i.reject(ErrInvalidIntent)
	}
	if p.Mode != ModeArm && p.Mode != ModeDisarm {
		return i.reject(ErrInvalidIntent)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if p.Mode == ModeArm && i.state != nil && i.state.Faulted() {
		return i.rejectLocked(ErrFaultLatched)
	}

	now := i.now()
	if i.minInterval > 0 && i.hasIntent && now.Sub(i.receivedAt) < i.minInterval {
		return i.rejectLocked(ErrRateLimited)
	}

	i.current = p
	i.receivedAt = now
	i.hasIntent = true
	return nil
}

func (i *Intake) reject(err error) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.rejectLocked(err)
}

func (i *Intake) rejectLocked(err error) error {
	if i.onReject != nil {
		i.onReject(err)
	}
	return err
}

// Snapshot returns the latest accepted intent, its receipt time, and
// whether any intent has been accepted yet.
func (i *Intake) Snapshot() (PilotIntent, time.Time, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.current, i.receivedAt, i.hasIntent
}

// Fresh reports whether the held intent was received within timeout of
// now. With no intent held it reports false.
func (i *Intake) Fresh(now time.Time, timeout time.Duration) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.hasIntent {
		return false
	}
	return now.Sub(i.receivedAt) <= timeout
}

func validAxis(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= -1 && v <= 1
}
