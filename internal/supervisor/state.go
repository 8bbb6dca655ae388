package supervisor

// State is the safety state gating all actuation.
type State int

const (
	StateDisarmed State = iota
	StateArmed
	StateFault
)

func (s State) String() string {
	switch s {
	case StateDisarmed:
		return "DISARMED"
	case StateArmed:
		return "ARMED"
	case StateFault:
		return "FAULT"
	default:
		return "UNKNOWN"
	}
}

// Status is the northbound view of the supervisor.
type Status struct {
	State       State
	FaultReason string
}
