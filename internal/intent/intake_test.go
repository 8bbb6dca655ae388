package intent

import (
	"errors"
	"math"
	"testing"
	"time"
)

// stubState is a scriptable StateSource.
type stubState struct {
	faulted bool
}

func (s *stubState) Faulted() bool { return s.faulted }

func TestSubmitAcceptsValidIntent(t *testing.T) {
	in := NewIntake(0)

	p := PilotIntent{Vertical: 0.5, Planar: -0.3, Mode: ModeArm}
	if err := in.Submit(p); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	got, at, ok := in.Snapshot()
	if !ok {
		t.Fatal("Snapshot: no intent held after accept")
	}
	if got != p {
		t.Errorf("Snapshot intent = %+v, want %+v", got, p)
	}
	if at.IsZero() {
		t.Error("Snapshot receipt time is zero")
	}
}

func TestSubmitRejectsInvalidAxes(t *testing.T) {
	in := NewIntake(0)

	cases := []struct {
		name string
		p    PilotIntent
	}{
		{"vertical above range", PilotIntent{Vertical: 1.5}},
		{"planar below range", PilotIntent{Planar: -1.001}},
		{"vertical NaN", PilotIntent{Vertical: math.NaN()}},
		{"planar inf", PilotIntent{Planar: math.Inf(1)}},
		{"unknown mode", PilotIntent{Mode: Mode(7)}},
	}
	for _, tc := range cases {
		if err := in.Submit(tc.p); !errors.Is(err, ErrInvalidIntent) {
			t.Errorf("%s: Submit = %v, want ErrInvalidIntent", tc.name, err)
		}
	}

	if _, _, ok := in.Snapshot(); ok {
		t.Error("rejected intent was stored")
	}
}

func TestSubmitRejectedIntentLeavesHeldOne(t *testing.T) {
	in := NewIntake(0)

	good := PilotIntent{Vertical: 0.2, Mode: ModeArm}
	if err := in.Submit(good); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := in.Submit(PilotIntent{Vertical: 2}); !errors.Is(err, ErrInvalidIntent) {
		t.Fatalf("Submit = %v, want ErrInvalidIntent", err)
	}

	got, _, _ := in.Snapshot()
	if got != good {
		t.Errorf("held intent = %+v, want %+v", got, good)
	}
}

func TestSubmitRejectsArmWhileFaulted(t *testing.T) {
	in := NewIntake(0)
	state := &stubState{faulted: true}
	in.SetStateSource(state)

	if err := in.Submit(PilotIntent{Mode: ModeArm}); !errors.Is(err, ErrFaultLatched) {
		t.Errorf("ARM while faulted: Submit = %v, want ErrFaultLatched", err)
	}

	// DISARM always passes the fault gate.
	if err := in.Submit(PilotIntent{Mode: ModeDisarm}); err != nil {
		t.Errorf("DISARM while faulted: Submit = %v, want nil", err)
	}

	state.faulted = false
	if err := in.Submit(PilotIntent{Mode: ModeArm}); err != nil {
		t.Errorf("ARM after fault cleared: Submit = %v, want nil", err)
	}
}

func TestSubmitRateLimit(t *testing.T) {
	in := NewIntake(5 * time.Millisecond)
	now := time.Now()
	in.now = func() time.Time { return now }

	if err := in.Submit(PilotIntent{Mode: ModeArm}); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}

	now = now.Add(2 * time.Millisecond)
	if err := in.Submit(PilotIntent{Mode: ModeArm}); !errors.Is(err, ErrRateLimited) {
		t.Errorf("Submit inside window = %v, want ErrRateLimited", err)
	}

	now = now.Add(4 * time.Millisecond)
	if err := in.Submit(PilotIntent{Mode: ModeArm}); err != nil {
		t.Errorf("Submit after window = %v, want nil", err)
	}
}

func TestRejectionHook(t *testing.T) {
	in := NewIntake(0)

	var seen []error
	in.SetRejectionHook(func(err error) { seen = append(seen, err) })

	_ = in.Submit(PilotIntent{Vertical: 9})
	in.SetStateSource(&stubState{faulted: true})
	_ = in.Submit(PilotIntent{Mode: ModeArm})

	if len(seen) != 2 {
		t.Fatalf("hook called %d times, want 2", len(seen))
	}
	if !errors.Is(seen[0], ErrInvalidIntent) || !errors.Is(seen[1], ErrFaultLatched) {
		t.Errorf("hook saw %v, want [INVALID_INTENT FAULT_LATCHED]", seen)
	}
}

func TestFresh(t *testing.T) {
	in := NewIntake(0)
	base := time.Now()
	in.now = func() time.Time { return base }

	if in.Fresh(base, 500*time.Millisecond) {
		t.Error("Fresh with no intent held, want false")
	}

	if err := in.Submit(PilotIntent{Mode: ModeArm}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if !in.Fresh(base.Add(500*time.Millisecond), 500*time.Millisecond) {
		t.Error("intent at the timeout boundary reported stale")
	}
	if in.Fresh(base.Add(501*time.Millisecond), 500*time.Millisecond) {
		t.Error("intent past the timeout reported fresh")
	}
}
