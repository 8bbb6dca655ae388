package telemetry

import (
	"testing"
)

func TestHubDeliversToSubscribers(t *testing.T) {
	h := NewHub(4)
	defer h.Close()

	ch1, cancel1 := h.Subscribe()
	defer cancel1()
	ch2, cancel2 := h.Subscribe()
	defer cancel2()

	h.Publish(Event{Type: EventState, Data: map[string]interface{}{"state": "ARMED"}})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Type != EventState {
				t.Errorf("subscriber %d: type = %q, want %q", i, ev.Type, EventState)
			}
			if ev.ID == 0 {
				t.Errorf("subscriber %d: event has no ID", i)
			}
		default:
			t.Errorf("subscriber %d received nothing", i)
		}
	}
}

func TestHubMonotonicIDs(t *testing.T) {
	h := NewHub(8)
	defer h.Close()

	ch, cancel := h.Subscribe()
	defer cancel()

	for i := 0; i < 5; i++ {
		h.Publish(Event{Type: EventSample})
	}

	var last int64
	for i := 0; i < 5; i++ {
		ev := <-ch
		if ev.ID <= last {
			t.Fatalf("event %d: ID %d not greater than %d", i, ev.ID, last)
		}
		last = ev.ID
	}
}

func TestHubDropsOnFullBuffer(t *testing.T) {
	h := NewHub(1)
	defer h.Close()

	ch, cancel := h.Subscribe()
	defer cancel()

	h.Publish(Event{Type: EventSample})
	h.Publish(Event{Type: EventSample})
	h.Publish(Event{Type: EventSample})

	if h.Dropped() != 2 {
		t.Errorf("Dropped() = %d, want 2", h.Dropped())
	}

	// The subscriber still got the first event and can see the ID gap.
	ev := <-ch
	if ev.ID != 1 {
		t.Errorf("delivered event ID = %d, want 1", ev.ID)
	}
}

func TestHubCancelStopsDelivery(t *testing.T) {
	h := NewHub(4)
	defer h.Close()

	ch, cancel := h.Subscribe()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel not closed after cancel")
	}

	// Publishing after cancel must not panic or count drops.
	h.Publish(Event{Type: EventSample})
	if h.Dropped() != 0 {
		t.Errorf("Dropped() = %d after cancel, want 0", h.Dropped())
	}

	// cancel is idempotent
	cancel()
}

func TestHubClose(t *testing.T) {
	h := NewHub(4)
	ch, cancel := h.Subscribe()
	defer cancel()

	h.Close()
	if _, ok := <-ch; ok {
		t.Error("channel not closed after hub Close")
	}

	h.Publish(Event{Type: EventSample})

	// Subscribing after Close yields a closed channel.
	ch2, cancel2 := h.Subscribe()
	defer cancel2()
	if _, ok := <-ch2; ok {
		t.Error("subscribe after Close returned an open channel")
	}
}
