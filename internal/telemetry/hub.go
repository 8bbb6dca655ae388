package telemetry

import (
	"sync"
	"sync/atomic"
)

// Event is one status message pushed to the pilot-facing collaborator.
type Event struct {
	ID   int64                  `json:"id"`
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// Event types published by the supervisor.
const (
	EventState          = "state"
	EventFault          = "fault"
	EventSensorDegraded = "sensorDegraded"
	EventObstacleHold   = "obstacleHold"
	EventSample         = "sample"
)

// Hub fans events out to in-process subscribers.
//
// Publishing never blocks: a subscriber whose buffer is full misses
// the event. Event IDs are monotonic, so a subscriber can detect the
// gap.
type Hub struct {
	mu      sync.RWMutex
	subs    map[int]chan Event
	nextSub int
	closed  bool

	buffer int

	nextID  int64
	dropped uint64
}

// NewHub creates a hub; buffer is the per-subscriber channel depth.
func NewHub(buffer int) *Hub {
	return &Hub{
		subs:   make(map[int]chan Event),
		buffer: buffer,
	}
}

// Subscribe registers a subscriber and returns its event channel plus
// a cancel function. The channel is closed on cancel or hub Close.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}

	id := h.nextSub
	h.nextSub++
	ch := make(chan Event, h.buffer)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Publish assigns the event a monotonic ID and delivers it to every
// subscriber with room.
func (h *Hub) Publish(ev Event) {
	ev.ID = atomic.AddInt64(&h.nextID, 1)

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			atomic.AddUint64(&h.dropped, 1)
		}
	}
}

// Dropped returns how many events were missed by slow subscribers.
func (h *Hub) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}

// Close closes every subscriber channel. Subsequent publishes are
// discarded.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
