package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Hub is an in-process Sink that fans events out to subscribers. The UI
// layer subscribes; the engine stays framework-agnostic and only ever sees
// the Sink interface.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
	log    *zap.Logger

	// recent keeps the latest events for late subscribers (poll-style UIs).
	recent []Event
}

const recentCapacity = 50

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{subs: make(map[int]chan Event), log: log}
}

// Emit delivers the event to every subscriber. Subscribers that are not
// keeping up have the event dropped rather than blocking the engine.
func (h *Hub) Emit(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.recent = append(h.recent, event)
	if len(h.recent) > recentCapacity {
		h.recent = h.recent[len(h.recent)-recentCapacity:]
	}

	for id, ch := range h.subs {
		select {
		case ch <- event:
		default:
			h.log.Warn("Dropping event for slow subscriber", zap.Int("subscriber", id), zap.String("kind", string(event.Kind)))
		}
	}
}

// Subscribe registers a new subscriber and returns its channel together
// with a cancel function that must be called when done.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, 16)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Recent returns a copy of the most recent events, oldest first.
func (h *Hub) Recent() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Event, len(h.recent))
	copy(out, h.recent)
	return out
}
