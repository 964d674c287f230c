package service

import "sync"

// Event actions.
const (
	ActionCreated      = "created"
	ActionUpdated      = "updated"
	ActionDeleted      = "deleted"
	ActionSweepStarted = "sweep-started"
	ActionSweepStopped = "sweep-stopped"
	ActionSegment      = "segment"
)

// Event is a ring mutation or a segment feature-state change. For
// ActionSegment events, Segment and Active carry the feature state the
// renderer should apply; for the other actions they are zero.
type Event struct {
	Ring    string
	Action  string
	Segment int
	Active  bool
}

// EventBus is a simple fan-out pub/sub for ring and sweep events.
type EventBus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[chan Event]struct{})}
}

// Publish sends an event to all subscribers (non-blocking).
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			// subscriber too slow, skip
		}
	}
}

// Subscribe returns a buffered channel that receives events. Sweep
// segment events arrive at animation rate, so the buffer is sized to ride
// out short consumer stalls.
func (b *EventBus) Subscribe() chan Event {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *EventBus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}

// DefaultBus is the package-level event bus.
var DefaultBus = NewEventBus()
