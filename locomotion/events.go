package locomotion

// EventKind identifies a locomotion event.
type EventKind string

const (
	EventStateChanged EventKind = "state_changed"
	EventJumped       EventKind = "jumped"
	EventSlideJumped  EventKind = "slide_jumped"
	EventJumpBuffered EventKind = "jump_buffered"
	EventJumpCut      EventKind = "jump_cut"
	EventLanded       EventKind = "landed"
	EventSlideStarted EventKind = "slide_started"
	EventSlideEnded   EventKind = "slide_ended"
)

// Event is emitted by Character.Tick for animation, audio and telemetry.
// State and Previous are only meaningful for EventStateChanged.
type Event struct {
	Kind     EventKind `json:"kind"`
	Tick     uint64    `json:"tick"`
	State    State     `json:"state"`
	Previous State     `json:"previous"`
}

// maxQueuedEvents bounds an undrained queue; the oldest events are dropped.
const maxQueuedEvents = 256

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	if len(q.items) >= maxQueuedEvents {
		q.items = append(q.items[:0], q.items[1:]...)
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
