package sentinels

import "time"

// EventType classifies a registry lifecycle event.
type EventType string

const (
	// EventCreated fires when a registry constructs a new sentinel.
	EventCreated EventType = "created"
	// EventReclaimed fires after an unreferenced sentinel's cache entry is
	// removed. By the time the event is observed the instance is gone.
	EventReclaimed EventType = "reclaimed"
	// EventPinned fires when a sentinel is pinned with a strong reference.
	EventPinned EventType = "pinned"
	// EventUnpinned fires when a pin is released.
	EventUnpinned EventType = "unpinned"
)

// Event describes one registry lifecycle transition. Key carries the rendered
// key rather than the key value so that holding an Event never keeps anything
// alive.
type Event struct {
	Type     EventType
	Registry string
	Key      string
	Time     time.Time
}
