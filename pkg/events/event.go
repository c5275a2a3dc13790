package events

import "time"

// Topic is the in-process bus topic carrying all session events.
const Topic = "SESSION_EVENTS"

// Event types emitted over the session lifecycle.
const (
	TypeSessionStarted   = "SESSION_STARTED"
	TypeMessageAppended  = "SESSION_MESSAGE_APPENDED"
	TypeSessionCompleted = "SESSION_COMPLETED"
	TypeSessionFailed    = "SESSION_FAILED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_STARTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the single concrete implementation used by the engine.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// New builds an event stamped with the current time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}
