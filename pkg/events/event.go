package events

import "time"

// Event is the contract for messages flowing over the in-process bus.
type Event interface {
	// EventType returns the unique code for this event (e.g. "EMBED_DOCUMENT_CONTENT").
	EventType() string

	// Payload returns the data to serialize as the message body.
	Payload() interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a plain implementation suitable for most publishers.
type BaseEvent struct {
	Type       string
	Data       interface{}
	OccurredAt time.Time
}

func NewEvent(eventType string, data interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
