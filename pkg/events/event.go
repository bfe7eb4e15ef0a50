package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	AggregateType() string
	OccurredAt() time.Time
}

// BaseEvent provides a default implementation of DomainEvent. Its fields are
// exported so that embedding events serialise the envelope alongside their
// own payload.
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"event_type"`
	AggID     string    `json:"aggregate_id"`
	AggType   string    `json:"aggregate_type"`
	Timestamp time.Time `json:"occurred_at"`
}

// NewBaseEvent creates a new BaseEvent with a generated ID stamped at the given time.
func NewBaseEvent(eventType, aggregateID, aggregateType string, occurredAt time.Time) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		AggID:     aggregateID,
		AggType:   aggregateType,
		Timestamp: occurredAt.UTC(),
	}
}

// EventID returns the unique identifier for this event.
func (e BaseEvent) EventID() string {
	return e.ID
}

// EventType returns the type name of this event.
func (e BaseEvent) EventType() string {
	return e.Type
}

// AggregateID returns the identifier of the aggregate that produced this event.
func (e BaseEvent) AggregateID() string {
	return e.AggID
}

// AggregateType returns the type name of the aggregate that produced this event.
func (e BaseEvent) AggregateType() string {
	return e.AggType
}

// OccurredAt returns the time at which this event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}
