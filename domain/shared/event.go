package shared

import (
	"fmt"
	"time"
)

// DomainEvent 领域事件
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string
}

// PayloadProvider is implemented by events that carry business data beyond
// the name, aggregate id and timestamp. The outbox serializes the returned
// map into the event payload.
type PayloadProvider interface {
	Payload() map[string]any
}

func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}

	if event.GetAggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}

	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}

	return nil
}
