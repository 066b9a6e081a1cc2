package po

import (
	"encoding/json"
	"time"

	"pos/domain/shared"

	"github.com/google/uuid"
)

// OutboxEventPO Outbox event persistence object
// Written in the same transaction as the aggregate change, relayed later by the outbox worker
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"`                // e.g., "purchase.recorded", "product.updated"
	Payload     string    `gorm:"type:text;not null"`                     // JSON serialized event data
	Status      string    `gorm:"size:20;default:PENDING;not null;index"` // PENDING, PROCESSING, PUBLISHED, FAILED
	RetryCount  int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// EventStatus Outbox event status enum
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// FromDomainEvent Convert domain event to outbox persistence object
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	payload, err := serializeEventToJSON(event)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &OutboxEventPO{
		ID:          uuid.New().String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     payload,
		Status:      string(EventStatusPending),
		RetryCount:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// serializeEventToJSON envelope fields plus the event's own payload, if it has one
func serializeEventToJSON(event shared.DomainEvent) (string, error) {
	eventData := map[string]any{
		"event_name":   event.EventName(),
		"aggregate_id": event.GetAggregateID(),
		"occurred_on":  event.OccurredOn(),
	}

	if provider, ok := event.(shared.PayloadProvider); ok {
		for k, v := range provider.Payload() {
			if _, reserved := eventData[k]; !reserved {
				eventData[k] = v
			}
		}
	}

	data, err := json.Marshal(eventData)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// ToEventData Extract event data from outbox PO (for debugging/testing)
func (po *OutboxEventPO) ToEventData() (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(po.Payload), &data); err != nil {
		return nil, err
	}
	return data, nil
}
