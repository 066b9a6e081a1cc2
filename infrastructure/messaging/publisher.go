/*
Package messaging 定义 outbox 中继使用的发布接口。
*/
package messaging

import (
	"context"

	"pos/pkg/logger"

	"go.uber.org/zap"
)

// Message one outbox row on its way to the broker
type Message struct {
	ID          string
	AggregateID string
	EventType   string
	Payload     string
}

// Publisher delivers outbox messages; a returned error leaves the event for a later retry
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// LoggingPublisher writes events to the log, used when no broker is configured
type LoggingPublisher struct{}

func (p *LoggingPublisher) Publish(ctx context.Context, msg Message) error {
	logger.Ctx(ctx).Info("Outbox event published",
		zap.String("event_id", msg.ID),
		zap.String("event_type", msg.EventType),
		zap.String("aggregate_id", msg.AggregateID),
		zap.String("payload", msg.Payload),
	)
	return nil
}

func (p *LoggingPublisher) Close() error { return nil }

var _ Publisher = (*LoggingPublisher)(nil)
