package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pos/config"
	"pos/infrastructure/messaging"

	"github.com/segmentio/kafka-go"
)

var ErrDisabled = errors.New("kafka disabled")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher relays outbox events to one topic, keyed by aggregate id so that
// events of the same transaction or product stay ordered within a partition.
type Publisher struct {
	writer       messageWriter
	writeTimeout time.Duration
}

func NewPublisher(cfg config.KafkaConfig) (*Publisher, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, ErrDisabled
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
	}
	return newPublisher(writer, cfg.WriteTimeout), nil
}

func newPublisher(w messageWriter, writeTimeout time.Duration) *Publisher {
	return &Publisher{writer: w, writeTimeout: writeTimeout}
}

func (p *Publisher) Publish(ctx context.Context, msg messaging.Message) error {
	if p.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
	}
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.AggregateID),
		Value: []byte(msg.Payload),
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(msg.ID)},
			{Key: "event_type", Value: []byte(msg.EventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka publish %s: %w", msg.EventType, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ messaging.Publisher = (*Publisher)(nil)
