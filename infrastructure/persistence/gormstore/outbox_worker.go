package gormstore

import (
	"context"
	"fmt"
	"time"

	"pos/infrastructure/messaging"
	"pos/infrastructure/persistence/gormstore/po"
	"pos/pkg/logger"
	"pos/pkg/metrics"

	"go.uber.org/zap"
)

// OutboxWorker polls the outbox table and relays pending events to the publisher
type OutboxWorker struct {
	repository   *OutboxRepository
	publisher    messaging.Publisher
	metrics      *metrics.Metrics
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
}

func NewOutboxWorker(
	repository *OutboxRepository,
	publisher messaging.Publisher,
	m *metrics.Metrics,
	pollInterval time.Duration,
	batchSize int,
	maxRetries int,
) (*OutboxWorker, error) {
	if repository == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if maxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}

	return &OutboxWorker{
		repository:   repository,
		publisher:    publisher,
		metrics:      m,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		maxRetries:   maxRetries,
	}, nil
}

// Run blocks until ctx is done
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	logger.Info("Outbox worker started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("batch_size", w.batchSize),
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Outbox worker stopped")
			return ctx.Err()
		case <-ticker.C:
			// 处理中途崩溃会留下 PROCESSING 行，超过 10 个轮询周期视为卡死
			if n, err := w.repository.ReleaseStale(ctx, 10*w.pollInterval); err != nil {
				logger.Warn("Failed to release stale outbox events", zap.Error(err))
			} else if n > 0 {
				logger.Warn("Released stale outbox events", zap.Int64("count", n))
			}
			if _, err := w.ProcessBatch(ctx); err != nil {
				logger.Error("Outbox batch processing failed", zap.Error(err))
			}
			w.reportBacklog(ctx)
		}
	}
}

// ProcessBatch relays one batch and returns how many events were published
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	events, err := w.repository.GetPendingEvents(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range events {
		if err := w.repository.MarkEventProcessing(ctx, event.ID); err != nil {
			logger.Warn("Skip outbox event due to lock contention",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		msg := messaging.Message{
			ID:          event.ID,
			AggregateID: event.AggregateID,
			EventType:   event.EventType,
			Payload:     event.Payload,
		}
		if err := w.publisher.Publish(ctx, msg); err != nil {
			status, failErr := w.repository.MarkEventFailed(ctx, event.ID, w.maxRetries)
			if failErr != nil {
				logger.Error("Failed to mark outbox event as failed",
					zap.String("event_id", event.ID),
					zap.Error(failErr),
				)
				continue
			}
			result := metrics.OutboxRetrying
			if status == po.EventStatusFailed {
				result = metrics.OutboxFailed
			}
			w.metrics.ObserveOutbox(event.EventType, result)
			logger.Warn("Outbox publish failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("status", string(status)),
				zap.Error(err),
			)
			continue
		}

		if err := w.repository.MarkEventPublished(ctx, event.ID); err != nil {
			logger.Error("Failed to mark outbox event as published",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		w.metrics.ObserveOutbox(event.EventType, metrics.OutboxPublished)
		published++
	}

	return published, nil
}

func (w *OutboxWorker) reportBacklog(ctx context.Context) {
	if w.metrics == nil {
		return
	}
	counts, err := w.repository.CountByStatus(ctx)
	if err != nil {
		logger.Warn("Failed to count outbox events", zap.Error(err))
		return
	}
	for _, status := range []po.EventStatus{po.EventStatusPending, po.EventStatusProcessing, po.EventStatusPublished, po.EventStatusFailed} {
		w.metrics.SetOutboxBacklog(string(status), counts[status])
	}
}
