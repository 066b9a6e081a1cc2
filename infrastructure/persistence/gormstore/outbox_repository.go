package gormstore

import (
	"context"
	"fmt"
	"time"

	"pos/domain/shared"
	"pos/infrastructure/persistence"
	"pos/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

// OutboxRepository GORM implementation of the transactional outbox
type OutboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository Create outbox repository
func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OutboxRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// SaveEvent Save domain event to outbox table
// Inside UoW.Execute() the event joins the business transaction
func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return fmt.Errorf("invalid domain event: %w", err)
	}

	outboxPO, err := po.FromDomainEvent(event)
	if err != nil {
		return fmt.Errorf("failed to convert domain event: %w", err)
	}

	if err := r.getDB(ctx).Create(outboxPO).Error; err != nil {
		return fmt.Errorf("failed to save event to outbox: %w", err)
	}
	return nil
}

// GetPendingEvents oldest pending events first
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	var events []*po.OutboxEventPO
	err := r.getDB(ctx).
		Where("status = ?", string(po.EventStatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

// MarkEventProcessing claims a pending event; a second worker racing for the same row gets an error
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", eventID, string(po.EventStatusPending)).
		Updates(map[string]any{
			"status":     string(po.EventStatusProcessing),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found or already being processed: %s", eventID)
	}
	return nil
}

// MarkEventPublished Mark event as successfully published
func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"status":     string(po.EventStatusPublished),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found: %s", eventID)
	}
	return nil
}

// MarkEventFailed increments the retry count; the event goes back to PENDING
// until maxRetries is reached, then stays FAILED. Returns the new status.
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) (po.EventStatus, error) {
	db := r.getDB(ctx)

	var event po.OutboxEventPO
	if err := db.Where("id = ?", eventID).Take(&event).Error; err != nil {
		return "", fmt.Errorf("failed to find event: %w", err)
	}

	newRetryCount := event.RetryCount + 1
	newStatus := po.EventStatusFailed
	if newRetryCount < maxRetries {
		newStatus = po.EventStatusPending
	}

	err := db.Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"status":      string(newStatus),
			"retry_count": newRetryCount,
			"updated_at":  time.Now(),
		}).Error
	if err != nil {
		return "", err
	}
	return newStatus, nil
}

// ReleaseStale puts events stuck in PROCESSING (worker crashed mid-publish) back to PENDING
func (r *OutboxRepository) ReleaseStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("status = ? AND updated_at < ?", string(po.EventStatusProcessing), time.Now().Add(-olderThan)).
		Updates(map[string]any{
			"status":     string(po.EventStatusPending),
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// CountByStatus number of events per status, for the outbox backlog gauge
func (r *OutboxRepository) CountByStatus(ctx context.Context) (map[po.EventStatus]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[po.EventStatus]int64, len(rows))
	for _, row := range rows {
		counts[po.EventStatus(row.Status)] = row.Total
	}
	return counts, nil
}

// Compile-time interface implementation check
var _ shared.OutboxRepository = (*OutboxRepository)(nil)
