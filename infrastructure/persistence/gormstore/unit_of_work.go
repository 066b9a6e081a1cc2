package gormstore

import (
	"context"
	"database/sql"
	"fmt"

	"pos/domain/shared"
	"pos/infrastructure/persistence"
	"pos/infrastructure/persistence/retry"
	"pos/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWork implements the Unit of Work pattern with GORM
// It manages database transactions and collects domain events from aggregates
type UnitOfWork struct {
	db               *gorm.DB
	aggregates       []shared.AggregateRoot
	outboxRepository *OutboxRepository
	retryConfig      retry.Config
	txOptions        *sql.TxOptions
}

// NewUnitOfWork creates a new UnitOfWork instance
// Retry is off unless SetRetryConfig enables it.
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db:               db,
		aggregates:       make([]shared.AggregateRoot, 0),
		outboxRepository: NewOutboxRepository(db),
		retryConfig:      retry.Config{Enabled: false},
	}
}

// SetRetryConfig updates the retry configuration for this UnitOfWork
func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

// SetTxOptions sets the isolation level used by Begin; nil keeps the driver default
func (u *UnitOfWork) SetTxOptions(opts *sql.TxOptions) {
	u.txOptions = opts
}

// Execute runs the business logic inside a database transaction
// It:
// 1. Begins a transaction
// 2. Injects the transaction into context for repositories to use
// 3. Executes the business function
// 4. Saves events of registered aggregates to the outbox in the same transaction
// 5. Commits on success, rolls back on error
// 6. Retries the whole attempt on transient errors when retry is enabled
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	executeOnce := func(ctx context.Context) error {
		// Reset aggregates for this attempt
		u.aggregates = make([]shared.AggregateRoot, 0)

		var tx *gorm.DB
		if u.txOptions != nil {
			tx = u.db.WithContext(ctx).Begin(u.txOptions)
		} else {
			tx = u.db.WithContext(ctx).Begin()
		}
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}

		txCtx := persistence.ContextWithTx(ctx, tx)

		if err := fn(txCtx); err != nil {
			u.rollback(ctx, tx)
			return err
		}

		for _, agg := range u.aggregates {
			for _, event := range agg.PullEvents() {
				if err := u.outboxRepository.SaveEvent(txCtx, event); err != nil {
					u.rollback(ctx, tx)
					return fmt.Errorf("failed to save event to outbox: %w", err)
				}
			}
		}

		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}

		return nil
	}

	return retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce)
}

func (u *UnitOfWork) rollback(ctx context.Context, tx *gorm.DB) {
	if err := tx.Rollback().Error; err != nil {
		logger.Ctx(ctx).Error("Transaction rollback failed", zap.Error(err))
	}
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterDirty registers a modified aggregate root for event collection
func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterRemoved registers a deleted aggregate root for event collection
func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// Compile-time check that UnitOfWork implements shared.UnitOfWork
var _ shared.UnitOfWork = (*UnitOfWork)(nil)
