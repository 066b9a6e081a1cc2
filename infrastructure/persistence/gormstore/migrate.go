package gormstore

import (
	"fmt"

	"pos/infrastructure/persistence/gormstore/po"
	"pos/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models in dependency order: parents before the details that reference them
func Models() []any {
	return []any{
		&po.ProductPO{},
		&po.TransactionPO{},
		&po.TransactionDetailPO{},
		&po.OutboxEventPO{},
	}
}

// AutoMigrate creates or updates the schema
func AutoMigrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto migrate %T: %w", model, err)
		}
	}
	logger.Info("Database schema migrated", zap.Int("tables", len(Models())))
	return nil
}
