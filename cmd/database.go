package cmd

import (
	"context"
	"fmt"

	"pos/config"
	"pos/infrastructure/messaging"
	"pos/infrastructure/messaging/kafka"
	"pos/infrastructure/persistence/gormstore"
	"pos/infrastructure/persistence/retry"
	"pos/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OpenDatabase 连接数据库（启动期按 connect_retry 重试），按配置执行迁移
func OpenDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	store := gormstore.NewConfig(cfg.Database)
	db, err := store.ConnectWithRetry(ctx, retry.FromAppConfig(cfg.Database.ConnectRetry))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Database.Driver, err)
	}

	if cfg.Database.AutoMigrate {
		if err := gormstore.AutoMigrate(db); err != nil {
			gormstore.Close(db)
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}
	return db, nil
}

// NewPublisher 配置了 broker 时发往 Kafka，否则写日志
func NewPublisher(cfg *config.Config) (messaging.Publisher, error) {
	if !cfg.Kafka.Enabled() {
		logger.Info("No kafka brokers configured; outbox events go to the log")
		return &messaging.LoggingPublisher{}, nil
	}
	p, err := kafka.NewPublisher(cfg.Kafka)
	if err != nil {
		return nil, err
	}
	logger.Info("Kafka publisher ready",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
	)
	return p, nil
}
