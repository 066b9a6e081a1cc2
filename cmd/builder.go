package cmd

import (
	"context"
	"fmt"
	"net/http"

	"pos/api"
	"pos/api/catalog"
	"pos/api/health"
	apipurchase "pos/api/purchase"
	catalogapp "pos/application/catalog"
	purchaseapp "pos/application/purchase"
	"pos/config"
	"pos/domain/purchase"
	"pos/infrastructure/messaging"
	"pos/infrastructure/persistence/gormstore"
	"pos/infrastructure/persistence/retry"
	"pos/pkg/logger"
	"pos/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppBuilder builds an App; tests inject their own database and publisher
type AppBuilder struct {
	cfg       *config.Config
	db        *gorm.DB
	publisher messaging.Publisher
}

func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithDB skips OpenDatabase; the caller keeps ownership of db
func (b *AppBuilder) WithDB(db *gorm.DB) *AppBuilder {
	b.db = db
	return b
}

// WithPublisher replaces the publisher chosen from config
func (b *AppBuilder) WithPublisher(p messaging.Publisher) *AppBuilder {
	b.publisher = p
	return b
}

// Build wires repositories, services, controllers and the HTTP server
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	logger.Info("Building application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("driver", b.cfg.Database.Driver))

	app := &App{config: b.cfg, db: b.db}
	if app.db == nil {
		db, err := OpenDatabase(ctx, b.cfg)
		if err != nil {
			return nil, err
		}
		app.db = db
		app.ownsDB = true
	}

	var m *metrics.Metrics
	if b.cfg.Metrics.Enabled {
		m = metrics.New()
	}

	uowFactory := gormstore.NewUnitOfWorkFactory(
		app.db,
		retry.FromAppConfig(b.cfg.Database.Retry),
		gormstore.NewConfig(b.cfg.Database).TxOptions(),
	)
	productRepo := gormstore.NewProductRepository(app.db)
	transactionRepo := gormstore.NewTransactionRepository(app.db)

	catalogService := catalogapp.NewApplicationService(productRepo, uowFactory)
	purchaseService := purchaseapp.NewApplicationService(transactionRepo, uowFactory,
		purchaseapp.WithDefaultTerminal(purchase.Terminal{
			EmployeeCode: b.cfg.Purchase.DefaultEmployeeCode,
			StoreCode:    b.cfg.Purchase.DefaultStoreCode,
			PosNo:        b.cfg.Purchase.DefaultTerminalCode,
		}),
		purchaseapp.WithMetrics(m),
	)

	sqlDB, err := app.db.DB()
	if err != nil {
		app.close()
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}

	router := api.NewRouter(b.cfg, m,
		health.NewController(b.cfg, sqlDB),
		catalog.NewController(catalogService),
		apipurchase.NewController(purchaseService),
	)
	router.SetupRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	// 进程内中继；也可以单独运行 cmd/worker
	if b.cfg.Worker.Enabled {
		publisher := b.publisher
		if publisher == nil {
			if publisher, err = NewPublisher(b.cfg); err != nil {
				app.close()
				return nil, err
			}
		}
		worker, err := gormstore.NewOutboxWorker(
			gormstore.NewOutboxRepository(app.db),
			publisher,
			m,
			b.cfg.Worker.PollInterval,
			b.cfg.Worker.BatchSize,
			b.cfg.Worker.MaxRetries,
		)
		if err != nil {
			_ = publisher.Close()
			app.close()
			return nil, fmt.Errorf("create outbox worker: %w", err)
		}
		app.worker = worker
		app.publisher = publisher
	}

	return app, nil
}
