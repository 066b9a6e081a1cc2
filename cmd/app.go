package cmd

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"pos/api"
	"pos/config"
	"pos/infrastructure/messaging"
	"pos/infrastructure/persistence/gormstore"
	"pos/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用程序
type App struct {
	config    *config.Config
	router    *api.Router
	server    *http.Server
	db        *gorm.DB
	ownsDB    bool
	worker    *gormstore.OutboxWorker
	publisher messaging.Publisher
}

// Handler 用于测试
func (a *App) Handler() http.Handler {
	return a.router.GetEngine()
}

// Run 阻塞直到 ctx 取消或服务器出错，然后优雅关闭
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if a.worker != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Outbox worker exited", zap.Error(err))
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening",
			zap.String("addr", a.server.Addr),
			zap.String("health", "/health"))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server")
	case runErr = <-serverErr:
		logger.Error("Server failed", zap.Error(runErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server shutdown incomplete", zap.Error(err))
	}

	cancel()
	wg.Wait()
	a.close()

	logger.Info("Server stopped")
	return runErr
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			logger.Warn("Failed to close publisher", zap.Error(err))
		}
	}
	if a.ownsDB && a.db != nil {
		gormstore.Close(a.db)
	}
}
