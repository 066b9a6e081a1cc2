package api

import (
	"pos/api/catalog"
	"pos/api/health"
	"pos/api/middleware"
	"pos/api/purchase"
	"pos/config"
	"pos/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Router Route configuration
type Router struct {
	engine             *gin.Engine
	config             *config.Config
	metrics            *metrics.Metrics
	healthController   *health.Controller
	catalogController  *catalog.Controller
	purchaseController *purchase.Controller
}

// NewRouter metrics 为 nil 时不挂载 /metrics，也不统计请求
func NewRouter(
	cfg *config.Config,
	m *metrics.Metrics,
	healthController *health.Controller,
	catalogController *catalog.Controller,
	purchaseController *purchase.Controller,
) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// 顺序很重要：先有请求 ID，恢复中间件才能带上它
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.MetricsMiddleware(m))
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit))

	return &Router{
		engine:             engine,
		config:             cfg,
		metrics:            m,
		healthController:   healthController,
		catalogController:  catalogController,
		purchaseController: purchaseController,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	r.healthController.RegisterRoutes(r.engine)

	apiGroup := r.engine.Group("/api")
	{
		r.catalogController.RegisterRoutes(apiGroup)
		r.purchaseController.RegisterRoutes(apiGroup)
	}

	if r.metrics != nil && r.config.Metrics.Enabled {
		r.engine.GET(r.config.Metrics.Path, gin.WrapH(r.metrics.Handler()))
	}
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
