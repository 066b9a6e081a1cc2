package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"pos/config"

	"github.com/gin-gonic/gin"
)

// Pinger *sql.DB 满足该接口
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Controller Health check controller
type Controller struct {
	config      *config.Config
	db          Pinger
	startTime   time.Time
	pingTimeout time.Duration
}

// NewController db 可以为 nil（未连接数据库时 /health 返回 unhealthy）
func NewController(cfg *config.Config, db Pinger) *Controller {
	return &Controller{
		config:      cfg,
		db:          db,
		startTime:   time.Now(),
		pingTimeout: 2 * time.Second,
	}
}

// RegisterRoutes Register health check routes
func (c *Controller) RegisterRoutes(router gin.IRoutes) {
	router.GET("/", c.Root)
	router.GET("/health", c.Health)
	router.GET("/health/live", c.Liveness)
	router.GET("/health/ready", c.Readiness)
}

// HealthResponse Health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Database  string           `json:"database"`
	Version   string           `json:"version"`
	Uptime    string           `json:"uptime"`
	Timestamp string           `json:"timestamp"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check Check item
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo System information
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
}

// Root API 入口，列出主要端点
func (c *Controller) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "POS API へようこそ",
		"name":    c.config.App.Name,
		"version": c.config.App.Version,
		"env":     c.config.App.Env,
		"endpoints": gin.H{
			"health":            "/health",
			"product_by_code":   "/api/products/code/{code}",
			"products":          "/api/products",
			"purchase":          "/api/purchase",
			"transactions":      "/api/transactions",
			"transaction_by_id": "/api/transactions/{id}",
		},
	})
}

// Health Complete health check
func (c *Controller) Health(ctx *gin.Context) {
	dbCheck := c.checkDatabase(ctx.Request.Context())

	response := HealthResponse{
		Status:    "healthy",
		Database:  "connected",
		Version:   c.config.App.Version,
		Uptime:    time.Since(c.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    map[string]Check{"database": dbCheck},
	}
	if dbCheck.Status != "healthy" {
		response.Status = "unhealthy"
		response.Database = "disconnected"
	}

	// 仅开发环境暴露运行时信息
	if c.config.IsDevelopment() {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)
		response.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     memStats.Alloc,
		}
	}

	statusCode := http.StatusOK
	if response.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	ctx.JSON(statusCode, response)
}

// Liveness Kubernetes liveness probe
func (c *Controller) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// Readiness Kubernetes readiness probe
func (c *Controller) Readiness(ctx *gin.Context) {
	if check := c.checkDatabase(ctx.Request.Context()); check.Status != "healthy" {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not_ready",
			"message": "database not available",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

func (c *Controller) checkDatabase(ctx context.Context) Check {
	if c.db == nil {
		return Check{
			Status:  "unhealthy",
			Message: "database connection not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.pingTimeout)
	defer cancel()

	start := time.Now()
	err := c.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		// 驱动错误只进日志，不返回给调用方
		return Check{
			Status:  "unhealthy",
			Message: "ping failed",
			Latency: latency.String(),
		}
	}

	return Check{
		Status:  "healthy",
		Latency: latency.String(),
	}
}
