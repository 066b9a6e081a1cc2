package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pos/api/response"
	"pos/config"
	"pos/infrastructure/persistence"
	"pos/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(engine *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequestIDMiddleware(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestIDMiddleware())
	var fromCtx string
	engine.GET("/ping", func(c *gin.Context) {
		fromCtx = persistence.RequestIDFromContext(c.Request.Context())
		c.String(http.StatusOK, response.GetRequestID(c))
	})

	w := do(engine, http.MethodGet, "/ping", map[string]string{RequestIDHeader: "abc-123"})
	if w.Header().Get(RequestIDHeader) != "abc-123" || w.Body.String() != "abc-123" || fromCtx != "abc-123" {
		t.Errorf("propagated id: header=%q body=%q ctx=%q", w.Header().Get(RequestIDHeader), w.Body.String(), fromCtx)
	}

	w = do(engine, http.MethodGet, "/ping", nil)
	if generated := w.Header().Get(RequestIDHeader); len(generated) != 36 || generated != fromCtx {
		t.Errorf("generated id = %q, ctx = %q", generated, fromCtx)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestIDMiddleware(), RecoveryMiddleware())
	engine.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := do(engine, http.MethodGet, "/boom", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, `"INTERNAL_ERROR"`) || strings.Contains(body, "boom") {
		t.Errorf("body = %s", body)
	}
}

func TestCORSMiddleware(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
		FrontendURL:      "https://pos.example.com/",
	}
	engine := gin.New()
	engine.Use(CORSMiddleware(cfg))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		origin string
		want   string
	}{
		{"http://localhost:3000", "http://localhost:3000"},
		{"https://pos.example.com", "https://pos.example.com"},
		{"https://evil.example.com", ""},
	}
	for _, tt := range tests {
		w := do(engine, http.MethodGet, "/", map[string]string{"Origin": tt.origin})
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: allow-origin = %q, want %q", tt.origin, got, tt.want)
		}
	}

	w := do(engine, http.MethodOptions, "/", map[string]string{"Origin": "http://localhost:3000"})
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Max-Age") != "600" {
		t.Errorf("preflight status = %d, max-age = %q", w.Code, w.Header().Get("Access-Control-Max-Age"))
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	engine := gin.New()
	engine.Use(RateLimitMiddleware(&config.RateLimitConfig{Enabled: true, Rate: 0.001, Burst: 2}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := do(engine, http.MethodGet, "/", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, w.Code)
		}
	}
	w := do(engine, http.MethodGet, "/", nil)
	if w.Code != http.StatusTooManyRequests || !strings.Contains(w.Body.String(), "TOO_MANY_REQUESTS") {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	engine := gin.New()
	engine.Use(MetricsMiddleware(m))
	engine.GET("/api/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(engine, http.MethodGet, "/api/products/1", nil)
	do(engine, http.MethodGet, "/api/products/2", nil)
	do(engine, http.MethodGet, "/nowhere", nil)

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("/api/products/:id", "GET", "200")); got != 2 {
		t.Errorf("route counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Errorf("unmatched counter = %v, want 1", got)
	}
}
