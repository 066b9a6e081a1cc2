package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pos/api/catalog"
	"pos/api/health"
	"pos/api/purchase"
	catalogapp "pos/application/catalog"
	purchaseapp "pos/application/purchase"
	"pos/config"
	"pos/domain/product"
	"pos/infrastructure/persistence/mocks"
	"pos/pkg/metrics"
)

type upDB struct{}

func (upDB) PingContext(ctx context.Context) error { return nil }

func newRouter(t *testing.T, metricsEnabled bool) *Router {
	t.Helper()
	cfg := &config.Config{
		App:     config.AppConfig{Name: "POS API", Version: "1.0.0", Env: "test"},
		CORS:    config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
		Metrics: config.MetricsConfig{Enabled: metricsEnabled, Path: "/metrics"},
	}
	m := metrics.New()

	products := mocks.NewMockProductRepository()
	products.Seed(product.ReconstructionDTO{ID: 1, Code: "4589901001018", Name: "ボールペン", Price: 180})
	transactions := mocks.NewMockTransactionRepository()
	uow := mocks.NewMockUnitOfWork(nil, products, transactions)
	factory := mocks.NewMockUnitOfWorkFactory(uow)

	r := NewRouter(cfg, m,
		health.NewController(cfg, upDB{}),
		catalog.NewController(catalogapp.NewApplicationService(products, factory)),
		purchase.NewController(purchaseapp.NewApplicationService(transactions, factory, purchaseapp.WithMetrics(m))),
	)
	r.SetupRoutes()
	return r
}

func serve(r *Router, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.GetEngine().ServeHTTP(w, req)
	return w
}

func TestRouterWiring(t *testing.T) {
	r := newRouter(t, true)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/products/code/4589901001018", "", http.StatusOK},
		{http.MethodGet, "/api/products/1", "", http.StatusOK},
		{http.MethodPost, "/api/purchase", `{"items":[{"product_id":1,"code":"4589901001018","name":"ボールペン","price":180}]}`, http.StatusCreated},
		{http.MethodGet, "/api/transactions/1", "", http.StatusOK},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := serve(r, tt.method, tt.path, tt.body)
		if w.Code != tt.want {
			t.Errorf("%s %s = %d, want %d (%s)", tt.method, tt.path, w.Code, tt.want, w.Body.String())
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Errorf("%s %s: missing X-Request-ID", tt.method, tt.path)
		}
	}

	w := serve(r, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics = %d", w.Code)
	}
	for _, series := range []string{`pos_purchases_total{result="recorded"} 1`, `pos_http_requests_total{handler="/api/purchase",method="POST",status="201"} 1`} {
		if !strings.Contains(w.Body.String(), series) {
			t.Errorf("metrics output missing %s", series)
		}
	}
}

func TestMetricsEndpointDisabled(t *testing.T) {
	r := newRouter(t, false)
	if w := serve(r, http.MethodGet, "/metrics", ""); w.Code != http.StatusNotFound {
		t.Errorf("/metrics = %d, want 404 when disabled", w.Code)
	}
}
