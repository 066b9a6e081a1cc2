package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pos/config"
	"pos/infrastructure/messaging"
	"pos/infrastructure/persistence/gormstore"
	"pos/infrastructure/persistence/gormstore/po"
)

type capturePublisher struct {
	messages []messaging.Message
}

func (p *capturePublisher) Publish(ctx context.Context, msg messaging.Message) error {
	p.messages = append(p.messages, msg)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:    config.AppConfig{Name: "POS API", Version: "1.0.0", Env: "test"},
		Server: config.ServerConfig{Port: "0", ShutdownTimeout: time.Second},
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			SQLitePath:   filepath.Join(t.TempDir(), "pos.db"),
			LogLevel:     "silent",
			AutoMigrate:  true,
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Purchase: config.PurchaseConfig{DefaultStoreCode: "12"},
		Worker:   config.WorkerConfig{Enabled: true, PollInterval: time.Hour, BatchSize: 10, MaxRetries: 3},
		Metrics:  config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func TestBuild_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	publisher := &capturePublisher{}

	app, err := NewBuilder(cfg).WithPublisher(publisher).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(app.close)

	handler := app.Handler()
	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	if w := do(http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("/health = %d %s", w.Code, w.Body.String())
	}
	if w := do(http.MethodPost, "/api/products", `{"code":"4589901001018","name":"テクワン・消せるボールペン 黒","price":180}`); w.Code != http.StatusCreated {
		t.Fatalf("create product = %d %s", w.Code, w.Body.String())
	}
	w := do(http.MethodPost, "/api/purchase", `{"items":[{"product_id":1,"code":"4589901001018","name":"テクワン・消せるボールペン 黒","price":180}]}`)
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"total_amount":180`) {
		t.Fatalf("purchase = %d %s", w.Code, w.Body.String())
	}

	var header po.TransactionPO
	if err := app.db.First(&header).Error; err != nil {
		t.Fatal(err)
	}
	if header.StoreCd != "12" || header.PosNo != "90" || header.EmpCd != "999999999" {
		t.Errorf("configured terminal defaults not applied: %+v", header)
	}

	// 中继把两条事件按写入顺序发出
	n, err := app.worker.ProcessBatch(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("ProcessBatch = %d, %v", n, err)
	}
	if publisher.messages[0].EventType != "product.registered" || publisher.messages[1].EventType != "purchase.recorded" {
		t.Errorf("published = %+v", publisher.messages)
	}

	if w := do(http.MethodGet, "/metrics", ""); !strings.Contains(w.Body.String(), `pos_purchases_total{result="recorded"} 1`) {
		t.Error("purchase metric not exported")
	}
}

func TestBuild_WithInjectedDB(t *testing.T) {
	cfg := testConfig(t)
	cfg.Worker.Enabled = false

	store := gormstore.NewConfig(cfg.Database)
	db, err := store.Connect()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { gormstore.Close(db) })
	if err := gormstore.AutoMigrate(db); err != nil {
		t.Fatal(err)
	}

	app, err := NewBuilder(cfg).WithDB(db).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	app.close()

	if app.worker != nil {
		t.Error("worker built although disabled")
	}
	if err := gormstore.Ping(context.Background(), db); err != nil {
		t.Errorf("injected database closed by app: %v", err)
	}
}

func TestRun_GracefulShutdown(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Port = "0"

	app, err := NewBuilder(cfg).WithPublisher(&capturePublisher{}).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
