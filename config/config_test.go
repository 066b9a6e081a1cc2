package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load without a config file should use defaults: %v", err)
	}

	if cfg.Server.Port != "8000" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if cfg.Database.Retry.Enabled {
		t.Error("purchase retries must be off by default")
	}
	if cfg.Purchase.DefaultEmployeeCode != "999999999" || cfg.Purchase.DefaultStoreCode != "30" || cfg.Purchase.DefaultTerminalCode != "90" {
		t.Errorf("unexpected purchase defaults: %+v", cfg.Purchase)
	}
	if cfg.Worker.PollInterval != 2*time.Second {
		t.Errorf("poll interval = %v", cfg.Worker.PollInterval)
	}
	if cfg.Kafka.Enabled() {
		t.Error("kafka should be disabled without brokers")
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
app:
  env: production
database:
  driver: sqlite
  sqlite_path: /tmp/pos-test.db
kafka:
  brokers: ["kafka-1:9092"]
  topic: pos.events
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("POS_SERVER_PORT", "9090")
	t.Setenv("DATABASE_URL", "file:/tmp/override.db")
	t.Setenv("FRONTEND_URL", "https://pos.example.com/")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.IsProduction() {
		t.Errorf("env = %q", cfg.App.Env)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("POS_SERVER_PORT not applied: %q", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.URL != "file:/tmp/override.db" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if !cfg.Kafka.Enabled() {
		t.Error("kafka should be enabled")
	}

	origins := cfg.CORS.Origins()
	if origins[len(origins)-1] != "https://pos.example.com" {
		t.Errorf("frontend url not appended: %v", origins)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: "8000"}, Database: DatabaseConfig{Driver: "oracle"}}
	if err := cfg.Validate(); err == nil {
		t.Error("unsupported driver should fail validation")
	}

	cfg.Database.Driver = "postgres"
	cfg.Kafka = KafkaConfig{Brokers: []string{"k:9092"}}
	if err := cfg.Validate(); err == nil {
		t.Error("kafka without topic should fail validation")
	}
}
