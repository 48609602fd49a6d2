package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadConfigDefaultsForSQLite(t *testing.T) {
	t.Setenv("QA_DATABASE__DRIVER", "sqlite")
	t.Setenv("QA_DATABASE__SQLITE_PATH", "/tmp/qa.db")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Fatalf("driver = %q, want %q", cfg.Database.Driver, DriverSQLite)
	}
	if cfg.Database.SQLitePath != "/tmp/qa.db" {
		t.Fatalf("sqlite path = %q, want %q", cfg.Database.SQLitePath, "/tmp/qa.db")
	}
	if cfg.Server.Port != "8000" {
		t.Fatalf("port = %q, want %q", cfg.Server.Port, "8000")
	}
	if cfg.Server.ReadTimeout != 10 {
		t.Fatalf("read timeout = %d, want 10", cfg.Server.ReadTimeout)
	}
	if cfg.Observability == nil {
		t.Fatal("expected observability defaults")
	}
	if cfg.Observability.ServiceName != ServiceName {
		t.Fatalf("service name = %q, want %q", cfg.Observability.ServiceName, ServiceName)
	}
	if cfg.Observability.Environment != "development" {
		t.Fatalf("environment = %q, want %q", cfg.Observability.Environment, "development")
	}
	if cfg.Observability.Logging.SlowQueryThreshold != 100*time.Millisecond {
		t.Fatalf("slow query threshold = %v, want 100ms", cfg.Observability.Logging.SlowQueryThreshold)
	}
	if cfg.Observability.NewRelicEnabled() {
		t.Fatal("expected new relic to be disabled without a license key")
	}
}

func TestLoadConfigNestedOverrides(t *testing.T) {
	t.Setenv("QA_PRIMARY__ENV", "production")
	t.Setenv("QA_SERVER__PORT", "9090")
	t.Setenv("QA_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("QA_DATABASE__HOST", "db")
	t.Setenv("QA_DATABASE__USER", "qa")
	t.Setenv("QA_DATABASE__NAME", "qa")
	t.Setenv("QA_OBSERVABILITY__LOGGING__LEVEL", "warn")
	t.Setenv("QA_OBSERVABILITY__HEALTH_CHECKS__TIMEOUT", "2s")
	t.Setenv("QA_OBSERVABILITY__HEALTH_CHECKS__CHECKS", "database")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("port = %q, want %q", cfg.Server.Port, "9090")
	}
	if origins := cfg.Server.CORSAllowedOrigins; len(origins) != 2 || origins[0] != "https://a.example" || origins[1] != "https://b.example" {
		t.Fatalf("cors origins = %q, want [https://a.example https://b.example]", origins)
	}
	if cfg.Observability.HealthCheckEnabled("redis") || !cfg.Observability.HealthCheckEnabled("database") {
		t.Fatalf("health checks = %q, want [database]", cfg.Observability.HealthChecks.Checks)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Fatalf("driver = %q, want %q", cfg.Database.Driver, DriverPostgres)
	}
	if cfg.Database.Port != 5432 {
		t.Fatalf("database port = %d, want 5432", cfg.Database.Port)
	}
	if cfg.Observability.Logging.Level != "warn" {
		t.Fatalf("log level = %q, want %q", cfg.Observability.Logging.Level, "warn")
	}
	if cfg.Observability.HealthChecks.Timeout != 2*time.Second {
		t.Fatalf("health check timeout = %v, want 2s", cfg.Observability.HealthChecks.Timeout)
	}
	if !cfg.Observability.IsProduction() {
		t.Fatal("expected production environment")
	}
}

func TestEnvValue(t *testing.T) {
	tests := []struct {
		env   string
		value string
		key   string
		want  interface{}
	}{
		{"QA_DATABASE__HOST", "db,replica", "database.host", "db,replica"},
		{"QA_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example", "server.cors_allowed_origins", []string{"https://a.example", "https://b.example"}},
		{"QA_SERVER__CORS_ALLOWED_ORIGINS", "*", "server.cors_allowed_origins", []string{"*"}},
		{"QA_OBSERVABILITY__HEALTH_CHECKS__CHECKS", "database,,redis,", "observability.health_checks.checks", []string{"database", "redis"}},
		{"QA_OBSERVABILITY__HEALTH_CHECKS__CHECKS", "", "observability.health_checks.checks", []string{}},
	}

	for _, tt := range tests {
		key, got := envValue(tt.env, tt.value)
		if key != tt.key {
			t.Errorf("envValue(%q) key = %q, want %q", tt.env, key, tt.key)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("envValue(%q, %q) = %#v, want %#v", tt.env, tt.value, got, tt.want)
		}
	}
}

func TestLoadConfigRequiresPostgresSettings(t *testing.T) {
	t.Setenv("QA_DATABASE__DRIVER", "postgres")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected validation error without database host")
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("QA_DATABASE__DRIVER", "mysql")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected validation error for unknown driver")
	}
}

func TestObservabilityValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ObservabilityConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*ObservabilityConfig) {}},
		{name: "bad level", mutate: func(c *ObservabilityConfig) { c.Logging.Level = "verbose" }, wantErr: true},
		{name: "negative threshold", mutate: func(c *ObservabilityConfig) { c.Logging.SlowQueryThreshold = -time.Second }, wantErr: true},
		{name: "short health timeout", mutate: func(c *ObservabilityConfig) { c.HealthChecks.Timeout = time.Millisecond }, wantErr: true},
		{name: "disabled health checks ignore timeout", mutate: func(c *ObservabilityConfig) {
			c.HealthChecks.Enabled = false
			c.HealthChecks.Timeout = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultObservabilityConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestHealthCheckEnabled(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.HealthChecks.Checks = []string{"database"}

	if !cfg.HealthCheckEnabled("database") {
		t.Fatal("expected database check to be enabled")
	}
	if cfg.HealthCheckEnabled("redis") {
		t.Fatal("expected redis check to be disabled")
	}
}
