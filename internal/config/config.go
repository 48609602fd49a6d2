// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), loads them into structured Go types, and validates
// that required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load defaults, then environment variables on top of them.
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process env before
	// anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the QA_ prefix. Keys are lowercased, the
	prefix is removed and a double underscore marks nesting, so
	QA_DATABASE__HOST -> database.host -> Config.Database.Host
	QA_SERVER__READ_TIMEOUT -> server.read_timeout -> Config.Server.ReadTimeout
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "QA_"

// ServiceName is the name reported to logs and APM.
const ServiceName = "qa-service"

const (
	// DriverPostgres selects the pgx connection pool backend.
	DriverPostgres = "postgres"
	// DriverSQLite selects the embedded modernc sqlite backend.
	DriverSQLite = "sqlite"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,gt=0"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,gt=0"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,gt=0"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the allowed requests per second per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
}

// DatabaseConfig contains the storage backend selection, PostgreSQL
// connection parameters and pool tuning.
//
// Pool lifetimes are whole seconds.
type DatabaseConfig struct {
	Driver          string `koanf:"driver" validate:"required,oneof=postgres sqlite"`
	Host            string `koanf:"host" validate:"required_if=Driver postgres"`
	Port            int    `koanf:"port" validate:"required_if=Driver postgres"`
	User            string `koanf:"user" validate:"required_if=Driver postgres"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode         string `koanf:"ssl_mode" validate:"required_if=Driver postgres"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"gte=0"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"gte=0"`

	// SQLitePath is the database file used when Driver is sqlite.
	SQLitePath string `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
}

// RedisConfig contains Redis connection details.
// An empty Address means Redis is not used.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// defaults are loaded before the environment so every optional knob has
// a value.
var defaults = map[string]any{
	"primary.env":                 "development",
	"server.port":                 "8000",
	"server.read_timeout":         10,
	"server.write_timeout":        10,
	"server.idle_timeout":         60,
	"server.cors_allowed_origins": []string{"*"},
	"server.rate_limit":           20,
	"database.driver":             DriverPostgres,
	"database.port":               5432,
	"database.ssl_mode":           "disable",
	"database.max_open_conns":     5,
	"database.max_idle_conns":     1,
	"database.conn_max_lifetime":  3600,
	"database.conn_max_idle_time": 300,

	"observability.logging.level":                         "info",
	"observability.logging.format":                        "json",
	"observability.logging.slow_query_threshold":          "100ms",
	"observability.new_relic.app_log_forwarding_enabled":  true,
	"observability.new_relic.distributed_tracing_enabled": true,
	"observability.health_checks.enabled":                 true,
	"observability.health_checks.timeout":                 "5s",
	"observability.health_checks.checks":                  []string{"database", "redis"},
}

// listKeys are read from the environment as comma separated lists.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

// envKey turns QA_DATABASE__HOST into database.host.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// envValue maps an env var to its config key, splitting list keys on ",".
func envValue(s, value string) (string, interface{}) {
	key := envKey(s)
	if !listKeys[key] {
		return key, value
	}

	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// LoadConfig loads defaults and environment variables, unmarshals them into
// Config, validates the result and fills in observability defaults.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary config so
	// logs and traces agree with each other.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
