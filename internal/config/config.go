package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds runtime configuration shared by the client binaries.
type App struct {
	Name     string `env:"APP_NAME" envDefault:"prepsom"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// MetricsAddr, when set, exposes /metrics from the client process.
	MetricsAddr string `env:"METRICS_ADDR"`

	API       API
	Store     Store
	Postgres  Postgres
	Redis     Redis
	DevServer DevServer
}

// API describes the PrepSOM backend.
type API struct {
	BaseURL string        `env:"PREPSOM_API_URL" envDefault:"http://localhost:8081/api/v1"`
	Token   string        `env:"PREPSOM_TOKEN"`
	Timeout time.Duration `env:"PREPSOM_HTTP_TIMEOUT" envDefault:"10s"`
}

// Store selects the answered-question persistence backend.
type Store struct {
	Driver     string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"file:prepsom.db?_pragma=busy_timeout(5000)"`
}

// Postgres captures connection info for the shared answer store.
type Postgres struct {
	Host     string `env:"PG_HOST" envDefault:"localhost"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER"`
	Password string `env:"PG_PASSWORD"`
	Database string `env:"PG_DATABASE"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"4"`
}

// Redis holds the cache-backed answer store configuration.
type Redis struct {
	Addr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize  int    `env:"REDIS_POOL_SIZE" envDefault:"4"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"prepsom"`
}

// DevServer configures the local stub of the PrepSOM API.
type DevServer struct {
	Addr    string `env:"DEVSERVER_ADDR" envDefault:"127.0.0.1:8081"`
	Fixture string `env:"DEVSERVER_FIXTURE" envDefault:"configs/fixture.yaml"`
	Prefix  string `env:"DEVSERVER_PREFIX" envDefault:"/api/v1"`
}

// ConnString renders a pgx connection string.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode, p.MaxConns)
}

// Validate checks cross-field requirements env tags cannot express.
func (a *App) Validate() error {
	switch a.Store.Driver {
	case "memory", "sqlite", "redis":
	case "postgres":
		if a.Postgres.User == "" || a.Postgres.Database == "" {
			return fmt.Errorf("STORE_DRIVER=postgres requires PG_USER and PG_DATABASE")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", a.Store.Driver)
	}
	if a.API.Timeout <= 0 {
		return fmt.Errorf("PREPSOM_HTTP_TIMEOUT must be positive")
	}
	return nil
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
