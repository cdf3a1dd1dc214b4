package shell

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openshelf/circulation/core"
)

// Config carries every runtime setting of the service, populated from the
// environment with sensible defaults for local development.
type Config struct {
	HTTPAddr        string
	PostgresDSN     string
	LogLevel        string
	PageLimits      core.PageLimits
	LoanPeriodDays  int
	ShutdownTimeout time.Duration
}

// LoadConfig reads the configuration from the environment.
//
// DATABASE_URL wins when set; otherwise the DSN is composed from the
// individual POSTGRES_* variables.
func LoadConfig() (Config, error) {
	cfg := Config{
		HTTPAddr:        envOr("HTTP_ADDR", ":8000"),
		PostgresDSN:     os.Getenv("DATABASE_URL"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		ShutdownTimeout: 10 * time.Second,
	}

	if cfg.PostgresDSN == "" {
		cfg.PostgresDSN = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			envOr("POSTGRES_USER", "circulation"),
			envOr("POSTGRES_PASSWORD", "circulation"),
			envOr("POSTGRES_HOST", "localhost"),
			envOr("POSTGRES_PORT", "5432"),
			envOr("POSTGRES_DB", "circulation"),
			envOr("POSTGRES_SSLMODE", "disable"),
		)
	}

	defaultSize, err := envIntOr("PAGE_SIZE_DEFAULT", 10)
	if err != nil {
		return Config{}, err
	}

	maxSize, err := envIntOr("PAGE_SIZE_MAX", 100)
	if err != nil {
		return Config{}, err
	}

	cfg.PageLimits = core.PageLimits{DefaultSize: defaultSize, MaxSize: maxSize}

	cfg.LoanPeriodDays, err = envIntOr("LOAN_PERIOD_DAYS", core.DefaultLoanPeriodDays)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// PGXPoolConfig creates a tuned pgxpool.Config for the configured DSN.
func (c Config) PGXPoolConfig() (*pgxpool.Config, error) {
	const defaultMaxConnections = int32(8)
	const defaultMinConnections = int32(2)
	const defaultMaxConnLifetime = time.Hour
	const defaultMaxConnIdleTime = time.Minute * 5
	const defaultHealthCheckPeriod = time.Minute
	const defaultConnectTimeout = time.Second * 5

	dbConfig, err := pgxpool.ParseConfig(c.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.MinConns = defaultMinConnections
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig, nil
}

func envOr(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func envIntOr(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}

	return parsed, nil
}
