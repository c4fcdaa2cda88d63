// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultDailyLimit is the number of accepted submissions an
	// identity gets per calendar day.
	DefaultDailyLimit = 10

	defaultHTTPAddr      = ":8080"
	defaultBurstLimit    = 30
	defaultBurstWindow   = time.Minute
	defaultRetentionDays = 30
)

// QuotaBackend selects the authoritative counter store.
type QuotaBackend string

const (
	BackendMemory   QuotaBackend = "memory"
	BackendPostgres QuotaBackend = "postgres"
	BackendRedis    QuotaBackend = "redis"
)

type HTTPConfig struct {
	Addr string
}

type DatabaseConfig struct {
	DSN string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type QuotaConfig struct {
	// DailyLimit is the per-identity daily cap.
	DailyLimit int
	// FailClosed rejects submissions when the counter store errors.
	// The default (fail open) never blocks a user on a storage hiccup.
	FailClosed bool
	// Timezone names the location used for day boundaries. Empty means
	// UTC.
	Timezone string
	Backend  QuotaBackend
	// ClientStatePath is the file backing the device-scoped counter
	// store. Empty disables the file store.
	ClientStatePath string
}

type BurstConfig struct {
	Limit  int
	Window time.Duration
}

type RetentionConfig struct {
	KeepDays     int
	BatchSize    int
	PollInterval time.Duration
	Enabled      bool
}

type TracingConfig struct {
	Enabled bool
	// Endpoint is the OTLP collector address. Empty uses the exporter
	// default.
	Endpoint string
	// Protocol is "grpc" or "http".
	Protocol      string
	SamplingRatio float64
}

// Config is the top-level service configuration.
type Config struct {
	Environment string
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Quota       QuotaConfig
	Burst       BurstConfig
	Retention   RetentionConfig
	Tracing     TracingConfig
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads configuration from the environment, honoring a local .env
// file when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment: getEnv("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", defaultHTTPAddr),
		},
		Database: DatabaseConfig{
			DSN: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Quota: QuotaConfig{
			Timezone:        os.Getenv("QUOTA_TIMEZONE"),
			ClientStatePath: os.Getenv("QUOTA_CLIENT_STATE_PATH"),
		},
	}

	var err error
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.Quota.DailyLimit, err = getEnvInt("QUOTA_DAILY_LIMIT", DefaultDailyLimit); err != nil {
		return Config{}, err
	}
	if cfg.Quota.DailyLimit <= 0 {
		return Config{}, fmt.Errorf("QUOTA_DAILY_LIMIT must be positive, got %d", cfg.Quota.DailyLimit)
	}
	if cfg.Quota.FailClosed, err = getEnvBool("QUOTA_FAIL_CLOSED", false); err != nil {
		return Config{}, err
	}

	backend := QuotaBackend(strings.ToLower(getEnv("QUOTA_BACKEND", "")))
	switch backend {
	case BackendMemory, BackendPostgres, BackendRedis:
		cfg.Quota.Backend = backend
	case "":
		cfg.Quota.Backend = inferBackend(cfg)
	default:
		return Config{}, fmt.Errorf("unknown QUOTA_BACKEND %q", backend)
	}

	if cfg.Burst.Limit, err = getEnvInt("BURST_LIMIT", defaultBurstLimit); err != nil {
		return Config{}, err
	}
	if cfg.Burst.Window, err = getEnvDuration("BURST_WINDOW", defaultBurstWindow); err != nil {
		return Config{}, err
	}

	if cfg.Retention.KeepDays, err = getEnvInt("RETENTION_KEEP_DAYS", defaultRetentionDays); err != nil {
		return Config{}, err
	}
	if cfg.Retention.BatchSize, err = getEnvInt("RETENTION_BATCH_SIZE", 0); err != nil {
		return Config{}, err
	}
	if cfg.Retention.PollInterval, err = getEnvDuration("RETENTION_POLL_INTERVAL", 0); err != nil {
		return Config{}, err
	}
	cfg.Retention.Enabled = cfg.Quota.Backend == BackendPostgres

	if cfg.Tracing.Enabled, err = getEnvBool("TRACING_ENABLED", false); err != nil {
		return Config{}, err
	}
	cfg.Tracing.Endpoint = os.Getenv("TRACING_ENDPOINT")
	cfg.Tracing.Protocol = getEnv("TRACING_PROTOCOL", "grpc")
	if cfg.Tracing.SamplingRatio, err = getEnvFloat("TRACING_SAMPLING_RATIO", 0.1); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func inferBackend(cfg Config) QuotaBackend {
	if cfg.Database.DSN != "" {
		return BackendPostgres
	}
	if cfg.Redis.Addr != "" {
		return BackendRedis
	}
	return BackendMemory
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}
