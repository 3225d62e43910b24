// Package config loads service settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverSpanner = "spanner"
	DriverMemory  = "memory"
)

// Config holds all configuration for the service.
type Config struct {
	ServiceName string `mapstructure:"SERVICE_NAME"`
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	MetricsPort string `mapstructure:"METRICS_PORT"`

	StoreDriver     string `mapstructure:"STORE_DRIVER"`
	SpannerDatabase string `mapstructure:"SPANNER_DATABASE"`

	MongoURI        string        `mapstructure:"MONGO_URI"`
	MongoDatabase   string        `mapstructure:"MONGO_DATABASE"`
	Accounts        string        `mapstructure:"ACCOUNTS"`
	RedisAddress    string        `mapstructure:"REDIS_ADDRESS"`
	AccountCacheTTL time.Duration `mapstructure:"ACCOUNT_CACHE_TTL"`

	NATSURL            string        `mapstructure:"NATS_URL"`
	NATSSubjectPrefix  string        `mapstructure:"NATS_SUBJECT_PREFIX"`
	OutboxPollInterval time.Duration `mapstructure:"OUTBOX_POLL_INTERVAL"`
	OutboxBatchSize    int           `mapstructure:"OUTBOX_BATCH_SIZE"`
	OutboxMaxRetries   int64         `mapstructure:"OUTBOX_MAX_RETRIES"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	LogLevel     string `mapstructure:"LOG_LEVEL"`
	LogFormat    string `mapstructure:"LOG_FORMAT"`
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	CatalogPageSize     int           `mapstructure:"CATALOG_PAGE_SIZE"`
	OwnerPageSize       int           `mapstructure:"OWNER_PAGE_SIZE"`
	MaxPageSize         int           `mapstructure:"MAX_PAGE_SIZE"`
	ImageReleaseTimeout time.Duration `mapstructure:"IMAGE_RELEASE_TIMEOUT"`
	ShutdownTimeout     time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]interface{}{
	"SERVICE_NAME": "advert-catalog",
	"HTTP_PORT":    "8080",
	"METRICS_PORT": "9100",

	"STORE_DRIVER":     DriverSpanner,
	"SPANNER_DATABASE": "projects/test-project/instances/dev-instance/databases/advert-catalog-db",

	"MONGO_URI":         "",
	"MONGO_DATABASE":    "accounts",
	"ACCOUNTS":          "",
	"REDIS_ADDRESS":     "",
	"ACCOUNT_CACHE_TTL": 5 * time.Minute,

	"NATS_URL":             "",
	"NATS_SUBJECT_PREFIX":  "catalog",
	"OUTBOX_POLL_INTERVAL": 2 * time.Second,
	"OUTBOX_BATCH_SIZE":    100,
	"OUTBOX_MAX_RETRIES":   5,

	"MINIO_ENDPOINT":   "",
	"MINIO_ACCESS_KEY": "",
	"MINIO_SECRET_KEY": "",
	"MINIO_BUCKET":     "advert-photos",
	"MINIO_USE_SSL":    false,

	"JWT_SECRET": "",

	"LOG_LEVEL":                   "info",
	"LOG_FORMAT":                  "json",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "",

	"CATALOG_PAGE_SIZE":     12,
	"OWNER_PAGE_SIZE":       12,
	"MAX_PAGE_SIZE":         100,
	"IMAGE_RELEASE_TIMEOUT": 30 * time.Second,
	"SHUTDOWN_TIMEOUT":      15 * time.Second,
}

// Load reads envFile when it exists, then the process environment, which wins.
// An empty envFile skips the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no usable fallback.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverSpanner:
		if c.SpannerDatabase == "" {
			return errors.New("SPANNER_DATABASE is required with the spanner store driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q, want %s or %s", c.StoreDriver, DriverSpanner, DriverMemory)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.MinioEndpoint != "" && (c.MinioAccessKey == "" || c.MinioSecretKey == "") {
		return errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required with MINIO_ENDPOINT")
	}
	if c.CatalogPageSize <= 0 || c.OwnerPageSize <= 0 || c.MaxPageSize <= 0 {
		return errors.New("page sizes must be positive")
	}
	if c.CatalogPageSize > c.MaxPageSize || c.OwnerPageSize > c.MaxPageSize {
		return fmt.Errorf("default page sizes cannot exceed MAX_PAGE_SIZE (%d)", c.MaxPageSize)
	}
	if c.OutboxPollInterval <= 0 {
		return fmt.Errorf("OUTBOX_POLL_INTERVAL must be positive, got %s", c.OutboxPollInterval)
	}
	return nil
}
