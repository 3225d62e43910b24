package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, DriverSpanner, cfg.StoreDriver)
	assert.Equal(t, 12, cfg.CatalogPageSize)
	assert.Equal(t, 12, cfg.OwnerPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, 2*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, int64(5), cfg.OutboxMaxRetries)
	assert.Equal(t, "catalog", cfg.NATSSubjectPrefix)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", " Memory ")
	t.Setenv("CATALOG_PAGE_SIZE", "20")
	t.Setenv("ACCOUNT_CACHE_TTL", "90s")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 20, cfg.CatalogPageSize)
	assert.Equal(t, 90*time.Second, cfg.AccountCacheTTL)
	assert.True(t, cfg.MinioUseSSL)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nLOG_LEVEL=debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")
	// godotenv does not override variables that are already set
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))

	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StoreDriver:     DriverMemory,
			JWTSecret:       "s",
			CatalogPageSize: 12,
			OwnerPageSize:   12,
			MaxPageSize:     100,

			OutboxPollInterval: time.Second,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.StoreDriver = "postgres" }},
		{"spanner without database", func(c *Config) { c.StoreDriver = DriverSpanner }},
		{"no jwt secret", func(c *Config) { c.JWTSecret = "" }},
		{"minio without keys", func(c *Config) { c.MinioEndpoint = "localhost:9000" }},
		{"zero page size", func(c *Config) { c.OwnerPageSize = 0 }},
		{"default above max", func(c *Config) { c.CatalogPageSize = 101 }},
		{"zero poll interval", func(c *Config) { c.OutboxPollInterval = 0 }},
		{"negative poll interval", func(c *Config) { c.OutboxPollInterval = -time.Second }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
