package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/ideaji/internal/config"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg := config.New()
	assert.Equal(t, "development", cfg.App.ENV)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "@tcp(localhost:3306)/ideaji?parseTime=true")
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.com, https://b.com,")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("LOG_SOURCE", "yes")

	cfg := config.New()
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.DB.DSN)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 0.5, cfg.RateLimit.RPS)
	assert.True(t, cfg.Log.Source)
}

func TestValidate(t *testing.T) {
	t.Run("development gets a fallback secret", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.App.ENV = "development"
		cfg.DB.Driver = "sqlite"
		cfg.RateLimit.RPS, cfg.RateLimit.Burst = 1, 1
		require.NoError(t, cfg.Validate())
		assert.NotEmpty(t, cfg.Auth.JWTSecret)
	})

	t.Run("production requires a secret", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.App.ENV = "production"
		cfg.DB.Driver = "mysql"
		cfg.RateLimit.RPS, cfg.RateLimit.Burst = 1, 1
		assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Auth.JWTSecret = "s"
		cfg.DB.Driver = "postgres"
		cfg.RateLimit.RPS, cfg.RateLimit.Burst = 1, 1
		assert.ErrorContains(t, cfg.Validate(), "DB_DRIVER")
	})

	t.Run("rate limit must be positive", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Auth.JWTSecret = "s"
		cfg.DB.Driver = "mysql"
		assert.Error(t, cfg.Validate())
	})
}
