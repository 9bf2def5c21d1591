package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "APP_PORT", "JWT_SECRET", "JWT_EXPIRE_MINUTES", "HTTP_RATE_LIMIT_MAX",
		"HTTP_CORS_ALLOWED_ORIGINS", "POSTGRES_DSN", "REDIS_ADDR", "SEED_DEMO_ACCOUNTS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:5000", cfg.App.Addr())
	assert.Equal(t, 60, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 100, cfg.HTTP.RateLimitMax)
	assert.Equal(t, 15*time.Minute, cfg.HTTP.RateLimitWindow())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.HTTP.CORSAllowedOrigins)
	assert.Empty(t, cfg.Postgres.DSN)
	assert.False(t, cfg.Seed.DemoAccounts)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_EXPIRE_MINUTES", "15")
	t.Setenv("HTTP_CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("ANALYTICS_CACHE_SECONDS", "0")
	t.Setenv("SEED_DEMO_ACCOUNTS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 15, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.HTTP.CORSAllowedOrigins)
	assert.Zero(t, cfg.Analytics.CacheTTL())
	assert.True(t, cfg.Seed.DemoAccounts)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("HTTP_RATE_LIMIT_MAX", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.HTTP.RateLimitMax)
}

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SEED_DEMO_ACCOUNTS", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	_, err = Load()
	assert.NoError(t, err)

	t.Setenv("SEED_DEMO_ACCOUNTS", "true")
	_, err = Load()
	assert.Error(t, err)
}
