package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_PORT", "STORE_BACKEND", "ACCESS_TTL", "RATE_LIMIT_BACKEND", "CORS_ALLOW_ORIGINS", "BOOTSTRAP_USERNAME"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, "memory", cfg.RateLimitBackend)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "admin", cfg.Bootstrap.Username)
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.IsDev())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("ACCESS_TTL", "0")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("HIDE_INTERNAL_ERRORS", "true")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Duration(0), cfg.AccessTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.HideInternalErrors)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("ACCESS_TTL", "soon")
	t.Setenv("RATE_LIMIT_PER_MIN", "lots")
	t.Setenv("HIDE_INTERNAL_ERRORS", "maybe")

	assert.Equal(t, 15*time.Minute, durationEnv("ACCESS_TTL", 15*time.Minute))
	assert.Equal(t, 120, intEnv("RATE_LIMIT_PER_MIN", 120))
	assert.False(t, boolEnv("HIDE_INTERNAL_ERRORS", false))
}
