package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "https://billetto.se/api/v3", cfg.Billetto.BaseURL)
	assert.Equal(t, "4429536", cfg.Billetto.OrganizerID)
	assert.Equal(t, 5*time.Minute, cfg.Events.CacheTTL)
	assert.Equal(t, CacheBackendMemory, cfg.Events.CacheBackend)
	assert.Equal(t, "info@slutstation.se", cfg.EmailJS.Recipient)
	assert.False(t, cfg.Billetto.Configured())
	assert.False(t, cfg.EmailJS.Configured())
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("BILLETTO_API_KEY", "key")
	t.Setenv("BILLETTO_CLIENT_SECRET", "secret")
	t.Setenv("BILLETTO_ORGANIZER_ID", " ")
	t.Setenv("EVENTS_CACHE_TTL", "not-a-duration")
	t.Setenv("CACHE_BACKEND", "REDIS")
	t.Setenv("ALLOWED_ORIGINS", "https://slutstation.se, ,https://www.slutstation.se")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Billetto.Configured())
	assert.Equal(t, "4429536", cfg.Billetto.OrganizerID)
	assert.Equal(t, 5*time.Minute, cfg.Events.CacheTTL)
	assert.Equal(t, CacheBackendRedis, cfg.Events.CacheBackend)
	assert.Equal(t, []string{"https://slutstation.se", "https://www.slutstation.se"}, cfg.CORS.AllowedOrigins)
}

func TestBillettoConfiguredRequiresBothCredentials(t *testing.T) {
	assert.False(t, BillettoConfig{APIKey: "key"}.Configured())
	assert.False(t, BillettoConfig{ClientSecret: "secret"}.Configured())
	assert.True(t, BillettoConfig{APIKey: "key", ClientSecret: "secret"}.Configured())
}
