package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carterisland/portal-auth/internal/config"
)

func TestGetPort(t *testing.T) {
	cfg := config.New()
	t.Setenv("PORT", "")
	require.Equal(t, ":8080", cfg.GetPort())

	t.Setenv("PORT", "9090")
	require.Equal(t, ":9090", cfg.GetPort())

	t.Setenv("PORT", ":7070")
	require.Equal(t, ":7070", cfg.GetPort())
}

func TestJWTSecretFallback(t *testing.T) {
	cfg := config.New()
	t.Setenv("JWT_SECRET", "")
	require.False(t, cfg.JWTSecretFromEnv())
	require.NotEmpty(t, cfg.GetJWTSecret())

	t.Setenv("JWT_SECRET", "from-environment")
	require.True(t, cfg.JWTSecretFromEnv())
	require.Equal(t, "from-environment", cfg.GetJWTSecret())
}

func TestRedisDefaults(t *testing.T) {
	cfg := config.New()
	for _, key := range []string{"REDIS_URL", "REDIS_HOST", "REDIS_PORT", "REDIS_DB"} {
		t.Setenv(key, "")
	}
	require.Empty(t, cfg.GetRedisURL())
	require.Empty(t, cfg.GetRedisHost())
	require.Equal(t, 6379, cfg.GetRedisPort())
	require.Equal(t, 0, cfg.GetRedisDB())

	t.Setenv("REDIS_PORT", "not-a-number")
	require.Equal(t, 6379, cfg.GetRedisPort())
}
