package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"JWT_SECRET", "DB_PASSWORD", "MODERATOR_EMAILS", "MODERATOR_USER_IDS",
		"JWT_ACCESS_EXPIRY", "STATS_CACHE_TTL", "RATE_LIMIT_PER_MIN", "PORT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 30*time.Second, cfg.StatsCacheTTL)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Empty(t, cfg.ModeratorEmails)
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET environment variable is required")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("JWT_ACCESS_EXPIRY", "5m")
	t.Setenv("STATS_CACHE_TTL", "not-a-duration")
	t.Setenv("RATE_LIMIT_PER_MIN", "-4")
	t.Setenv("MODERATOR_EMAILS", " Mod@Buzzly.app , ,ops@buzzly.app")
	t.Setenv("MODERATOR_USER_IDS", "3F2504E0-4F89-11D3-9A0C-0305E82C3301")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 30*time.Second, cfg.StatsCacheTTL)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Equal(t, []string{"mod@buzzly.app", "ops@buzzly.app"}, cfg.ModeratorEmails)

	assert.True(t, cfg.IsModeratorByConfig("", "MOD@buzzly.app"))
	assert.True(t, cfg.IsModeratorByConfig("3f2504e0-4f89-11d3-9a0c-0305e82c3301", ""))
	assert.False(t, cfg.IsModeratorByConfig("", "someone@buzzly.app"))
	assert.False(t, cfg.IsModeratorByConfig("", ""))
}

func TestValidate_RequiresDBPassword(t *testing.T) {
	cfg := &Config{JWTSecret: "x"}
	assert.EqualError(t, cfg.Validate(), "DB_PASSWORD environment variable is required")
}
