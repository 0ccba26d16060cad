package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreMongoDB, cfg.AuthStore)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDBURI)
	assert.Equal(t, "ieltsaiprep_auth_db", cfg.DatabaseName)
	assert.Equal(t, 10*time.Minute, cfg.TokenTTL)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "www.ieltsaiprep.com", cfg.QRDomain)
	assert.Equal(t, "web_session_id", cfg.CookieName)
	assert.True(t, cfg.CookieHTTPOnly)
	assert.Equal(t, "Lax", cfg.CookieSameSite)
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("AUTH_STORE", "Redis")
	t.Setenv("AUTH_TOKEN_TTL", "5m")
	t.Setenv("WEB_SESSION_TTL", "30m")
	t.Setenv("COOKIE_SAME_SITE", "strict")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreRedis, cfg.AuthStore)
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "Strict", cfg.CookieSameSite)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AuthStore:      StoreMemory,
			JWTSecretKey:   "test-secret",
			AccessTokenTTL: 15 * time.Minute,
			TokenTTL:       10 * time.Minute,
			SessionTTL:     time.Hour,
			CookieSameSite: "Lax",
		}
	}

	require.NoError(t, base().Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown store", func(c *Config) { c.AuthStore = "dynamo" }},
		{"zero token ttl", func(c *Config) { c.TokenTTL = 0 }},
		{"negative session ttl", func(c *Config) { c.SessionTTL = -time.Minute }},
		{"zero access token ttl", func(c *Config) { c.AccessTokenTTL = 0 }},
		{"bad same-site", func(c *Config) { c.CookieSameSite = "Sideways" }},
		{"missing secret", func(c *Config) { c.JWTSecretKey = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_SameSiteNormalization(t *testing.T) {
	cases := map[string]string{
		"lax":    "Lax",
		"STRICT": "Strict",
		"None":   "None",
	}
	for in, want := range cases {
		cfg := &Config{
			AuthStore:      StoreMemory,
			JWTSecretKey:   "test-secret",
			AccessTokenTTL: 15 * time.Minute,
			TokenTTL:       10 * time.Minute,
			SessionTTL:     time.Hour,
			CookieSameSite: in,
		}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, want, cfg.CookieSameSite)
	}
}
