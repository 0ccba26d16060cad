package security

import (
	"context"
	"testing"
	"time"

	"ielts-genai-prep/internal/auth/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:   "test-secret-key-with-enough-entropy",
		JWTIssuer:      "ieltsaiprep",
		AccessTokenTTL: 15 * time.Minute,
	}
}

func TestNewJWTokenService_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty secret", func(c *config.Config) { c.JWTSecretKey = "" }},
		{"empty issuer", func(c *config.Config) { c.JWTIssuer = "" }},
		{"zero ttl", func(c *config.Config) { c.AccessTokenTTL = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(cfg)
			_, err := NewJWTokenService(cfg)
			assert.Error(t, err)
		})
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc, err := NewJWTokenService(testConfig())
	require.NoError(t, err)

	token, err := svc.GenerateToken(context.Background(), "user-1", "student@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "student@example.com", claims.Email)
	assert.Equal(t, "ieltsaiprep", claims.Issuer)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTokenTTL = time.Nanosecond
	svc, err := NewJWTokenService(cfg)
	require.NoError(t, err)

	token, err := svc.GenerateToken(context.Background(), "user-1", "student@example.com")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateToken_WrongKey(t *testing.T) {
	svc, err := NewJWTokenService(testConfig())
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.JWTSecretKey = "a-completely-different-secret-key"
	other, err := NewJWTokenService(otherCfg)
	require.NoError(t, err)

	token, err := other.GenerateToken(context.Background(), "user-1", "student@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc, err := NewJWTokenService(testConfig())
	require.NoError(t, err)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.ValidateToken(context.Background(), tok)
		assert.Error(t, err, "token %q", tok)
	}
}
