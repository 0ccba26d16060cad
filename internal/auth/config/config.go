package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Store backend names accepted in AUTH_STORE.
const (
	StoreMemory  = "memory"
	StoreMongoDB = "mongodb"
	StoreRedis   = "redis"
)

// Config holds all configuration for the auth module.
type Config struct {
	// Store selection for tokens and sessions
	AuthStore string `env:"AUTH_STORE" envDefault:"mongodb"`

	// MongoDB Configuration
	MongoDBURI   string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"ieltsaiprep_auth_db"`

	// Redis Configuration
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// JWT Configuration (mobile API access tokens)
	JWTSecretKey   string        `env:"JWT_SECRET_KEY,required"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"ielts-genai-prep-auth-service"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`

	// QR handshake policy. Tokens are strictly single-use; the TTLs are fixed
	// product policy and only overridable for local testing.
	TokenTTL   time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"10m"`
	SessionTTL time.Duration `env:"WEB_SESSION_TTL" envDefault:"1h"`

	// QRDomain is embedded in the QR payload so the app can point the scanner
	// at the right site.
	QRDomain string `env:"QR_DOMAIN" envDefault:"www.ieltsaiprep.com"`

	// Cookie Configuration (web session cookie)
	CookieName     string `env:"COOKIE_NAME" envDefault:"web_session_id"`
	CookiePath     string `env:"COOKIE_PATH" envDefault:"/"`
	CookieDomain   string `env:"COOKIE_DOMAIN" envDefault:""`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"` // Set to true in production
	CookieHTTPOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	CookieSameSite string `env:"COOKIE_SAME_SITE" envDefault:"Lax"` // "Lax", "Strict", "None"
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load configuration from environment: " + err.Error() +
			". Please ensure all required environment variables are set.")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (cfg *Config) Validate() error {
	if cfg.JWTSecretKey == "" {
		return errors.New("jwt_secret_key is required")
	}

	cfg.AuthStore = strings.ToLower(strings.TrimSpace(cfg.AuthStore))
	switch cfg.AuthStore {
	case StoreMemory, StoreMongoDB, StoreRedis:
	default:
		return errors.New("auth_store must be one of 'memory', 'mongodb', or 'redis'")
	}

	if cfg.TokenTTL <= 0 {
		return errors.New("auth_token_ttl must be positive")
	}
	if cfg.SessionTTL <= 0 {
		return errors.New("web_session_ttl must be positive")
	}
	if cfg.AccessTokenTTL <= 0 {
		return errors.New("access_token_ttl must be positive")
	}

	switch strings.ToLower(cfg.CookieSameSite) {
	case "lax":
		cfg.CookieSameSite = "Lax"
	case "strict":
		cfg.CookieSameSite = "Strict"
	case "none":
		cfg.CookieSameSite = "None"
	default:
		return errors.New("cookie_same_site must be one of 'Lax', 'Strict', or 'None'")
	}

	return nil
}
