package config

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a Redis client from the auth configuration with
// bounded connection timeouts, so a dead store surfaces as a definite error
// instead of a hang.
func NewRedisClient(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,

		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,

		ConnMaxIdleTime: 30 * time.Minute,
		ConnMaxLifetime: time.Hour,
	})
}
