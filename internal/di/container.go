package di

import (
	"context"
	"fmt"
	"sync"

	"ielts-genai-prep/internal/assessment"
	"ielts-genai-prep/internal/assessment/adapter/authclient"
	"ielts-genai-prep/internal/assessment/adapter/evaluator"
	"ielts-genai-prep/internal/auth"
	"ielts-genai-prep/internal/auth/config"
	"ielts-genai-prep/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container wires the modules together and owns their lifecycle.
type Container struct {
	mu sync.RWMutex

	// Module instances
	AuthModule       *auth.AuthModule
	AssessmentModule *assessment.AssessmentModule

	// Infrastructure
	MongoDB     *mongo.Database
	RedisClient *redis.Client

	// Configuration
	AuthConfig *config.Config

	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container
func NewContainer(log logger.Logger) *Container {
	return &Container{
		Logger: log,
	}
}

// InitializeAuth initializes the authentication module
func (c *Container) InitializeAuth(mongoDB *mongo.Database, authConfig *config.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoDB = mongoDB
	c.AuthConfig = authConfig

	if authConfig.AuthStore == config.StoreRedis {
		c.RedisClient = config.NewRedisClient(authConfig)
	}

	authModule, err := auth.NewAuthModule(mongoDB, c.RedisClient, authConfig, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}

	c.AuthModule = authModule
	return nil
}

// InitializeAssessment initializes the assessment module with auth integration
func (c *Container) InitializeAssessment() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.AuthModule == nil {
		return fmt.Errorf("auth module must be initialized before assessment module")
	}

	authClient := authclient.NewAuthClientAdapter(c.AuthModule.GetTokenUsecase())
	eval := evaluator.NewLocalEvaluator(c.Logger)

	c.AssessmentModule = assessment.NewAssessmentModule(authClient, eval, c.AuthConfig.CookieName, c.Logger)
	return nil
}

// GetAuthModule returns the auth module
func (c *Container) GetAuthModule() *auth.AuthModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// GetAssessmentModule returns the assessment module
func (c *Container) GetAssessmentModule() *assessment.AssessmentModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AssessmentModule
}

// HealthCheck verifies the backing stores respond within the given context.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB != nil {
		if err := c.MongoDB.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("mongodb unhealthy: %w", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis unhealthy: %w", err)
		}
	}
	return nil
}

// Close releases resources owned by the container.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.AuthModule != nil {
		if err := c.AuthModule.Stop(); err != nil {
			return err
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			return err
		}
	}
	return nil
}
