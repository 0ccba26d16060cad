package auth

import (
	"fmt"

	authhttp "ielts-genai-prep/internal/auth/adapter/http"
	"ielts-genai-prep/internal/auth/adapter/persistence/memory"
	"ielts-genai-prep/internal/auth/adapter/persistence/mongodb"
	"ielts-genai-prep/internal/auth/adapter/persistence/redisstore"
	"ielts-genai-prep/internal/auth/adapter/purchase"
	"ielts-genai-prep/internal/auth/adapter/security"
	"ielts-genai-prep/internal/auth/config"
	"ielts-genai-prep/internal/auth/domain/repository"
	"ielts-genai-prep/internal/auth/usecase"
	"ielts-genai-prep/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuthModule represents the complete authentication module: accounts, the QR
// token handshake, and web sessions.
type AuthModule struct {
	tokens       repository.TokenRepository
	sessions     repository.SessionRepository
	users        repository.UserRepository
	tokenSvc     repository.TokenService
	authUsecase  usecase.AuthUsecaseInterface
	tokenUsecase usecase.TokenUsecaseInterface
	handler      *authhttp.AuthHTTPHandler
	config       *config.Config
}

// NewAuthModule creates a new authentication module instance. The token and
// session stores are chosen by configuration; MongoDB always backs accounts
// except in pure in-memory mode.
func NewAuthModule(db *mongo.Database, redisClient *redis.Client, cfg *config.Config, log logger.Logger) (*AuthModule, error) {
	var (
		tokens   repository.TokenRepository
		sessions repository.SessionRepository
		users    repository.UserRepository
	)

	switch cfg.AuthStore {
	case config.StoreMemory:
		store := memory.NewStore()
		tokens, sessions, users = store, store, store

	case config.StoreRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis store selected but no redis client provided")
		}
		redisRepo := redisstore.NewRedisTokenRepository(redisClient, log)
		tokens, sessions = redisRepo, redisRepo

		userRepo, err := mongodb.NewMongoUserRepository(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create user repository: %w", err)
		}
		users = userRepo

	case config.StoreMongoDB:
		tokenRepo, err := mongodb.NewMongoTokenRepository(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create token repository: %w", err)
		}
		tokens, sessions = tokenRepo, tokenRepo

		userRepo, err := mongodb.NewMongoUserRepository(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create user repository: %w", err)
		}
		users = userRepo

	default:
		return nil, fmt.Errorf("unknown auth store %q", cfg.AuthStore)
	}

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	verifier := purchase.NewReceiptVerifier(log)

	authUsecase := usecase.NewAuthUsecase(users, tokenSvc, cfg)
	tokenUsecase := usecase.NewTokenUsecase(tokens, sessions, verifier, cfg, log)

	handler := authhttp.NewAuthHTTPHandler(
		authUsecase,
		tokenUsecase,
		cfg.CookieName,
		cfg.CookiePath,
		cfg.CookieDomain,
		cfg.CookieSecure,
		cfg.CookieHTTPOnly,
		cfg.CookieSameSite,
	)

	return &AuthModule{
		tokens:       tokens,
		sessions:     sessions,
		users:        users,
		tokenSvc:     tokenSvc,
		authUsecase:  authUsecase,
		tokenUsecase: tokenUsecase,
		handler:      handler,
		config:       cfg,
	}, nil
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	middleware := am.GetMiddleware()
	am.handler.SetupAuthRoutesWithMiddleware(router, middleware)
}

// GetAuthUsecase returns the account usecase for external access
func (am *AuthModule) GetAuthUsecase() usecase.AuthUsecaseInterface {
	return am.authUsecase
}

// GetTokenUsecase returns the QR handshake usecase for external access
func (am *AuthModule) GetTokenUsecase() usecase.TokenUsecaseInterface {
	return am.tokenUsecase
}

// GetMiddleware returns the auth middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return authhttp.NewAuthMiddleware(am.authUsecase)
}

// Stop performs cleanup when the module is shut down
func (am *AuthModule) Stop() error {
	return nil
}
