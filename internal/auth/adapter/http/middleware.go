package http

import (
	"context"
	"strings"
	"time"

	"ielts-genai-prep/internal/auth/usecase"
	"ielts-genai-prep/internal/shared/contextkeys"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// AuthMiddleware provides authentication middleware for Fiber
type AuthMiddleware struct {
	authUsecase usecase.AuthUsecaseInterface
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authUC usecase.AuthUsecaseInterface) *AuthMiddleware {
	return &AuthMiddleware{
		authUsecase: authUC,
	}
}

// CORS middleware with security headers
func (m *AuthMiddleware) CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     "https://www.ieltsaiprep.com,http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	})
}

// SecurityHeaders adds security headers
func (m *AuthMiddleware) SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	}
}

// RateLimiter creates rate limiting middleware for auth endpoints. Token
// verification is the brute-forceable surface, so it shares the same budget.
func (m *AuthMiddleware) RateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               10,              // 10 requests
		Expiration:        1 * time.Minute, // per minute
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Get("X-Forwarded-For", c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	})
}

// RequestID middleware
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: contextkeys.RequestIDKey,
	})
}

// RequestScopedContext copies the correlation ID from Fiber locals into the
// request context so logger.WithContext and downstream code can read it.
func (m *AuthMiddleware) RequestScopedContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if requestID, ok := c.Locals(contextkeys.RequestIDKey).(string); ok && requestID != "" {
			c.SetUserContext(context.WithValue(c.UserContext(), contextkeys.RequestIDKey, requestID))
		}
		return c.Next()
	}
}

// RequireAccessToken returns middleware that requires a valid mobile API
// access token (JWT from register/login).
func (m *AuthMiddleware) RequireAccessToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		claims, err := m.authUsecase.ValidateToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.UserEmailKey, claims.Email)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// extractBearerToken extracts a bearer token from the Authorization header.
func extractBearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
