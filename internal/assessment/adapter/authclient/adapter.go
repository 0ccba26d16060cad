package authclient

import (
	"context"

	"ielts-genai-prep/internal/assessment/domain/client"
	authmodel "ielts-genai-prep/internal/auth/domain/model"
	"ielts-genai-prep/internal/auth/usecase"
)

// AuthClientAdapter bridges the assessment module to the auth module's
// session verification.
type AuthClientAdapter struct {
	tokenUsecase usecase.TokenUsecaseInterface
}

// NewAuthClientAdapter creates a new auth client adapter
func NewAuthClientAdapter(tokenUsecase usecase.TokenUsecaseInterface) client.AuthClient {
	return &AuthClientAdapter{
		tokenUsecase: tokenUsecase,
	}
}

// ValidateSession resolves and re-validates a web session by ID.
func (c *AuthClientAdapter) ValidateSession(ctx context.Context, sessionID string) (*authmodel.WebSession, error) {
	if sessionID == "" {
		return nil, authmodel.ErrSessionNotFound
	}
	return c.tokenUsecase.GetSession(ctx, sessionID)
}
