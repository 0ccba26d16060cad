package repository

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService defines the interface for mobile API access tokens. These are
// the bearer tokens the app holds after login; they are unrelated to the
// single-use QR tokens.
type TokenService interface {
	GenerateToken(ctx context.Context, userID, email string) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"userID"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
