package repository

import (
	"context"
	"time"

	"ielts-genai-prep/internal/auth/domain/model"
)

// TokenRepository is the expiring key-value store for auth tokens. All
// mutation of token state goes through these two operations; nothing else in
// the system may write to the token collection.
type TokenRepository interface {
	// CreateToken stores a freshly issued token keyed by its ID. Store
	// failures surface as model.ErrStoreUnavailable.
	CreateToken(ctx context.Context, token *model.AuthToken) error

	// ConsumeToken flips the consumed flag from false to true and returns the
	// token snapshot. The check-and-set must be atomic with respect to
	// concurrent callers: two racing consumers get exactly one success.
	//
	// Errors: model.ErrTokenNotFound for unknown or garbage-collected IDs,
	// model.ErrTokenAlreadyUsed for replays, model.ErrTokenExpired for tokens
	// past their expiry at the given instant, model.ErrStoreUnavailable for
	// infrastructure failures.
	ConsumeToken(ctx context.Context, tokenID string, now time.Time) (*model.AuthToken, error)
}

// SessionRepository is the expiring key-value store for web sessions.
type SessionRepository interface {
	// CreateSession persists a new session keyed by its ID.
	CreateSession(ctx context.Context, session *model.WebSession) error

	// GetSessionByID returns the session or model.ErrSessionNotFound. Expiry
	// is re-checked by the caller on every read; stores with TTL support may
	// also have garbage-collected the entry, which reads identically to
	// not-found.
	GetSessionByID(ctx context.Context, sessionID string) (*model.WebSession, error)

	// DeleteSession removes a session. Deleting an absent session is not an error.
	DeleteSession(ctx context.Context, sessionID string) error
}
