package client

import (
	"context"

	authmodel "ielts-genai-prep/internal/auth/domain/model"
)

// AuthClient is the assessment module's view of the auth module. Session
// validity is re-checked against the session store on every call; callers
// must not cache the result beyond a single request.
type AuthClient interface {
	ValidateSession(ctx context.Context, sessionID string) (*authmodel.WebSession, error)
}
