package utils

import (
	"context"
	"testing"

	"ielts-genai-prep/internal/shared/contextkeys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserIDFromContext(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-1")
	userID, err := GetUserIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = GetUserIDFromContext(context.Background())
	assert.ErrorIs(t, err, ErrUserIDNotFound)

	ctx = context.WithValue(context.Background(), contextkeys.UserIDKey, 42)
	_, err = GetUserIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrUserIDNotString)
}

func TestGetUserEmailFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), contextkeys.UserEmailKey, "student@example.com")
	email, err := GetUserEmailFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", email)

	_, err = GetUserEmailFromContext(context.Background())
	assert.ErrorIs(t, err, ErrUserEmailNotFound)
}

func TestGetSessionIDFromContext(t *testing.T) {
	ctx := WithSessionID(context.Background(), "session-1")
	sessionID, err := GetSessionIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "session-1", sessionID)

	_, err = GetSessionIDFromContext(context.Background())
	assert.ErrorIs(t, err, ErrSessionIDNotFound)
}

func TestGetRequestIDFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), contextkeys.RequestIDKey, "req-1")
	requestID, err := GetRequestIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "req-1", requestID)

	_, err = GetRequestIDFromContext(context.Background())
	assert.ErrorIs(t, err, ErrRequestIDNotFound)
}
