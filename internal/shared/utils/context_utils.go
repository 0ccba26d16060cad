package utils

import (
	"context"
	"errors"

	"ielts-genai-prep/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrUserIDNotFound     = errors.New("userID not found in context")
	ErrUserIDNotString    = errors.New("userID in context is not a string")
	ErrUserEmailNotFound  = errors.New("userEmail not found in context")
	ErrUserEmailNotString = errors.New("userEmail in context is not a string")
	ErrSessionIDNotFound  = errors.New("sessionID not found in context")
	ErrSessionIDNotString = errors.New("sessionID in context is not a string")
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
)

// GetUserIDFromContext retrieves the user ID from the context.
// It returns the user ID and an error if the user ID is not found or is not a string.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.UserIDKey)
	if val == nil {
		return "", ErrUserIDNotFound
	}
	userID, ok := val.(string)
	if !ok {
		return "", ErrUserIDNotString
	}
	return userID, nil
}

// GetUserEmailFromContext retrieves the user email from the context.
func GetUserEmailFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.UserEmailKey)
	if val == nil {
		return "", ErrUserEmailNotFound
	}
	email, ok := val.(string)
	if !ok {
		return "", ErrUserEmailNotString
	}
	return email, nil
}

// GetSessionIDFromContext retrieves the web session ID from the context.
func GetSessionIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.SessionIDKey)
	if val == nil {
		return "", ErrSessionIDNotFound
	}
	sessionID, ok := val.(string)
	if !ok {
		return "", ErrSessionIDNotString
	}
	return sessionID, nil
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotString
	}
	return requestID, nil
}

// WithUserID returns a copy of ctx carrying the given user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}

// WithSessionID returns a copy of ctx carrying the given session ID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextkeys.SessionIDKey, sessionID)
}
