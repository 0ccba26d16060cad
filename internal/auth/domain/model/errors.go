package model

import "errors"

// Domain errors shared across the auth module. Token and session rejections
// are routine outcomes of a time-boxed flow, not operational incidents; only
// ErrStoreUnavailable indicates infrastructure trouble.
var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenAlreadyUsed = errors.New("token already used")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExpired   = errors.New("session expired")
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrPurchaseDenied        = errors.New("purchase not verified")
	ErrInvalidAssessmentType = errors.New("invalid assessment type")
	ErrEmptyEntitlement      = errors.New("entitlement must not be empty")

	ErrUserExists         = errors.New("email is already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
