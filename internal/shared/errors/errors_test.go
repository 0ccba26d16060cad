package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInfrastructureError("store unreachable").WithCause(cause)

	assert.Equal(t, "store unreachable: connection refused", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestAppError_Builders(t *testing.T) {
	err := NewNotFoundError("token").
		WithCode("TOKEN_NOT_FOUND").
		WithComponent("token_repo").
		WithDetail("token_id", "t1")

	assert.Equal(t, ErrorTypeNotFound, err.Type)
	assert.Equal(t, "token not found", err.Message)
	assert.Equal(t, "TOKEN_NOT_FOUND", err.Code)
	assert.Equal(t, "token_repo", err.Component)
	assert.Equal(t, "t1", err.Details["token_id"])
	assert.Equal(t, http.StatusNotFound, err.HTTPCode)
}

func TestConstructors_HTTPCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{NewDomainError("x"), http.StatusBadRequest},
		{NewValidationError("x"), http.StatusBadRequest},
		{NewInfrastructureError("x"), http.StatusServiceUnavailable},
		{NewAuthenticationError("x"), http.StatusUnauthorized},
		{NewAuthorizationError("x"), http.StatusForbidden},
		{NewNotFoundError("x"), http.StatusNotFound},
		{NewConflictError("x"), http.StatusConflict},
		{NewGoneError("x"), http.StatusGone},
		{NewInternalError("x"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.HTTPCode, tc.err.Type)
	}
}

func TestWrapError(t *testing.T) {
	plain := errors.New("boom")
	wrapped := WrapError(plain, "operation failed")
	assert.Equal(t, ErrorTypeInternal, wrapped.Type)
	assert.True(t, errors.Is(wrapped, plain))

	// An AppError passes through untouched.
	app := NewConflictError("already there")
	assert.Same(t, app, WrapError(app, "ignored"))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("x")))
	assert.True(t, IsNotFound(ErrNotFound))
	assert.False(t, IsNotFound(NewConflictError("x")))

	assert.True(t, IsValidation(NewValidationError("x")))
	assert.False(t, IsValidation(errors.New("x")))

	assert.True(t, IsAuthentication(NewAuthenticationError("x")))
	assert.True(t, IsAuthentication(ErrUnauthorized))

	assert.True(t, IsConflict(NewConflictError("x")))
	assert.True(t, IsConflict(ErrConflict))
}

func TestIsInfrastructure(t *testing.T) {
	assert.True(t, IsInfrastructure(NewInfrastructureError("x")))
	assert.True(t, IsInfrastructure(ErrStoreUnavailable))
	assert.True(t, IsInfrastructure(fmt.Errorf("%w: dial tcp", ErrStoreUnavailable)))
	assert.False(t, IsInfrastructure(NewNotFoundError("x")))
}
