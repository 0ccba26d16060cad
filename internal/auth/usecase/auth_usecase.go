package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"ielts-genai-prep/internal/auth/config"
	"ielts-genai-prep/internal/auth/domain/model"
	"ielts-genai-prep/internal/auth/domain/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrWeakPassword       = errors.New("password does not meet strength requirements")
)

// Password validation constants
const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUsecaseInterface defines the contract for account use cases. These
// serve the mobile app: accounts are created and authenticated in-app before
// any purchase.
type AuthUsecaseInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, req LoginRequest) (*model.User, string, error)
	ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error)
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthUsecase implements the account logic.
type AuthUsecase struct {
	users    repository.UserRepository
	tokenSvc repository.TokenService
	config   *config.Config
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	users repository.UserRepository,
	tokenSvc repository.TokenService,
	cfg *config.Config,
) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		tokenSvc: tokenSvc,
		config:   cfg,
	}
}

// validateEmail validates email format
func (uc *AuthUsecase) validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

// validatePassword validates password strength
func (uc *AuthUsecase) validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLength)
	}
	return nil
}

// Register creates a new account and returns it with a mobile access token.
func (uc *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*model.User, string, error) {
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, "", err
	}
	if err := uc.validatePassword(req.Password); err != nil {
		return nil, "", err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := uc.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", model.ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uc.users.CreateUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	// Clear password hash before returning
	user.PasswordHash = ""
	return user, token, nil
}

// Login authenticates an account and returns a mobile access token.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*model.User, string, error) {
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, "", err
	}

	user, err := uc.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, "", model.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", model.ErrInvalidCredentials
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	// Clear password hash before returning
	user.PasswordHash = ""
	return user, token, nil
}

// ValidateToken validates a mobile access token string.
func (uc *AuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// GetUserByID retrieves an account by ID.
func (uc *AuthUsecase) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, model.ErrUserNotFound
	}

	// Clear password hash for security
	user.PasswordHash = ""
	return user, nil
}

// Ensure AuthUsecase implements AuthUsecaseInterface
var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
