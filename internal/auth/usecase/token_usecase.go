package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ielts-genai-prep/internal/auth/config"
	"ielts-genai-prep/internal/auth/domain/model"
	"ielts-genai-prep/internal/auth/domain/repository"
	"ielts-genai-prep/internal/shared/logger"

	"github.com/google/uuid"
)

var (
	ErrOwnerRequired = errors.New("owner identity is required")
)

// IssueTokenRequest carries what the mobile backend sends after a purchase.
type IssueTokenRequest struct {
	OwnerID string
	Receipt repository.PurchaseReceipt
}

// IssueTokenResponse is returned to the mobile backend, which renders the
// QR payload client side.
type IssueTokenResponse struct {
	Token *model.AuthToken `json:"token"`
	QR    model.QRPayload  `json:"qr"`
}

// TokenUsecaseInterface defines the contract for the QR handshake use cases.
type TokenUsecaseInterface interface {
	IssueToken(ctx context.Context, req IssueTokenRequest) (*IssueTokenResponse, error)
	VerifyAndConsume(ctx context.Context, tokenID string) (*model.WebSession, error)
	GetSession(ctx context.Context, sessionID string) (*model.WebSession, error)
}

// Option configures a TokenUsecase.
type Option func(*TokenUsecase)

// WithClock overrides the time source. Tests use this to cross expiry
// boundaries without sleeping.
func WithClock(now func() time.Time) Option {
	return func(uc *TokenUsecase) {
		uc.now = now
	}
}

// TokenUsecase implements issuance and verification of single-use QR tokens.
//
// Per token the state machine is ISSUED -> CONSUMED on the first successful
// verification, or a terminal rejection (expired, unknown, replayed). There
// is no path back to ISSUED; replays are denied by the store-level
// check-and-set, not by logic here.
type TokenUsecase struct {
	tokens   repository.TokenRepository
	sessions repository.SessionRepository
	verifier repository.PurchaseVerifier
	config   *config.Config
	log      logger.Logger
	now      func() time.Time
}

// NewTokenUsecase creates a new instance of TokenUsecase.
func NewTokenUsecase(
	tokens repository.TokenRepository,
	sessions repository.SessionRepository,
	verifier repository.PurchaseVerifier,
	cfg *config.Config,
	log logger.Logger,
	opts ...Option,
) *TokenUsecase {
	uc := &TokenUsecase{
		tokens:   tokens,
		sessions: sessions,
		verifier: verifier,
		config:   cfg,
		log:      log.WithComponent("token_usecase"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// IssueToken creates a fresh single-use token after the purchase receipt has
// been verified. The token ID comes from crypto-grade randomness; it is the
// sole secret transferred between devices.
func (uc *TokenUsecase) IssueToken(ctx context.Context, req IssueTokenRequest) (*IssueTokenResponse, error) {
	if strings.TrimSpace(req.OwnerID) == "" {
		return nil, ErrOwnerRequired
	}

	entitlement, err := uc.verifier.Verify(ctx, req.Receipt)
	if err != nil {
		if errors.Is(err, model.ErrPurchaseDenied) {
			return nil, model.ErrPurchaseDenied
		}
		return nil, fmt.Errorf("purchase verification failed: %w", err)
	}
	if len(entitlement) == 0 {
		return nil, model.ErrPurchaseDenied
	}

	now := uc.now()
	token := &model.AuthToken{
		ID:          uuid.NewString(),
		OwnerID:     req.OwnerID,
		Entitlement: entitlement,
		IssuedAt:    now,
		ExpiresAt:   now.Add(uc.config.TokenTTL),
		Consumed:    false,
	}

	if err := uc.tokens.CreateToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	uc.log.WithFields(map[string]interface{}{
		"owner_id":   token.OwnerID,
		"expires_at": token.ExpiresAt,
	}).Info("issued auth token")

	return &IssueTokenResponse{
		Token: token,
		QR: model.QRPayload{
			TokenID:  token.ID,
			Domain:   uc.config.QRDomain,
			IssuedAt: token.IssuedAt,
		},
	}, nil
}

// VerifyAndConsume exclusively consumes a token and mints the web session.
// The consumption itself is a conditional update inside the token store, so
// two racing callers get exactly one session between them.
//
// If session persistence fails after the token was consumed, the token stays
// burned: the flow fails closed and the user restarts from the app.
func (uc *TokenUsecase) VerifyAndConsume(ctx context.Context, tokenID string) (*model.WebSession, error) {
	if strings.TrimSpace(tokenID) == "" {
		return nil, model.ErrTokenNotFound
	}

	now := uc.now()
	token, err := uc.tokens.ConsumeToken(ctx, tokenID, now)
	if err != nil {
		return nil, err
	}

	session := &model.WebSession{
		ID:          uuid.NewString(),
		OwnerID:     token.OwnerID,
		Entitlement: token.Entitlement,
		CreatedAt:   now,
		ExpiresAt:   now.Add(uc.config.SessionTTL),
	}

	if err := uc.sessions.CreateSession(ctx, session); err != nil {
		// The token is already consumed and must not be un-consumed.
		uc.log.WithFields(map[string]interface{}{
			"owner_id": token.OwnerID,
		}).Error("session persistence failed after token consumption: ", err)
		return nil, fmt.Errorf("failed to store session: %w", model.ErrStoreUnavailable)
	}

	uc.log.WithFields(map[string]interface{}{
		"owner_id":   session.OwnerID,
		"expires_at": session.ExpiresAt,
	}).Info("web session created")

	return session, nil
}

// GetSession re-validates a session on every call. Sessions expire strictly
// at created_at + TTL regardless of activity; expired entries are lazily
// removed when seen.
func (uc *TokenUsecase) GetSession(ctx context.Context, sessionID string) (*model.WebSession, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, model.ErrSessionNotFound
	}

	session, err := uc.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.IsExpired(uc.now()) {
		if delErr := uc.sessions.DeleteSession(ctx, sessionID); delErr != nil {
			uc.log.Warn("failed to delete expired session: ", delErr)
		}
		return nil, model.ErrSessionExpired
	}

	return session, nil
}

// Ensure TokenUsecase implements TokenUsecaseInterface
var _ TokenUsecaseInterface = (*TokenUsecase)(nil)
