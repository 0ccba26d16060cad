package http

import (
	"errors"
	"time"

	"ielts-genai-prep/internal/auth/domain/model"
	"ielts-genai-prep/internal/auth/domain/repository"
	"ielts-genai-prep/internal/auth/usecase"
	apperrors "ielts-genai-prep/internal/shared/errors"
	"ielts-genai-prep/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// Error kinds surfaced to clients. The web frontend needs to distinguish
// these for UX messaging even though every one of them means access denied.
const (
	errKindInvalidPurchase  = "invalid_purchase"
	errKindTokenNotFound    = "token_not_found"
	errKindTokenExpired     = "token_expired"
	errKindTokenAlreadyUsed = "token_already_used"
	errKindStoreUnavailable = "store_unavailable"
)

// toAppError translates handshake failures into transport errors. The error
// code doubles as the error_kind discriminator in response bodies.
func toAppError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, model.ErrPurchaseDenied):
		return apperrors.NewAuthorizationError("Purchase could not be verified. Please complete the purchase flow again.").
			WithCode(errKindInvalidPurchase).WithCause(err)
	case errors.Is(err, model.ErrTokenNotFound):
		return apperrors.NewAppError(apperrors.ErrorTypeNotFound, "Code not recognized. Please generate a new one in the app.", fiber.StatusNotFound).
			WithCode(errKindTokenNotFound).WithCause(err)
	case errors.Is(err, model.ErrTokenAlreadyUsed):
		return apperrors.NewConflictError("This code was already used. Please generate a new one in the app.").
			WithCode(errKindTokenAlreadyUsed).WithCause(err)
	case errors.Is(err, model.ErrTokenExpired):
		return apperrors.NewGoneError("Your code has expired. Please generate a new one in the app.").
			WithCode(errKindTokenExpired).WithCause(err)
	case errors.Is(err, model.ErrStoreUnavailable):
		return apperrors.NewInfrastructureError("Service temporarily unavailable. Please try again.").
			WithCode(errKindStoreUnavailable).WithCause(err)
	default:
		return apperrors.NewAuthenticationError("Verification failed").WithCause(err)
	}
}

// renderAppError writes the transport representation of an AppError.
func renderAppError(c *fiber.Ctx, appErr *apperrors.AppError) error {
	body := fiber.Map{"error": appErr.Message}
	if appErr.Code != "" {
		body["error_kind"] = appErr.Code
	}
	return c.Status(appErr.HTTPCode).JSON(body)
}

// AuthHTTPHandler handles HTTP requests for accounts and the QR handshake
type AuthHTTPHandler struct {
	authUsecase    usecase.AuthUsecaseInterface
	tokenUsecase   usecase.TokenUsecaseInterface
	cookieName     string
	cookiePath     string
	cookieDomain   string
	cookieSecure   bool
	cookieHTTPOnly bool
	cookieSameSite string
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(
	authUC usecase.AuthUsecaseInterface,
	tokenUC usecase.TokenUsecaseInterface,
	cookieName, cookiePath, cookieDomain string,
	cookieSecure, cookieHTTPOnly bool,
	cookieSameSite string,
) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		authUsecase:    authUC,
		tokenUsecase:   tokenUC,
		cookieName:     cookieName,
		cookiePath:     cookiePath,
		cookieDomain:   cookieDomain,
		cookieSecure:   cookieSecure,
		cookieHTTPOnly: cookieHTTPOnly,
		cookieSameSite: cookieSameSite,
	}
}

// SetupAuthRoutesWithMiddleware sets up authentication routes with middleware
func (h *AuthHTTPHandler) SetupAuthRoutesWithMiddleware(router fiber.Router, middleware *AuthMiddleware) {
	// Public account routes (mobile app)
	auth := router.Group("/auth", middleware.RateLimiter())
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)

	// Public web-side token verification (QR scan or manual paste)
	auth.Post("/verify-token", h.VerifyToken)

	// Internal token issuance, called by the mobile purchase backend with the
	// user's access token
	api := router.Group("/api", middleware.RequireAccessToken())
	api.Post("/token", h.IssueToken)
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	User    *model.User `json:"user"`
	Token   string      `json:"token"`
	Message string      `json:"message"`
}

// Register handles account registration from the mobile app
func (h *AuthHTTPHandler) Register(c *fiber.Ctx) error {
	var req usecase.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, token, err := h.authUsecase.Register(c.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrUserExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email already registered",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		User:    user,
		Token:   token,
		Message: "User registered successfully",
	})
}

// Login handles account login from the mobile app
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, token, err := h.authUsecase.Login(c.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid email or password",
			})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(AuthResponse{
		User:    user,
		Token:   token,
		Message: "Logged in successfully",
	})
}

// IssueTokenRequest is the body of POST /api/token.
type IssueTokenRequest struct {
	Receipt repository.PurchaseReceipt `json:"receipt"`
}

// IssueTokenResponse is the body of a successful POST /api/token.
type IssueTokenResponse struct {
	TokenID   string          `json:"token_id"`
	ExpiresAt time.Time       `json:"expires_at"`
	QR        model.QRPayload `json:"qr"`
}

// IssueToken creates a single-use QR token for the authenticated user's
// verified purchase
func (h *AuthHTTPHandler) IssueToken(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req IssueTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.tokenUsecase.IssueToken(c.UserContext(), usecase.IssueTokenRequest{
		OwnerID: userID,
		Receipt: req.Receipt,
	})
	if err != nil {
		if errors.Is(err, model.ErrPurchaseDenied) || errors.Is(err, model.ErrStoreUnavailable) {
			return renderAppError(c, toAppError(err))
		}
		return renderAppError(c, apperrors.NewValidationError(err.Error()).WithCause(err))
	}

	return c.Status(fiber.StatusCreated).JSON(IssueTokenResponse{
		TokenID:   resp.Token.ID,
		ExpiresAt: resp.Token.ExpiresAt,
		QR:        resp.QR,
	})
}

// VerifyTokenRequest is the body of POST /auth/verify-token.
type VerifyTokenRequest struct {
	TokenID string `json:"token_id"`
}

// VerifyTokenResponse is the body of a successful POST /auth/verify-token.
type VerifyTokenResponse struct {
	SessionID   string    `json:"session_id"`
	ExpiresAt   time.Time `json:"expires_at"`
	Entitlement []string  `json:"entitlement"`
}

// VerifyToken consumes a scanned QR token and opens the web session
func (h *AuthHTTPHandler) VerifyToken(c *fiber.Ctx) error {
	var req VerifyTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	session, err := h.tokenUsecase.VerifyAndConsume(c.UserContext(), req.TokenID)
	if err != nil {
		return renderAppError(c, toAppError(err))
	}

	h.setCookie(c, session.ID, session.ExpiresAt)

	return c.JSON(VerifyTokenResponse{
		SessionID:   session.ID,
		ExpiresAt:   session.ExpiresAt,
		Entitlement: session.Entitlement.Strings(),
	})
}

// Helper methods

func (h *AuthHTTPHandler) setCookie(c *fiber.Ctx, sessionID string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    sessionID,
		Path:     h.cookiePath,
		Domain:   h.cookieDomain,
		Secure:   h.cookieSecure,
		HTTPOnly: h.cookieHTTPOnly,
		SameSite: h.cookieSameSite,
		Expires:  expiresAt,
	})
}
