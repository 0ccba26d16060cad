package http

import (
	"errors"
	"strings"

	"ielts-genai-prep/internal/assessment/domain/model"
	"ielts-genai-prep/internal/assessment/usecase"
	authmodel "ielts-genai-prep/internal/auth/domain/model"
	apperrors "ielts-genai-prep/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// AssessmentHTTPHandler handles session-gated assessment requests
type AssessmentHTTPHandler struct {
	usecase    usecase.AssessmentUsecaseInterface
	cookieName string
}

// NewAssessmentHTTPHandler creates a new assessment HTTP handler
func NewAssessmentHTTPHandler(uc usecase.AssessmentUsecaseInterface, cookieName string) *AssessmentHTTPHandler {
	return &AssessmentHTTPHandler{
		usecase:    uc,
		cookieName: cookieName,
	}
}

// SetupAssessmentRoutes sets up the assessment routes
func (h *AssessmentHTTPHandler) SetupAssessmentRoutes(router fiber.Router) {
	router.Get("/assessments", h.ListAssessments)
	router.Post("/assessments/:assessmentType/submit", h.SubmitAssessment)
}

// ListAssessments returns the assessments the current session is entitled to
func (h *AssessmentHTTPHandler) ListAssessments(c *fiber.Ctx) error {
	sessionID := h.extractSessionID(c)

	assessments, err := h.usecase.GetEntitledAssessments(c.Context(), sessionID)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.JSON(fiber.Map{
		"assessments": assessments,
		"total":       len(assessments),
	})
}

// SubmitAssessment forwards a writing/speaking attempt for evaluation
func (h *AssessmentHTTPHandler) SubmitAssessment(c *fiber.Ctx) error {
	sessionID := h.extractSessionID(c)

	var req usecase.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	req.AssessmentType = c.Params("assessmentType")

	evaluation, err := h.usecase.Submit(c.Context(), sessionID, req)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.JSON(evaluation)
}

// renderError maps domain failures onto transport errors. Unknown and
// expired sessions are reported identically; the frontend prompts for a
// fresh QR code either way.
func (h *AssessmentHTTPHandler) renderError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, authmodel.ErrStoreUnavailable):
		appErr = apperrors.NewInfrastructureError("Service temporarily unavailable. Please try again.").WithCause(err)
	case errors.Is(err, authmodel.ErrSessionNotFound), errors.Is(err, authmodel.ErrSessionExpired):
		appErr = apperrors.NewAuthenticationError("Session expired or invalid. Please scan a new code from the app.").WithCause(err)
	case errors.Is(err, model.ErrNotEntitled):
		appErr = apperrors.NewAuthorizationError("Your purchase does not include this assessment").WithCause(err)
	case errors.Is(err, model.ErrUnknownAssessment):
		appErr = apperrors.NewAppError(apperrors.ErrorTypeNotFound, "Unknown assessment type", fiber.StatusNotFound).WithCause(err)
	case errors.Is(err, model.ErrEmptySubmission):
		appErr = apperrors.NewValidationError("Submission must not be empty").WithCause(err)
	case errors.Is(err, model.ErrEvaluatorFailed):
		appErr = apperrors.NewAppError(apperrors.ErrorTypeInfrastructure, "Evaluation is temporarily unavailable. Please try again.", fiber.StatusBadGateway).WithCause(err)
	default:
		appErr = apperrors.NewInternalError("Internal server error").WithCause(err)
	}
	return c.Status(appErr.HTTPCode).JSON(fiber.Map{"error": appErr.Message})
}

// extractSessionID pulls the session ID from the cookie or bearer header.
func (h *AssessmentHTTPHandler) extractSessionID(c *fiber.Ctx) string {
	if sessionID := c.Cookies(h.cookieName); sessionID != "" {
		return sessionID
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
