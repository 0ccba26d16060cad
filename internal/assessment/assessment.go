package assessment

import (
	assessmenthttp "ielts-genai-prep/internal/assessment/adapter/http"
	"ielts-genai-prep/internal/assessment/domain/client"
	"ielts-genai-prep/internal/assessment/domain/repository"
	"ielts-genai-prep/internal/assessment/usecase"
	"ielts-genai-prep/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// AssessmentModule represents the session-gated assessment access module
type AssessmentModule struct {
	usecase usecase.AssessmentUsecaseInterface
	handler *assessmenthttp.AssessmentHTTPHandler
}

// NewAssessmentModule creates a new assessment module instance. The auth
// client and evaluator are injected: session validation belongs to the auth
// module and scoring belongs to the managed model service.
func NewAssessmentModule(
	authClient client.AuthClient,
	evaluator repository.Evaluator,
	cookieName string,
	log logger.Logger,
) *AssessmentModule {
	uc := usecase.NewAssessmentUsecase(authClient, evaluator, log)
	handler := assessmenthttp.NewAssessmentHTTPHandler(uc, cookieName)

	return &AssessmentModule{
		usecase: uc,
		handler: handler,
	}
}

// RegisterRoutes registers assessment routes with the provided router
func (am *AssessmentModule) RegisterRoutes(router fiber.Router) {
	am.handler.SetupAssessmentRoutes(router)
}

// GetUsecase returns the assessment usecase for external access
func (am *AssessmentModule) GetUsecase() usecase.AssessmentUsecaseInterface {
	return am.usecase
}
