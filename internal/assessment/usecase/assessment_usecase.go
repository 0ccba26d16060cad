package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ielts-genai-prep/internal/assessment/domain/client"
	"ielts-genai-prep/internal/assessment/domain/model"
	"ielts-genai-prep/internal/assessment/domain/repository"
	authmodel "ielts-genai-prep/internal/auth/domain/model"
	"ielts-genai-prep/internal/shared/logger"
)

// AssessmentUsecaseInterface defines the contract for session-gated
// assessment access.
type AssessmentUsecaseInterface interface {
	GetEntitledAssessments(ctx context.Context, sessionID string) ([]model.Assessment, error)
	Submit(ctx context.Context, sessionID string, req SubmitRequest) (*model.Evaluation, error)
}

// SubmitRequest is one writing/speaking attempt from the web frontend.
type SubmitRequest struct {
	AssessmentType string `json:"assessment_type"`
	Prompt         string `json:"prompt"`
	Answer         string `json:"answer"`
}

// AssessmentUsecase implements entitlement-gated assessment access. Every
// operation re-validates the session through the auth client; entitlement is
// read off the session and never widens beyond the consumed token's grant.
type AssessmentUsecase struct {
	authClient client.AuthClient
	evaluator  repository.Evaluator
	log        logger.Logger
}

// NewAssessmentUsecase creates a new instance of AssessmentUsecase.
func NewAssessmentUsecase(authClient client.AuthClient, evaluator repository.Evaluator, log logger.Logger) *AssessmentUsecase {
	return &AssessmentUsecase{
		authClient: authClient,
		evaluator:  evaluator,
		log:        log.WithComponent("assessment_usecase"),
	}
}

// GetEntitledAssessments lists the catalog entries the session grants access to.
func (uc *AssessmentUsecase) GetEntitledAssessments(ctx context.Context, sessionID string) ([]model.Assessment, error) {
	session, err := uc.authClient.ValidateSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	entitled := make([]model.Assessment, 0, len(session.Entitlement))
	for _, at := range session.Entitlement {
		if assessment, ok := model.Catalog[at]; ok {
			entitled = append(entitled, assessment)
		}
	}
	return entitled, nil
}

// Submit forwards an attempt to the evaluator after checking the session
// covers the requested assessment type.
func (uc *AssessmentUsecase) Submit(ctx context.Context, sessionID string, req SubmitRequest) (*model.Evaluation, error) {
	session, err := uc.authClient.ValidateSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	at, err := authmodel.ParseAssessmentType(req.AssessmentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownAssessment, req.AssessmentType)
	}
	if !session.Entitlement.Contains(at) {
		return nil, model.ErrNotEntitled
	}
	if strings.TrimSpace(req.Answer) == "" {
		return nil, model.ErrEmptySubmission
	}

	submission := model.Submission{
		OwnerID:        session.OwnerID,
		AssessmentType: at,
		Prompt:         req.Prompt,
		Answer:         req.Answer,
		SubmittedAt:    time.Now(),
	}

	evaluation, err := uc.evaluator.Evaluate(ctx, submission)
	if err != nil {
		uc.log.WithContext(ctx).Error("evaluator call failed: ", err)
		if errors.Is(err, model.ErrEvaluatorFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", model.ErrEvaluatorFailed, err)
	}

	return evaluation, nil
}

// Ensure AssessmentUsecase implements AssessmentUsecaseInterface
var _ AssessmentUsecaseInterface = (*AssessmentUsecase)(nil)
