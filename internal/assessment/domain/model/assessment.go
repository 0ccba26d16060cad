package model

import (
	"errors"
	"time"

	authmodel "ielts-genai-prep/internal/auth/domain/model"
)

// Domain errors for assessment access.
var (
	ErrNotEntitled       = errors.New("session is not entitled to this assessment")
	ErrEmptySubmission   = errors.New("submission must not be empty")
	ErrEvaluatorFailed   = errors.New("assessment evaluation failed")
	ErrUnknownAssessment = errors.New("unknown assessment type")
)

// Assessment describes one purchasable assessment product as shown to an
// entitled user.
type Assessment struct {
	Type        authmodel.AssessmentType `json:"assessment_type"`
	Title       string                   `json:"title"`
	Skill       string                   `json:"skill"` // "writing" or "speaking"
	Description string                   `json:"description"`
}

// Catalog is the fixed product catalog. The four products mirror the closed
// entitlement set.
var Catalog = map[authmodel.AssessmentType]Assessment{
	authmodel.AssessmentAcademicWriting: {
		Type:        authmodel.AssessmentAcademicWriting,
		Title:       "TrueScore Academic Writing",
		Skill:       "writing",
		Description: "Academic Writing Task 1 and Task 2 with band-descriptor feedback.",
	},
	authmodel.AssessmentGeneralWriting: {
		Type:        authmodel.AssessmentGeneralWriting,
		Title:       "TrueScore General Training Writing",
		Skill:       "writing",
		Description: "General Training letter and essay tasks with band-descriptor feedback.",
	},
	authmodel.AssessmentAcademicSpeaking: {
		Type:        authmodel.AssessmentAcademicSpeaking,
		Title:       "ClearScore Academic Speaking",
		Skill:       "speaking",
		Description: "Three-part speaking interview scored across all four criteria.",
	},
	authmodel.AssessmentGeneralSpeaking: {
		Type:        authmodel.AssessmentGeneralSpeaking,
		Title:       "ClearScore General Training Speaking",
		Skill:       "speaking",
		Description: "Three-part speaking interview scored across all four criteria.",
	},
}

// Submission is one writing or speaking attempt sent for evaluation. Speech
// arrives already transcribed; transcription happens upstream.
type Submission struct {
	OwnerID        string                   `json:"owner_id"`
	AssessmentType authmodel.AssessmentType `json:"assessment_type"`
	Prompt         string                   `json:"prompt"`
	Answer         string                   `json:"answer"`
	SubmittedAt    time.Time                `json:"submitted_at"`
}

// Evaluation is the scoring result returned by the evaluator service.
type Evaluation struct {
	AssessmentType authmodel.AssessmentType `json:"assessment_type"`
	OverallBand    float64                  `json:"overall_band"`
	CriteriaBands  map[string]float64       `json:"criteria_bands"`
	Feedback       string                   `json:"feedback"`
	EvaluatedAt    time.Time                `json:"evaluated_at"`
}
