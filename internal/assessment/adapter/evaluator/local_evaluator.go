package evaluator

import (
	"context"
	"strings"
	"time"

	"ielts-genai-prep/internal/assessment/domain/model"
	"ielts-genai-prep/internal/assessment/domain/repository"
	"ielts-genai-prep/internal/shared/logger"
)

// Criteria reported per skill, matching the official band descriptors.
var (
	writingCriteria  = []string{"task_achievement", "coherence_cohesion", "lexical_resource", "grammatical_range"}
	speakingCriteria = []string{"fluency_coherence", "lexical_resource", "grammatical_range", "pronunciation"}
)

// LocalEvaluator is a deterministic stand-in for the managed scoring service,
// used in local development and tests. It scores by answer length only; the
// production deployment injects the real model-backed evaluator instead.
type LocalEvaluator struct {
	log logger.Logger
}

// NewLocalEvaluator creates a new local evaluator.
func NewLocalEvaluator(log logger.Logger) *LocalEvaluator {
	return &LocalEvaluator{
		log: log.WithComponent("local_evaluator"),
	}
}

// Evaluate produces a deterministic evaluation for a submission.
func (e *LocalEvaluator) Evaluate(ctx context.Context, submission model.Submission) (*model.Evaluation, error) {
	words := len(strings.Fields(submission.Answer))

	band := 4.0
	switch {
	case words >= 250:
		band = 7.0
	case words >= 150:
		band = 6.0
	case words >= 50:
		band = 5.0
	}

	criteria := writingCriteria
	if assessment, ok := model.Catalog[submission.AssessmentType]; ok && assessment.Skill == "speaking" {
		criteria = speakingCriteria
	}

	bands := make(map[string]float64, len(criteria))
	for _, criterion := range criteria {
		bands[criterion] = band
	}

	e.log.Debugf("evaluated %s submission: %d words, band %.1f", submission.AssessmentType, words, band)

	return &model.Evaluation{
		AssessmentType: submission.AssessmentType,
		OverallBand:    band,
		CriteriaBands:  bands,
		Feedback:       "Locally generated placeholder feedback.",
		EvaluatedAt:    time.Now(),
	}, nil
}

// Ensure LocalEvaluator implements Evaluator
var _ repository.Evaluator = (*LocalEvaluator)(nil)
