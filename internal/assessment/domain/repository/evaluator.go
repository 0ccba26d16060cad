package repository

import (
	"context"

	"ielts-genai-prep/internal/assessment/domain/model"
)

// Evaluator is the opaque AI scoring service. In production this is the
// managed model backend (Nova Sonic for speaking, Nova Micro for writing);
// this module only depends on the contract.
type Evaluator interface {
	Evaluate(ctx context.Context, submission model.Submission) (*model.Evaluation, error)
}
