package grading

import "github.com/obilearn/obi/internal/domain"

// ComputeScore reduces validated results to an aggregate score. It returns
// nil when nothing interactive was checked (an all-static activity), which
// callers must keep distinct from a zero score.
func ComputeScore(validations []StepValidation) *domain.Score {
	if len(validations) == 0 {
		return nil
	}
	score := &domain.Score{TotalCount: len(validations)}
	for _, v := range validations {
		if v.IsCorrect {
			score.CorrectCount++
		}
	}
	return score
}

// ChallengeSucceeded reports the challenge outcome: success iff no dimension
// total is strictly negative. Zero totals pass; there is no partial credit.
func ChallengeSucceeded(inv domain.DimensionInventory) bool {
	return !inv.AnyNegative()
}
