package grading

import "github.com/obilearn/obi/internal/domain"

// StepValidation is one server-side re-derived result. The client's own
// isCorrect/effects claims are never read; only the raw answer, re-checked
// against stored content.
type StepValidation struct {
	StepID    domain.StepID
	Answer    domain.SelectedAnswer
	IsCorrect bool
	Effects   []domain.ChallengeEffect
}

// ValidateAnswers re-derives correctness and effects for exactly the steps
// the client answered. Steps without a submitted answer are skipped entirely:
// never reached means never scored, not counted wrong. An answer whose tagged
// kind does not match its step is likewise skipped, as are static steps,
// which accept no answer.
func ValidateAnswers(steps []domain.Step, answers map[domain.StepID]domain.SelectedAnswer) []StepValidation {
	var out []StepValidation
	for _, step := range steps {
		if !step.Kind.IsInteractive() {
			continue
		}
		answer, ok := answers[step.ID]
		if !ok {
			continue
		}
		if answer.Kind != step.Kind {
			continue
		}

		result, effects := Check(step, answer)
		out = append(out, StepValidation{
			StepID:    step.ID,
			Answer:    answer,
			IsCorrect: result.IsCorrect,
			Effects:   effects,
		})
	}
	return out
}

// BuildDimensions seeds a zero inventory from the activity's challenge steps
// and applies every validated effect, yielding the server-side final totals.
func BuildDimensions(steps []domain.Step, validations []StepValidation) domain.DimensionInventory {
	inv := domain.NewDimensionInventory(steps)
	for _, v := range validations {
		inv.Apply(v.Effects)
	}
	return inv
}
