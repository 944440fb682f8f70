// Package grading checks submitted answers against step content. Checks are
// pure: the same content and answer always produce the same result, and a
// malformed or mismatched submission produces the fixed mismatch result
// rather than an error - the feedback screen must always have something to
// render.
package grading

import (
	"strings"

	"github.com/obilearn/obi/internal/domain"
)

// Check evaluates a submitted answer against a step. The returned effects are
// non-empty only for challenge-variant multipleChoice steps. An answer tagged
// for a different kind than the step, a static step, or a step missing its
// word/sentence reference all yield the mismatch result.
func Check(step domain.Step, answer domain.SelectedAnswer) (domain.AnswerResult, []domain.ChallengeEffect) {
	if answer.Kind != step.Kind {
		return domain.MismatchResult(), nil
	}

	switch step.Kind {
	case domain.KindMultipleChoice:
		return checkMultipleChoice(step, answer)
	case domain.KindFillBlank:
		return checkFillBlank(step, answer), nil
	case domain.KindMatchColumns:
		return checkMatchColumns(step, answer), nil
	case domain.KindSortOrder:
		return checkSortOrder(step, answer), nil
	case domain.KindSelectImage:
		return checkSelectImage(step, answer), nil
	case domain.KindVocabulary:
		return checkVocabulary(step, answer), nil
	case domain.KindReading:
		return checkReading(step, answer), nil
	case domain.KindListening:
		return checkListening(step, answer), nil
	}

	// static and anything unrecognized
	return domain.MismatchResult(), nil
}

func checkMultipleChoice(step domain.Step, answer domain.SelectedAnswer) (domain.AnswerResult, []domain.ChallengeEffect) {
	c, ok := step.Content.(domain.MultipleChoiceContent)
	if !ok {
		return domain.MismatchResult(), nil
	}

	idx := answer.SelectedIndex
	if idx < 0 || idx >= len(c.Options) {
		return domain.MismatchResult(), nil
	}
	opt := c.Options[idx]

	if c.Variant == domain.MCChallenge {
		// Challenge options have no notion of "correct": any in-range pick
		// is accepted and narrates its consequence.
		return domain.AnswerResult{IsCorrect: true, Feedback: opt.Consequence}, opt.Effects
	}

	return domain.AnswerResult{IsCorrect: opt.IsCorrect, Feedback: opt.Feedback}, nil
}

func checkFillBlank(step domain.Step, answer domain.SelectedAnswer) domain.AnswerResult {
	c, ok := step.Content.(domain.FillBlankContent)
	if !ok {
		return domain.MismatchResult()
	}

	correct := len(answer.UserAnswers) == len(c.Answers)
	if correct {
		for i, expected := range c.Answers {
			if !answersEqual(answer.UserAnswers[i], expected) {
				correct = false
				break
			}
		}
	}
	return domain.AnswerResult{IsCorrect: correct, Feedback: c.Feedback}
}

// answersEqual compares blank values case-insensitively, ignoring surrounding
// whitespace.
func answersEqual(got, want string) bool {
	return strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want))
}

func checkMatchColumns(step domain.Step, answer domain.SelectedAnswer) domain.AnswerResult {
	c, ok := step.Content.(domain.MatchColumnsContent)
	if !ok {
		return domain.MismatchResult()
	}

	if len(answer.UserPairs) != len(c.Pairs) {
		return domain.AnswerResult{IsCorrect: false}
	}
	for _, expected := range c.Pairs {
		found := false
		for _, got := range answer.UserPairs {
			if got == expected {
				found = true
				break
			}
		}
		if !found {
			return domain.AnswerResult{IsCorrect: false}
		}
	}
	return domain.AnswerResult{IsCorrect: true}
}

func checkSortOrder(step domain.Step, answer domain.SelectedAnswer) domain.AnswerResult {
	c, ok := step.Content.(domain.SortOrderContent)
	if !ok {
		return domain.MismatchResult()
	}
	return domain.AnswerResult{IsCorrect: sequencesEqual(answer.ArrangedWords, c.Items)}
}

func checkSelectImage(step domain.Step, answer domain.SelectedAnswer) domain.AnswerResult {
	c, ok := step.Content.(domain.SelectImageContent)
	if !ok {
		return domain.MismatchResult()
	}
	idx := answer.SelectedIndex
	if idx < 0 || idx >= len(c.Options) {
		return domain.MismatchResult()
	}
	return domain.AnswerResult{IsCorrect: c.Options[idx].IsCorrect}
}

func checkVocabulary(step domain.Step, answer domain.SelectedAnswer) domain.AnswerResult {
	if step.Word == nil {
		return domain.MismatchResult()
	}
	return domain.AnswerResult{IsCorrect: answer.SelectedWordID == step.Word.ID}
}

func checkReading(step domain.Step, answer domain.SelectedAnswer) domain.AnswerResult {
	if step.Sentence == nil {
		return domain.MismatchResult()
	}
	expected := strings.Split(step.Sentence.Text, " ")
	return domain.AnswerResult{IsCorrect: sequencesEqual(answer.ArrangedWords, expected)}
}

func checkListening(step domain.Step, answer domain.SelectedAnswer) domain.AnswerResult {
	if step.Sentence == nil {
		return domain.MismatchResult()
	}
	expected := strings.Split(step.Sentence.Translation, " ")
	return domain.AnswerResult{IsCorrect: sequencesEqual(answer.ArrangedWords, expected)}
}

func sequencesEqual(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
