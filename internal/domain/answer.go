package domain

// SelectedAnswer is the tagged union of per-kind submitted answers. Kind
// names the variant; only the fields of that variant are meaningful. An
// answer is only ever checked against a step of the same kind - checking
// across kinds yields the fixed mismatch result, never a panic.
type SelectedAnswer struct {
	Kind StepKind `json:"kind"`

	// multipleChoice, selectImage
	SelectedIndex int `json:"selectedIndex,omitempty"`

	// fillBlank: positional answers for each blank
	UserAnswers []string `json:"userAnswers,omitempty"`

	// matchColumns
	UserPairs []MatchPair `json:"userPairs,omitempty"`

	// sortOrder, reading, listening: the arranged word sequence
	ArrangedWords []string `json:"arrangedWords,omitempty"`

	// vocabulary
	SelectedWordID string `json:"selectedWordId,omitempty"`
}

// AnswerResult is the outcome of checking one answer. Feedback is empty when
// the step provides none (mismatch, out-of-range selection).
type AnswerResult struct {
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback,omitempty"`
}

// MismatchResult is the fixed result for kind mismatches, missing references
// and static steps: incorrect, no feedback, no effects.
func MismatchResult() AnswerResult {
	return AnswerResult{IsCorrect: false}
}

// StepResult is the authoritative record for one checked step within a
// session. A step is checked at most once.
type StepResult struct {
	StepID  StepID
	Answer  SelectedAnswer
	Result  AnswerResult
	Effects []ChallengeEffect
}

// Score is the aggregate for non-challenge activities. A session whose
// checked steps were all static has no Score at all, which is distinct from
// a zero Score.
type Score struct {
	CorrectCount int `json:"correctCount"`
	TotalCount   int `json:"totalCount"`
}
