package player

import "github.com/obilearn/obi/internal/domain"

// Action is a session state machine input. Reduce applies exactly one action
// to one state; actions invalid for the current phase are no-ops.
type Action interface {
	isAction()
}

// SelectAnswer stores or overwrites the learner's answer for a step without
// changing phase.
type SelectAnswer struct {
	StepID domain.StepID
	Answer domain.SelectedAnswer
}

// CheckAnswer records the checked result for a step: timing, effects, the
// authoritative StepResult, and the transition to feedback (or straight to
// the next step for matchColumns).
type CheckAnswer struct {
	StepID  domain.StepID
	Result  domain.AnswerResult
	Effects []domain.ChallengeEffect
}

// Continue leaves the intro or feedback phase: from intro it starts play,
// from feedback it advances to the next step or completes the activity.
type Continue struct{}

// Direction selects where NavigateStep moves
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// NavigateStep browses between steps. Only valid while the current step is
// static, which carries no answer to lose.
type NavigateStep struct {
	Direction Direction
}

// Complete forces the completed phase from any non-completed phase
type Complete struct{}

// Restart resets the session to a fresh attempt over the same steps
type Restart struct{}

func (SelectAnswer) isAction() {}
func (CheckAnswer) isAction()  {}
func (Continue) isAction()     {}
func (NavigateStep) isAction() {}
func (Complete) isAction()     {}
func (Restart) isAction()      {}
