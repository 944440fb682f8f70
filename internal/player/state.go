// Package player implements the client-side session state machine: a pure
// reducer that walks a learner through one activity's steps. Every transition
// takes the current state and an action and returns a new state; transitions
// invalid for the current phase return the identical state pointer, so
// duplicate or replayed dispatches are safe.
package player

import (
	"maps"
	"time"

	"github.com/obilearn/obi/internal/domain"
)

// Phase is the session lifecycle position
type Phase string

const (
	PhaseIntro     Phase = "intro"
	PhasePlaying   Phase = "playing"
	PhaseFeedback  Phase = "feedback"
	PhaseCompleted Phase = "completed"
)

// State is the session aggregate for one activity attempt. It is constructed
// fresh per attempt and owned by a single learner's view; Reduce never
// mutates a State in place.
type State struct {
	ActivityID       domain.ActivityID
	Steps            []domain.Step // immutable snapshot
	CurrentStepIndex int
	Phase            Phase

	SelectedAnswers map[domain.StepID]domain.SelectedAnswer
	Results         map[domain.StepID]domain.StepResult
	Dimensions      domain.DimensionInventory

	StartedAt     time.Time
	StepStartedAt time.Time
	StepTimings   map[domain.StepID]domain.StepTiming
}

// NewState creates a fresh session over an immutable step snapshot. Sessions
// with any challenge dimension open in the intro phase, which shows the
// starting dimension values; everything else starts playing immediately.
func NewState(activityID domain.ActivityID, steps []domain.Step, now time.Time) *State {
	dims := domain.NewDimensionInventory(steps)
	phase := PhasePlaying
	if len(dims) > 0 {
		phase = PhaseIntro
	}
	return &State{
		ActivityID:      activityID,
		Steps:           steps,
		Phase:           phase,
		SelectedAnswers: map[domain.StepID]domain.SelectedAnswer{},
		Results:         map[domain.StepID]domain.StepResult{},
		Dimensions:      dims,
		StartedAt:       now,
		StepStartedAt:   now,
		StepTimings:     map[domain.StepID]domain.StepTiming{},
	}
}

// CurrentStep returns the step at the current index
func (s *State) CurrentStep() (domain.Step, bool) {
	if s.CurrentStepIndex < 0 || s.CurrentStepIndex >= len(s.Steps) {
		return domain.Step{}, false
	}
	return s.Steps[s.CurrentStepIndex], true
}

// clone returns a shallow copy with independent maps, leaving the step
// snapshot shared.
func (s *State) clone() *State {
	c := *s
	c.SelectedAnswers = maps.Clone(s.SelectedAnswers)
	c.Results = maps.Clone(s.Results)
	c.StepTimings = maps.Clone(s.StepTimings)
	c.Dimensions = s.Dimensions.Clone()
	return &c
}
