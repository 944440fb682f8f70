package player

import (
	"time"

	"github.com/obilearn/obi/internal/domain"
)

// Reduce applies one action to the session state and returns the resulting
// state. Timing is derived from the caller-supplied clock reading, never from
// background timers. The input state is never mutated; when the action is
// invalid for the current phase the exact same pointer comes back.
func Reduce(s *State, action Action, now time.Time) *State {
	switch a := action.(type) {
	case SelectAnswer:
		return reduceSelectAnswer(s, a)
	case CheckAnswer:
		return reduceCheckAnswer(s, a, now)
	case Continue:
		return reduceContinue(s, now)
	case NavigateStep:
		return reduceNavigate(s, a, now)
	case Complete:
		if s.Phase == PhaseCompleted {
			return s
		}
		c := s.clone()
		c.Phase = PhaseCompleted
		return c
	case Restart:
		return reduceRestart(s, now)
	}
	return s
}

func reduceSelectAnswer(s *State, a SelectAnswer) *State {
	if s.Phase != PhasePlaying && s.Phase != PhaseFeedback {
		return s
	}
	c := s.clone()
	c.SelectedAnswers[a.StepID] = a.Answer
	return c
}

func reduceCheckAnswer(s *State, a CheckAnswer, now time.Time) *State {
	if s.Phase != PhasePlaying {
		return s
	}
	step, ok := s.CurrentStep()
	if !ok || !step.ID.Equal(a.StepID) {
		return s
	}
	// A step is checked at most once; its first result is authoritative.
	if _, done := s.Results[a.StepID]; done {
		return s
	}

	c := s.clone()
	c.StepTimings[a.StepID] = domain.StepTiming{
		AnsweredAt:      now,
		DayOfWeek:       int(now.Weekday()),
		HourOfDay:       now.Hour(),
		DurationSeconds: int(now.Sub(s.StepStartedAt).Seconds()),
	}
	c.Dimensions.Apply(a.Effects)
	c.Results[a.StepID] = domain.StepResult{
		StepID:  a.StepID,
		Answer:  c.SelectedAnswers[a.StepID],
		Result:  a.Result,
		Effects: a.Effects,
	}

	// matchColumns self-validates pair-by-pair during interaction, so there
	// is no feedback screen: checking cascades straight to the next step.
	if step.Kind == domain.KindMatchColumns {
		return advance(c, now)
	}

	c.Phase = PhaseFeedback
	return c
}

func reduceContinue(s *State, now time.Time) *State {
	switch s.Phase {
	case PhaseIntro:
		c := s.clone()
		c.Phase = PhasePlaying
		c.StepStartedAt = now
		return c
	case PhaseFeedback:
		return advance(s.clone(), now)
	}
	return s
}

// advance moves past the current step: to the next one, or to completed when
// the current step was last.
func advance(c *State, now time.Time) *State {
	if c.CurrentStepIndex >= len(c.Steps)-1 {
		c.Phase = PhaseCompleted
		return c
	}
	c.CurrentStepIndex++
	c.Phase = PhasePlaying
	c.StepStartedAt = now
	return c
}

func reduceNavigate(s *State, a NavigateStep, now time.Time) *State {
	if s.Phase != PhasePlaying {
		return s
	}
	step, ok := s.CurrentStep()
	if !ok || step.Kind != domain.KindStatic {
		return s
	}

	switch a.Direction {
	case DirectionNext:
		return advance(s.clone(), now)
	case DirectionPrev:
		if s.CurrentStepIndex == 0 {
			return s
		}
		c := s.clone()
		c.CurrentStepIndex--
		c.StepStartedAt = now
		return c
	}
	return s
}

func reduceRestart(s *State, now time.Time) *State {
	c := s.clone()
	c.CurrentStepIndex = 0
	c.Phase = PhasePlaying
	c.SelectedAnswers = map[domain.StepID]domain.SelectedAnswer{}
	c.Results = map[domain.StepID]domain.StepResult{}
	c.StepTimings = map[domain.StepID]domain.StepTiming{}
	// Dimension keys persist at zero so the UI can keep rendering them.
	c.Dimensions.Reset()
	c.StartedAt = now
	c.StepStartedAt = now
	return c
}
