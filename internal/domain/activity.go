package domain

// ActivityKind distinguishes plain scored activities from branching
// challenges with dimension effects.
type ActivityKind string

const (
	ActivityCore      ActivityKind = "core"
	ActivityChallenge ActivityKind = "challenge"
)

// Activity is one playable unit: an ordered sequence of steps inside a
// lesson. Position orders activities within their lesson.
type Activity struct {
	ID          ActivityID
	LessonID    LessonID
	Kind        ActivityKind
	Title       string
	Position    int
	IsPublished bool
}

// IsChallenge reports whether any step carries challenge-style dimension
// effects. Challenge activities open with an intro phase showing starting
// dimension values.
func IsChallenge(steps []Step) bool {
	for _, step := range steps {
		if mc, ok := step.Content.(MultipleChoiceContent); ok && mc.Variant == MCChallenge {
			return true
		}
	}
	return false
}
