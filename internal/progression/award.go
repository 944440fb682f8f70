package progression

import "github.com/obilearn/obi/internal/domain"

const (
	pointsPerCorrect   = 10
	completionBonus    = 20
	challengeSuccessBP = 50
	challengeFailBP    = 10
)

// Energy bounds and the fixed daily decay applied for days without activity.
// The decay constant is shared with the progress chart's gap-filling rule.
const (
	EnergyMin        = 0
	EnergyMax        = 100
	DailyEnergyDecay = 5
)

// BrainPowerAward computes the BP earned for one completed activity. Score is
// nil for all-static activities, which still earn the completion bonus.
// Challenge activities award a flat amount by outcome; completing a failed
// challenge still pays a little, since BP never decreases.
func BrainPowerAward(score *domain.Score, challenge, challengeSucceeded bool) int {
	if challenge {
		if challengeSucceeded {
			return challengeSuccessBP
		}
		return challengeFailBP
	}
	if score == nil {
		return completionBonus
	}
	return pointsPerCorrect*score.CorrectCount + completionBonus
}

// EnergyDelta computes the signed energy change from one completion: correct
// answers raise it, incorrect answers lower it.
func EnergyDelta(correct, incorrect int) int {
	return 2*correct - incorrect
}

// ClampEnergy bounds an energy value to [EnergyMin, EnergyMax]
func ClampEnergy(e int) int {
	if e < EnergyMin {
		return EnergyMin
	}
	if e > EnergyMax {
		return EnergyMax
	}
	return e
}
