// Package progression holds the gamification formulas: belt levels from
// cumulative brain power, brain-power awards per completion, and the bounded
// energy metric. All functions are pure; the activity-session engine consumes
// them through their input/output contracts only.
package progression

// Belt colors in ascending order. Each color spans ten levels, for one
// hundred tiers total.
var beltColors = []string{
	"white", "yellow", "orange", "green", "blue",
	"purple", "brown", "red", "silver", "black",
}

// Belt is a color plus a level from 1 to 10 within that color
type Belt struct {
	Color string `json:"color"`
	Level int    `json:"level"`
}

// tierThreshold returns the cumulative brain power at which tier t (0-based)
// begins. Thresholds grow triangularly so later belts cost progressively
// more.
func tierThreshold(t int) int {
	return 150 * t * (t + 1) / 2
}

// BeltForBrainPower maps cumulative brain power to a belt. Monotone: more
// brain power never yields a lower belt. Everything past the final threshold
// stays black level 10.
func BeltForBrainPower(bp int) Belt {
	tier := 0
	for t := 1; t < len(beltColors)*10; t++ {
		if bp < tierThreshold(t) {
			break
		}
		tier = t
	}
	return Belt{Color: beltColors[tier/10], Level: tier%10 + 1}
}
