package domain

import "sort"

// EffectKind is the signed tag attached to a challenge option
type EffectKind string

const (
	EffectPositive EffectKind = "positive"
	EffectNeutral  EffectKind = "neutral"
	EffectNegative EffectKind = "negative"
)

// Delta maps the tag to its dimension delta (+1/0/-1)
func (e EffectKind) Delta() int {
	switch e {
	case EffectPositive:
		return 1
	case EffectNegative:
		return -1
	}
	return 0
}

// IsValid reports whether the tag is one of positive/neutral/negative
func (e EffectKind) IsValid() bool {
	switch e {
	case EffectPositive, EffectNeutral, EffectNegative:
		return true
	}
	return false
}

// ChallengeEffect is a single named delta produced by a challenge option
type ChallengeEffect struct {
	Dimension string
	Effect    EffectKind
}

// DimensionInventory maps dimension names to signed running totals
type DimensionInventory map[string]int

// NewDimensionInventory seeds a zero total for every dimension mentioned in
// any challenge option of the given steps, so dimensions are visible before
// any choice is made. Activities without challenge steps get an empty
// inventory.
func NewDimensionInventory(steps []Step) DimensionInventory {
	inv := DimensionInventory{}
	for _, step := range steps {
		mc, ok := step.Content.(MultipleChoiceContent)
		if !ok || mc.Variant != MCChallenge {
			continue
		}
		for _, opt := range mc.Options {
			for _, eff := range opt.Effects {
				if _, seen := inv[eff.Dimension]; !seen {
					inv[eff.Dimension] = 0
				}
			}
		}
	}
	return inv
}

// Apply adds the effect deltas to the inventory totals
func (inv DimensionInventory) Apply(effects []ChallengeEffect) {
	for _, eff := range effects {
		inv[eff.Dimension] += eff.Effect.Delta()
	}
}

// Clone returns an independent copy of the inventory
func (inv DimensionInventory) Clone() DimensionInventory {
	out := make(DimensionInventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// Reset zeroes every total while keeping the dimension keys, so the UI can
// still render them at zero after a restart.
func (inv DimensionInventory) Reset() {
	for k := range inv {
		inv[k] = 0
	}
}

// AnyNegative reports whether any dimension total is strictly negative. A
// single negative dimension fails a whole challenge.
func (inv DimensionInventory) AnyNegative() bool {
	for _, total := range inv {
		if total < 0 {
			return true
		}
	}
	return false
}

// DimensionEntry is one row of a sorted inventory rendering
type DimensionEntry struct {
	Name  string
	Total int
}

// Entries returns the inventory sorted by total descending, ties broken
// alphabetically by name.
func (inv DimensionInventory) Entries() []DimensionEntry {
	entries := make([]DimensionEntry, 0, len(inv))
	for name, total := range inv {
		entries = append(entries, DimensionEntry{Name: name, Total: total})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}
