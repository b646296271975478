package scoring

// Tier is a discrete priority classification.
type Tier string

const (
	TierHigh   Tier = "High"
	TierMedium Tier = "Medium"
	TierLow    Tier = "Low"
)

// Inclusive lower bounds of each tier.
const (
	HighThreshold   = 70.0
	MediumThreshold = 40.0
)

// Priority pairs a tier with the lowercase tag used by renderers (badge class, colour).
type Priority struct {
	Tier Tier   `json:"level"`
	Tag  string `json:"tag"`
}

// Classify maps any score, including negative or above-100 ones, to a tier.
func Classify(score float64) Priority {
	switch {
	case score >= HighThreshold:
		return Priority{Tier: TierHigh, Tag: "high"}
	case score >= MediumThreshold:
		return Priority{Tier: TierMedium, Tag: "medium"}
	default:
		return Priority{Tier: TierLow, Tag: "low"}
	}
}

// Tiers lists every tier from highest to lowest.
func Tiers() []Tier {
	return []Tier{TierHigh, TierMedium, TierLow}
}
