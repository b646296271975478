package scoring

import (
	"fmt"
)

// Policy holds the fixed constants of the prioritization formula.
//
//	raw   = urgency*Urgency + importance*Importance + effort*Effort + deps*DependencyBonus*Dependencies
//	score = round2(raw * Scale)
type Policy struct {
	Urgency         float64
	Importance      float64
	Effort          float64
	Dependencies    float64
	DependencyBonus float64
	UrgencyWindow   int // days
	ImportanceScale float64
	Scale           float64
}

// DefaultPolicy returns the production weight distribution. Urgency and importance
// dominate equally, effort breaks ties and each dependency adds a small nudge.
func DefaultPolicy() Policy {
	return Policy{
		Urgency:         4,
		Importance:      4,
		Effort:          2,
		Dependencies:    1,
		DependencyBonus: 0.05,
		UrgencyWindow:   30,
		ImportanceScale: 10,
		Scale:           25,
	}
}

// MaxNominalRaw is the raw value reached by a task due today with importance 10,
// zero estimated hours and no dependencies.
func (p Policy) MaxNominalRaw() float64 {
	return p.Urgency + p.Importance + p.Effort
}

// Validate checks that no weight is negative and that the divisors are usable.
func (p Policy) Validate() error {
	for name, v := range p.weights() {
		if v < 0 {
			return fmt.Errorf("negative %s weight: %f", name, v)
		}
	}
	if p.UrgencyWindow <= 0 {
		return fmt.Errorf("urgency window must be positive, got %d", p.UrgencyWindow)
	}
	if p.ImportanceScale <= 0 {
		return fmt.Errorf("importance scale must be positive, got %f", p.ImportanceScale)
	}
	if p.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %f", p.Scale)
	}
	return nil
}

func (p Policy) weights() map[string]float64 {
	return map[string]float64{
		"urgency":          p.Urgency,
		"importance":       p.Importance,
		"effort":           p.Effort,
		"dependencies":     p.Dependencies,
		"dependency_bonus": p.DependencyBonus,
	}
}
