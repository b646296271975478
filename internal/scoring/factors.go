package scoring

import (
	"fmt"
	"math"
	"time"
)

// FactorResult captures one factor's contribution to the raw score.
type FactorResult struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Reason   string  `json:"reason"`
}

// Input bundles everything the scorer reads from a task record.
type Input struct {
	DueDate        time.Time
	EstimatedHours float64
	Importance     float64
	Dependencies   int
}

// Midnight truncates t to the start of its calendar day in UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysLeft returns the number of whole days from ref until due, both taken at midnight.
// Overdue tasks produce negative values.
func DaysLeft(due, ref time.Time) int {
	diff := Midnight(due).Sub(Midnight(ref))
	return int(math.Ceil(diff.Hours() / 24))
}

// --- Individual factor calculators ---

// urgencyFactor scales linearly from 0 (window or more days out) to 1 (due today).
// It is floored at 0 but not capped, so overdue tasks score above 1.
func (s *Scorer) urgencyFactor(daysLeft int) FactorResult {
	window := float64(s.policy.UrgencyWindow)
	value := math.Max(window-float64(daysLeft), 0) / window

	reason := fmt.Sprintf("due in %d day(s)", daysLeft)
	switch {
	case daysLeft < 0:
		reason = fmt.Sprintf("overdue by %d day(s)", -daysLeft)
	case daysLeft == 0:
		reason = "due today"
	case daysLeft >= s.policy.UrgencyWindow:
		reason = fmt.Sprintf("outside %d-day window", s.policy.UrgencyWindow)
	}
	return FactorResult{Name: "urgency", Value: value, Weight: s.policy.Urgency, Reason: reason}
}

// importanceFactor is a passthrough of importance on a 0-1 scale; out-of-range input is kept.
func (s *Scorer) importanceFactor(importance float64) FactorResult {
	return FactorResult{
		Name:   "importance",
		Value:  importance / s.policy.ImportanceScale,
		Weight: s.policy.Importance,
		Reason: fmt.Sprintf("importance %g of %g", importance, s.policy.ImportanceScale),
	}
}

// effortFactor favours small tasks: 0h -> 1.0, 1h -> 0.5, 9h -> 0.1.
func (s *Scorer) effortFactor(hours float64) FactorResult {
	return FactorResult{
		Name:   "effort",
		Value:  1 / (hours + 1),
		Weight: s.policy.Effort,
		Reason: fmt.Sprintf("%g estimated hour(s)", hours),
	}
}

// dependencyFactor is an unbounded linear bonus per blocked task.
func (s *Scorer) dependencyFactor(count int) FactorResult {
	reason := "blocks nothing"
	if count > 0 {
		reason = fmt.Sprintf("blocks %d task(s)", count)
	}
	return FactorResult{
		Name:   "dependencies",
		Value:  float64(count) * s.policy.DependencyBonus,
		Weight: s.policy.Dependencies,
		Reason: reason,
	}
}
