package scoring

import (
	"math"
	"time"
)

// Breakdown captures the complete scoring output for a single task.
type Breakdown struct {
	DaysLeft int            `json:"days_left"`
	Factors  []FactorResult `json:"factors"`
	Raw      float64        `json:"raw"`
	Score    float64        `json:"score"`
	Priority Priority       `json:"priority"`
}

// Scorer computes the weighted additive priority score. It holds no state besides
// its policy and reads no clock: the reference date is always passed in.
type Scorer struct {
	policy Policy
}

// NewScorer creates a Scorer with the given policy.
func NewScorer(policy Policy) *Scorer {
	return &Scorer{policy: policy}
}

// Policy returns the constants the scorer was built with.
func (s *Scorer) Policy() Policy {
	return s.policy
}

// Score returns the rounded score for in relative to ref.
func (s *Scorer) Score(in Input, ref time.Time) float64 {
	return s.Explain(in, ref).Score
}

// Explain computes the score and keeps every intermediate value.
func (s *Scorer) Explain(in Input, ref time.Time) Breakdown {
	daysLeft := DaysLeft(in.DueDate, ref)

	factors := []FactorResult{
		s.urgencyFactor(daysLeft),
		s.importanceFactor(in.Importance),
		s.effortFactor(in.EstimatedHours),
		s.dependencyFactor(in.Dependencies),
	}

	var raw float64
	for i := range factors {
		factors[i].Weighted = factors[i].Value * factors[i].Weight
		raw += factors[i].Weighted
	}

	score := Round2(raw * s.policy.Scale)
	return Breakdown{
		DaysLeft: daysLeft,
		Factors:  factors,
		Raw:      raw,
		Score:    score,
		Priority: Classify(score),
	}
}

// Round2 rounds v to two decimal places, halves away from zero.
// Values whose binary form sits just below a half (1.005 is stored as 1.00499...)
// round down.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
