package analysis

import (
	"fmt"
	"strconv"

	"github.com/MikeSquared-Agency/Triage/internal/scoring"
)

// FormatScore prints a score with the fewest digits that round-trip (227.5, 5, 81.67).
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// Summary is the one-line description shown on a task card.
func Summary(t ScoredTask) string {
	var s string
	switch t.Priority.Tier {
	case scoring.TierHigh:
		s = "Urgent task with high importance. Score: " + FormatScore(t.Score)
	case scoring.TierMedium:
		s = "Moderately urgent task. Score: " + FormatScore(t.Score)
	default:
		s = "Lower priority task due further out. Score: " + FormatScore(t.Score)
	}
	if n := len(t.Dependencies); n > 0 {
		s += fmt.Sprintf(". Blocks %d task(s).", n)
	}
	return s
}
