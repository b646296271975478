package scoring

import (
	"math"
	"testing"
	"time"
)

var refDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func daysFromRef(n int) time.Time {
	return refDate.AddDate(0, 0, n)
}

func newTestScorer() *Scorer {
	return NewScorer(DefaultPolicy())
}

func TestDefaultPolicyValid(t *testing.T) {
	p := DefaultPolicy()
	if err := p.Validate(); err != nil {
		t.Errorf("default policy invalid: %v", err)
	}
	if p.MaxNominalRaw()*p.Scale != 250 {
		t.Errorf("expected nominal max 250, got %f", p.MaxNominalRaw()*p.Scale)
	}
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Policy)
	}{
		{"negative urgency", func(p *Policy) { p.Urgency = -1 }},
		{"negative dependency bonus", func(p *Policy) { p.DependencyBonus = -0.05 }},
		{"zero window", func(p *Policy) { p.UrgencyWindow = 0 }},
		{"zero importance scale", func(p *Policy) { p.ImportanceScale = 0 }},
		{"zero scale", func(p *Policy) { p.Scale = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestScoreWorkedExamples(t *testing.T) {
	s := newTestScorer()

	t.Run("due today, uncapped", func(t *testing.T) {
		// urgency 1, importance 1, effort 0.5, deps 0.1 -> raw 9.1 -> 227.5
		got := s.Score(Input{DueDate: refDate, EstimatedHours: 1, Importance: 10, Dependencies: 2}, refDate)
		if got != 227.5 {
			t.Errorf("expected 227.5, got %v", got)
		}
	})

	t.Run("far out, low importance", func(t *testing.T) {
		// urgency 0, importance 0, effort 0.1 -> raw 0.2 -> 5.0
		got := s.Score(Input{DueDate: daysFromRef(40), EstimatedHours: 9, Importance: 0}, refDate)
		if got != 5.0 {
			t.Errorf("expected 5.0, got %v", got)
		}
	})

	t.Run("overdue exceeds full urgency", func(t *testing.T) {
		// urgency 35/30 -> raw 4.6667 + 2 -> 166.67
		got := s.Score(Input{DueDate: daysFromRef(-5), EstimatedHours: 0, Importance: 0}, refDate)
		if math.Abs(got-166.67) > 0.001 {
			t.Errorf("expected 166.67, got %v", got)
		}
	})

	t.Run("importance out of range passes through", func(t *testing.T) {
		got := s.Score(Input{DueDate: daysFromRef(40), EstimatedHours: 0, Importance: 20}, refDate)
		if got != 250 {
			t.Errorf("expected 250, got %v", got)
		}
	})

	t.Run("one day out", func(t *testing.T) {
		// urgency 29/30, importance 0.8, effort 1/3, no deps
		want := Round2((29.0/30*4 + 0.8*4 + 2.0/3) * 25)
		got := s.Score(Input{DueDate: daysFromRef(1), EstimatedHours: 2, Importance: 8}, refDate)
		if math.Abs(got-want) > 0.001 {
			t.Errorf("expected %v, got %v", want, got)
		}
		if got <= 0 {
			t.Error("expected positive score")
		}
	})
}

func TestScoreIgnoresTimeOfDay(t *testing.T) {
	s := newTestScorer()
	in := Input{DueDate: time.Date(2024, 6, 11, 23, 59, 0, 0, time.UTC), EstimatedHours: 3, Importance: 6}
	base := s.Score(in, refDate)
	late := s.Score(in, refDate.Add(22*time.Hour))
	if base != late {
		t.Errorf("time of day changed the score: %v vs %v", base, late)
	}
}

func TestDaysLeft(t *testing.T) {
	plus5 := time.FixedZone("plus5", 5*60*60)
	tests := []struct {
		name string
		due  time.Time
		ref  time.Time
		want int
	}{
		{"same day", refDate, refDate, 0},
		{"tomorrow", daysFromRef(1), refDate, 1},
		{"overdue", daysFromRef(-3), refDate, -3},
		{"late evening due", time.Date(2024, 6, 2, 23, 59, 0, 0, time.UTC), time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), 1},
		{"civil date in other zone", time.Date(2024, 6, 3, 1, 0, 0, 0, plus5), refDate, 2},
		{"across leap day", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysLeft(tt.due, tt.ref); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreNonNegative(t *testing.T) {
	s := newTestScorer()
	for days := -60; days <= 60; days += 5 {
		for hours := 0.0; hours <= 40; hours += 4 {
			for importance := 0.0; importance <= 10; importance++ {
				got := s.Score(Input{DueDate: daysFromRef(days), EstimatedHours: hours, Importance: importance}, refDate)
				if got < 0 {
					t.Fatalf("negative score %v for days=%d hours=%v importance=%v", got, days, hours, importance)
				}
			}
		}
	}
}

func TestScoreMonotonicInDaysLeft(t *testing.T) {
	s := newTestScorer()
	prev := math.Inf(1)
	for days := -30; days <= 30; days++ {
		got := s.Score(Input{DueDate: daysFromRef(days), EstimatedHours: 2, Importance: 5, Dependencies: 1}, refDate)
		if got > prev {
			t.Fatalf("score rose from %v to %v at days_left=%d", prev, got, days)
		}
		prev = got
	}
}

func TestScoreMonotonicInHours(t *testing.T) {
	s := newTestScorer()
	prev := math.Inf(1)
	for hours := 0.0; hours <= 50; hours += 0.5 {
		got := s.Score(Input{DueDate: daysFromRef(7), EstimatedHours: hours, Importance: 5}, refDate)
		if got > prev {
			t.Fatalf("score rose from %v to %v at hours=%v", prev, got, hours)
		}
		prev = got
	}
}

func TestScoreMonotonicInDependencies(t *testing.T) {
	s := newTestScorer()
	prev := math.Inf(-1)
	for deps := 0; deps <= 20; deps++ {
		got := s.Score(Input{DueDate: daysFromRef(7), EstimatedHours: 2, Importance: 5, Dependencies: deps}, refDate)
		if got < prev {
			t.Fatalf("score fell from %v to %v at deps=%d", prev, got, deps)
		}
		prev = got
	}
}

func TestScoreMonotonicInImportance(t *testing.T) {
	s := newTestScorer()
	prev := math.Inf(-1)
	for importance := 0.0; importance <= 10; importance += 0.5 {
		got := s.Score(Input{DueDate: daysFromRef(7), EstimatedHours: 2, Importance: importance}, refDate)
		if got < prev {
			t.Fatalf("score fell from %v to %v at importance=%v", prev, got, importance)
		}
		prev = got
	}
}

func TestExplain(t *testing.T) {
	s := newTestScorer()
	b := s.Explain(Input{DueDate: refDate, EstimatedHours: 1, Importance: 10, Dependencies: 2}, refDate)

	if b.DaysLeft != 0 {
		t.Errorf("expected days_left 0, got %d", b.DaysLeft)
	}
	want := []struct {
		name     string
		value    float64
		weighted float64
	}{
		{"urgency", 1, 4},
		{"importance", 1, 4},
		{"effort", 0.5, 1},
		{"dependencies", 0.1, 0.1},
	}
	if len(b.Factors) != len(want) {
		t.Fatalf("expected %d factors, got %d", len(want), len(b.Factors))
	}
	for i, w := range want {
		f := b.Factors[i]
		if f.Name != w.name {
			t.Errorf("factor %d: expected %s, got %s", i, w.name, f.Name)
		}
		if math.Abs(f.Value-w.value) > 1e-9 {
			t.Errorf("%s: expected value %v, got %v", w.name, w.value, f.Value)
		}
		if math.Abs(f.Weighted-w.weighted) > 1e-9 {
			t.Errorf("%s: expected weighted %v, got %v", w.name, w.weighted, f.Weighted)
		}
		if f.Reason == "" {
			t.Errorf("%s: expected a reason", w.name)
		}
	}
	if math.Abs(b.Raw-9.1) > 1e-9 {
		t.Errorf("expected raw 9.1, got %v", b.Raw)
	}
	if b.Score != 227.5 {
		t.Errorf("expected score 227.5, got %v", b.Score)
	}
	if b.Priority.Tier != TierHigh {
		t.Errorf("expected High, got %s", b.Priority.Tier)
	}
}

func TestUrgencyReasons(t *testing.T) {
	s := newTestScorer()
	tests := []struct {
		days int
		want string
	}{
		{0, "due today"},
		{-2, "overdue by 2 day(s)"},
		{5, "due in 5 day(s)"},
		{30, "outside 30-day window"},
	}
	for _, tt := range tests {
		if got := s.urgencyFactor(tt.days).Reason; got != tt.want {
			t.Errorf("days=%d: expected %q, got %q", tt.days, tt.want, got)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.125, 0.13},
		{-0.125, -0.13},
		{1.234, 1.23},
		{1.236, 1.24},
		{227.5, 227.5},
		{0.994999, 0.99},
		{5, 5},
		{1.005, 1},       // stored as 1.00499999...
		{-0.005, -0.01}, // half away from zero, unlike Math.round
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
