package analysis

import (
	"errors"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Triage/internal/scoring"
)

// Status tells whether a task went through the scorer.
type Status string

const (
	StatusScored  Status = "scored"
	StatusSkipped Status = "skipped"
)

// SkipKind groups skip reasons for metrics and diagnostics.
type SkipKind string

const (
	SkipIncomplete SkipKind = "incomplete"
	SkipInvalid    SkipKind = "invalid"
	SkipMalformed  SkipKind = "malformed"
	SkipOverflow   SkipKind = "overflow"
)

// ScoredTask is a task record augmented with its derived score and priority.
// Skipped records carry a zero score and the Low priority that score maps to.
type ScoredTask struct {
	TaskRecord
	Score      float64          `json:"score"`
	Priority   scoring.Priority `json:"priority"`
	Status     Status           `json:"status"`
	SkipKind   SkipKind         `json:"skip_kind,omitempty"`
	SkipReason string           `json:"skip_reason,omitempty"`
	Summary    string           `json:"summary"`
}

// Result is the ordered output of one analysis pass.
type Result struct {
	RunID         uuid.UUID    `json:"run_id"`
	ReferenceDate time.Time    `json:"reference_date"`
	Tasks         []ScoredTask `json:"tasks"`
	Scored        int          `json:"scored"`
	Skipped       int          `json:"skipped"`
}

// Top returns up to n tasks from the head of the ordered list.
func (r Result) Top(n int) []ScoredTask {
	if n < 0 {
		n = 0
	}
	if n > len(r.Tasks) {
		n = len(r.Tasks)
	}
	return r.Tasks[:n]
}

// CountByTier returns how many tasks landed in each tier.
func (r Result) CountByTier() map[scoring.Tier]int {
	counts := make(map[scoring.Tier]int, 3)
	for _, t := range r.Tasks {
		counts[t.Priority.Tier]++
	}
	return counts
}

// Observer receives analysis outcomes, typically for metrics.
type Observer interface {
	ObserveTask(task ScoredTask)
	ObserveRun(result Result)
}

// Analyzer scores, classifies and orders batches of task records.
type Analyzer struct {
	scorer   *scoring.Scorer
	observer Observer
	logger   *slog.Logger
}

// NewAnalyzer creates an Analyzer. observer may be nil.
func NewAnalyzer(scorer *scoring.Scorer, observer Observer, logger *slog.Logger) *Analyzer {
	return &Analyzer{scorer: scorer, observer: observer, logger: logger}
}

// Analyze scores every record against ref and returns them ordered by descending
// score; ties keep their input order. A record that cannot be scored is kept with a
// zero score rather than failing the batch.
func (a *Analyzer) Analyze(records []TaskRecord, ref time.Time) Result {
	ref = scoring.Midnight(ref)
	result := Result{
		RunID:         uuid.New(),
		ReferenceDate: ref,
		Tasks:         make([]ScoredTask, 0, len(records)),
	}

	for _, rec := range records {
		task := a.scoreRecord(rec, ref)
		if task.Status == StatusScored {
			result.Scored++
		} else {
			result.Skipped++
			a.logger.Debug("task skipped", "run_id", result.RunID, "title", rec.Title, "reason", task.SkipReason)
		}
		if a.observer != nil {
			a.observer.ObserveTask(task)
		}
		result.Tasks = append(result.Tasks, task)
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].Score > result.Tasks[j].Score
	})

	if a.observer != nil {
		a.observer.ObserveRun(result)
	}
	a.logger.Info("analysis complete",
		"run_id", result.RunID,
		"reference_date", ref.Format(DateLayout),
		"tasks", len(result.Tasks),
		"scored", result.Scored,
		"skipped", result.Skipped,
	)
	return result
}

// Explain validates a single record and returns its full score breakdown.
func (a *Analyzer) Explain(rec TaskRecord, ref time.Time) (scoring.Breakdown, error) {
	if err := Validate(rec); err != nil {
		return scoring.Breakdown{}, err
	}
	in, err := rec.Input()
	if err != nil {
		return scoring.Breakdown{}, err
	}
	bd := a.scorer.Explain(in, scoring.Midnight(ref))
	if math.IsInf(bd.Score, 0) || math.IsNaN(bd.Score) {
		return scoring.Breakdown{}, &RecordError{Kind: SkipOverflow, Msg: "score is not a finite number"}
	}
	return bd, nil
}

func (a *Analyzer) scoreRecord(rec TaskRecord, ref time.Time) ScoredTask {
	if rec.DecodeError != "" {
		return skipped(rec, SkipMalformed, "malformed record: "+rec.DecodeError)
	}
	if err := Validate(rec); err != nil {
		var re *RecordError
		if errors.As(err, &re) {
			return skipped(rec, re.Kind, re.Msg)
		}
		return skipped(rec, SkipInvalid, err.Error())
	}
	in, err := rec.Input()
	if err != nil {
		return skipped(rec, SkipInvalid, err.Error())
	}

	score := a.scorer.Score(in, ref)
	if math.IsInf(score, 0) || math.IsNaN(score) {
		return skipped(rec, SkipOverflow, "score is not a finite number")
	}

	task := ScoredTask{
		TaskRecord: rec,
		Score:      score,
		Priority:   scoring.Classify(score),
		Status:     StatusScored,
	}
	task.Summary = Summary(task)
	return task
}

func skipped(rec TaskRecord, kind SkipKind, reason string) ScoredTask {
	task := ScoredTask{
		TaskRecord: rec,
		Score:      0,
		Priority:   scoring.Classify(0),
		Status:     StatusSkipped,
		SkipKind:   kind,
		SkipReason: reason,
	}
	task.Summary = Summary(task)
	return task
}
