package hermes

import (
	"context"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/Triage/internal/analysis"
)

// Announcer turns analysis outcomes into bus events. Publishing is best effort:
// failures are logged and never reach the caller.
type Announcer struct {
	pub     Publisher
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewAnnouncer returns an Announcer; a nil pub disables publishing.
func NewAnnouncer(pub Publisher, timeout time.Duration, logger *slog.Logger) *Announcer {
	return &Announcer{pub: pub, timeout: timeout, logger: logger, now: time.Now}
}

// Enabled reports whether events are sent anywhere.
func (a *Announcer) Enabled() bool {
	return a != nil && a.pub != nil
}

// AnalysisCompleted publishes a summary of result and one event per user-facing notice.
func (a *Announcer) AnalysisCompleted(ctx context.Context, result analysis.Result, notices []string) {
	if !a.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	runID := result.RunID.String()
	tiers := make(map[string]int, 3)
	for tier, n := range result.CountByTier() {
		tiers[string(tier)] = n
	}
	evt := AnalysisCompletedEvent{
		RunID:         runID,
		ReferenceDate: result.ReferenceDate.Format(analysis.DateLayout),
		Tasks:         len(result.Tasks),
		Scored:        result.Scored,
		Skipped:       result.Skipped,
		Tiers:         tiers,
		Timestamp:     a.now().UTC(),
	}
	if top := result.Top(1); len(top) == 1 && top[0].Status == analysis.StatusScored {
		evt.TopTitle = top[0].Title
		evt.TopScore = top[0].Score
	}
	a.publish(ctx, SubjectAnalysisCompleted(runID), evt)

	for _, n := range notices {
		a.publish(ctx, SubjectNotice(runID), NoticeEvent{
			RunID:     runID,
			Notice:    n,
			Timestamp: a.now().UTC(),
		})
	}
}

func (a *Announcer) publish(ctx context.Context, subject string, evt interface{}) {
	if err := a.pub.Publish(ctx, subject, evt); err != nil {
		a.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
