package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MikeSquared-Agency/Triage/internal/analysis"
)

// Metrics holds the Prometheus instruments for analysis runs.
type Metrics struct {
	Analyses     prometheus.Counter
	TasksScored  prometheus.Counter
	TasksSkipped *prometheus.CounterVec
	BulkRejected *prometheus.CounterVec
	Priorities   *prometheus.CounterVec
	Scores       prometheus.Histogram
	BatchSize    prometheus.Histogram
}

// New registers all instruments with registry.
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Analyses: factory.NewCounter(prometheus.CounterOpts{
			Name: "triage_analyses_total",
			Help: "Total number of analysis passes",
		}),
		TasksScored: factory.NewCounter(prometheus.CounterOpts{
			Name: "triage_tasks_scored_total",
			Help: "Total number of task records scored",
		}),
		TasksSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_tasks_skipped_total",
			Help: "Task records kept with a zero score, by reason",
		}, []string{"reason"}),
		BulkRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_bulk_rejected_total",
			Help: "Bulk payloads rejected as a whole, by reason",
		}, []string{"reason"}),
		Priorities: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_priority_total",
			Help: "Tasks classified per priority tier",
		}, []string{"tier"}),
		Scores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "triage_score",
			Help:    "Distribution of computed scores",
			Buckets: []float64{10, 20, 40, 70, 100, 150, 250},
		}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "triage_batch_size",
			Help:    "Number of task records per analysis pass",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
}

// ObserveTask implements analysis.Observer.
func (m *Metrics) ObserveTask(task analysis.ScoredTask) {
	if task.Status == analysis.StatusSkipped {
		m.TasksSkipped.WithLabelValues(string(task.SkipKind)).Inc()
	} else {
		m.TasksScored.Inc()
		m.Scores.Observe(task.Score)
	}
	m.Priorities.WithLabelValues(string(task.Priority.Tier)).Inc()
}

// ObserveRun implements analysis.Observer.
func (m *Metrics) ObserveRun(result analysis.Result) {
	m.Analyses.Inc()
	m.BatchSize.Observe(float64(len(result.Tasks)))
}

// ObserveBulkRejected counts a rejected bulk payload.
func (m *Metrics) ObserveBulkRejected(reason string) {
	m.BulkRejected.WithLabelValues(reason).Inc()
}
