package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/MikeSquared-Agency/Triage/internal/analysis"
	"github.com/MikeSquared-Agency/Triage/internal/hermes"
	"github.com/MikeSquared-Agency/Triage/internal/metrics"
)

// Deps wires the HTTP surface to the analysis core.
type Deps struct {
	Analyzer  *analysis.Analyzer
	Metrics   *metrics.Metrics
	Announcer *hermes.Announcer
	Logger    *slog.Logger

	SuggestLimit    int
	MaxTasks        int
	MaxBodyBytes    int64
	RateLimitPerMin int
	CORSOrigins     []string

	// Now supplies the default reference date; nil means time.Now.
	Now func() time.Time
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(d.Logger))
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: d.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler)
	}
	if d.RateLimitPerMin > 0 {
		r.Use(RateLimitMiddleware(d.RateLimitPerMin))
	}

	h := NewAnalyzeHandler(d)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", h.Analyze)
		r.Post("/suggest", h.Suggest)
		r.Post("/explain", h.Explain)
		r.Post("/cards", h.Cards)
	})

	return r
}

// NewMetricsRouter serves health and the given registry; a nil gatherer serves the
// default registry.
func NewMetricsRouter(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer == nil {
		r.Handle("/metrics", promhttp.Handler())
	} else {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}
