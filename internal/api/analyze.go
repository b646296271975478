package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Triage/internal/analysis"
	"github.com/MikeSquared-Agency/Triage/internal/hermes"
	"github.com/MikeSquared-Agency/Triage/internal/intake"
	"github.com/MikeSquared-Agency/Triage/internal/metrics"
	"github.com/MikeSquared-Agency/Triage/internal/render"
	"github.com/MikeSquared-Agency/Triage/internal/scoring"
)

// AnalyzeRequest is the body shared by analyze, suggest and cards.
type AnalyzeRequest struct {
	// Task is the single-entry form, fields as typed.
	Task intake.Form `json:"task"`
	// Tasks is a structured array of records.
	Tasks json.RawMessage `json:"tasks,omitempty"`
	// Bulk is pasted JSON text, decoded with the same rules as Tasks.
	Bulk          string `json:"bulk,omitempty"`
	ReferenceDate string `json:"reference_date,omitempty"`
}

type AnalyzeResponse struct {
	RunID         uuid.UUID             `json:"run_id"`
	ReferenceDate string                `json:"reference_date"`
	Tasks         []analysis.ScoredTask `json:"tasks"`
	Scored        int                   `json:"scored"`
	Skipped       int                   `json:"skipped"`
	Notices       []string              `json:"notices"`
}

type SuggestResponse struct {
	RunID         uuid.UUID             `json:"run_id"`
	ReferenceDate string                `json:"reference_date"`
	Top           []analysis.ScoredTask `json:"top"`
	Notices       []string              `json:"notices"`
}

type ExplainRequest struct {
	Task          analysis.TaskRecord `json:"task"`
	ReferenceDate string              `json:"reference_date,omitempty"`
}

type ExplainResponse struct {
	ReferenceDate string `json:"reference_date"`
	scoring.Breakdown
	Summary string `json:"summary"`
}

type AnalyzeHandler struct {
	analyzer     *analysis.Analyzer
	metrics      *metrics.Metrics
	announcer    *hermes.Announcer
	suggestLimit int
	maxTasks     int
	maxBody      int64
	now          func() time.Time
	logger       *slog.Logger
}

func NewAnalyzeHandler(d Deps) *AnalyzeHandler {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &AnalyzeHandler{
		analyzer:     d.Analyzer,
		metrics:      d.Metrics,
		announcer:    d.Announcer,
		suggestLimit: d.SuggestLimit,
		maxTasks:     d.MaxTasks,
		maxBody:      d.MaxBodyBytes,
		now:          now,
		logger:       d.Logger,
	}
}

// Analyze scores every submitted task.
// POST /api/v1/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	result, notices, ok := h.run(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		RunID:         result.RunID,
		ReferenceDate: result.ReferenceDate.Format(analysis.DateLayout),
		Tasks:         result.Tasks,
		Scored:        result.Scored,
		Skipped:       result.Skipped,
		Notices:       notices,
	})
}

// Suggest returns the highest-scoring tasks. The optional limit query parameter
// overrides the configured count.
// POST /api/v1/suggest
func (h *AnalyzeHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	limit := h.suggestLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	result, notices, ok := h.run(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SuggestResponse{
		RunID:         result.RunID,
		ReferenceDate: result.ReferenceDate.Format(analysis.DateLayout),
		Top:           result.Top(limit),
		Notices:       notices,
	})
}

// Cards renders the analyzed tasks as HTML cards.
// POST /api/v1/cards
func (h *AnalyzeHandler) Cards(w http.ResponseWriter, r *http.Request) {
	result, notices, ok := h.run(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.HTML(&buf, result.Tasks, notices); err != nil {
		h.logger.Error("render cards", "run_id", result.RunID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "render failed"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Explain returns the factor breakdown for one task.
// POST /api/v1/explain
func (h *AnalyzeHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req ExplainRequest
	if !h.decode(w, r, &req) {
		return
	}
	ref, err := h.referenceDate(req.ReferenceDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	bd, err := h.analyzer.Explain(req.Task, ref)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ExplainResponse{
		ReferenceDate: ref.Format(analysis.DateLayout),
		Breakdown:     bd,
		Summary: analysis.Summary(analysis.ScoredTask{
			TaskRecord: req.Task,
			Score:      bd.Score,
			Priority:   bd.Priority,
			Status:     analysis.StatusScored,
		}),
	})
}

// run decodes the request, gathers records from every input and analyzes them.
// On failure it has already written the error response.
func (h *AnalyzeHandler) run(w http.ResponseWriter, r *http.Request) (analysis.Result, []string, bool) {
	var req AnalyzeRequest
	if !h.decode(w, r, &req) {
		return analysis.Result{}, nil, false
	}
	ref, err := h.referenceDate(req.ReferenceDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return analysis.Result{}, nil, false
	}

	batch := intake.CollectBatch(req.Task, []byte(req.Bulk))
	h.observeRejected(batch.Rejected)
	records, notices := batch.Records, batch.Notices

	// An explicit null tasks field means no structured input, same as omitting it.
	if !bytes.Equal(bytes.TrimSpace(req.Tasks), []byte("null")) {
		structured, err := intake.DecodeBulk(req.Tasks)
		if err != nil {
			h.observeRejected(err)
			notices = append(notices, intake.Notice(err))
		}
		records = append(records, structured...)
	}

	if h.maxTasks > 0 && len(records) > h.maxTasks {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
			"error": fmt.Sprintf("too many tasks: %d (max %d)", len(records), h.maxTasks),
		})
		return analysis.Result{}, nil, false
	}
	if notices == nil {
		notices = []string{}
	}

	result := h.analyzer.Analyze(records, ref)
	h.announcer.AnalysisCompleted(context.WithoutCancel(r.Context()), result, notices)
	return result, notices, true
}

func (h *AnalyzeHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := r.Body
	if h.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// referenceDate parses the requested date or falls back to today, read once.
func (h *AnalyzeHandler) referenceDate(s string) (time.Time, error) {
	if s == "" {
		return scoring.Midnight(h.now()), nil
	}
	t, err := time.Parse(analysis.DateLayout, s)
	if err != nil {
		return time.Time{}, errors.New("reference_date must be YYYY-MM-DD")
	}
	return t, nil
}

func (h *AnalyzeHandler) observeRejected(err error) {
	if err == nil || h.metrics == nil {
		return
	}
	h.metrics.ObserveBulkRejected(intake.RejectReason(err))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode response", "status", status, "error", err)
		status = http.StatusInternalServerError
		data = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}
