package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/casetimeline/internal/engine"
	"github.com/gyaneshwarpardhi/casetimeline/internal/event"
	"github.com/gyaneshwarpardhi/casetimeline/internal/metrics"
	"github.com/gyaneshwarpardhi/casetimeline/internal/normalize"
	"github.com/gyaneshwarpardhi/casetimeline/internal/record"
	"github.com/gyaneshwarpardhi/casetimeline/internal/timeline"
)

// StatusClientClosedRequest is reported when the caller went away mid-aggregation.
const StatusClientClosedRequest = 499

// CaseDirectory is the view of the case store the API needs.
type CaseDirectory interface {
	Has(caseID string) bool
	CaseIDs() []string
	Reload() (int, error)
}

// Aggregator produces a case timeline.
type Aggregator interface {
	Timeline(ctx context.Context, caseID string, viewer *timeline.Viewer, crit timeline.Criteria) (*engine.Result, error)
	QueueUtilization() float64
}

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng    Aggregator
	cases  CaseDirectory
	logger *slog.Logger
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(eng Aggregator, cases CaseDirectory, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{eng: eng, cases: cases, logger: logger, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /v1/cases/{caseID}/timeline", h.timeline)
	h.mux.HandleFunc("GET /v1/cases", h.listCases)
	h.mux.HandleFunc("POST /v1/cases/reload", h.reloadCases)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(logger, h.mux)
}

type timelineResponse struct {
	RequestID     string                 `json:"request_id"`
	CaseID        string                 `json:"case_id"`
	Count         int                    `json:"count"`
	Events        []event.Event          `json:"events"`
	Diagnostics   []normalize.Diagnostic `json:"diagnostics"`
	FailedSources []record.Kind          `json:"failed_sources"`
}

// GET /v1/cases/{caseID}/timeline?q=&window=&order=&tab=
func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("caseID")
	q := r.URL.Query()
	crit, err := timeline.ParseCriteria(q.Get("q"), q.Get("window"), q.Get("order"), q.Get("tab"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.cases.Has(caseID) {
		writeError(w, http.StatusNotFound, "unknown case "+caseID)
		return
	}

	var viewer *timeline.Viewer
	if id := r.Header.Get("X-Viewer-ID"); id != "" {
		viewer = &timeline.Viewer{ID: id, DisplayName: r.Header.Get("X-Viewer-Name")}
	}

	res, err := h.eng.Timeline(r.Context(), caseID, viewer, crit)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		writeError(w, StatusClientClosedRequest, err.Error())
		return
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, err.Error())
		return
	default:
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	events := res.Events
	if events == nil {
		events = []event.Event{}
	}
	diags := res.Diagnostics
	if diags == nil {
		diags = []normalize.Diagnostic{}
	}
	failed := res.FailedSources
	if failed == nil {
		failed = []record.Kind{}
	}
	writeJSON(w, http.StatusOK, timelineResponse{
		RequestID:     requestIDFrom(r.Context()),
		CaseID:        caseID,
		Count:         len(events),
		Events:        events,
		Diagnostics:   diags,
		FailedSources: failed,
	})
}

// GET /v1/cases
func (h *Handler) listCases(w http.ResponseWriter, r *http.Request) {
	ids := h.cases.CaseIDs()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(ids),
		"cases": ids,
	})
}

// POST /v1/cases/reload: re-read the case file from disk.
func (h *Handler) reloadCases(w http.ResponseWriter, r *http.Request) {
	n, err := h.cases.Reload()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded":    true,
		"cases_count": n,
	})
}

// GET /healthz always answers 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz answers 503 if the fetch queue is more than 80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}
