package handler

import (
	"net/http"
	"time"

	"github.com/alanyoungcy/pxwatch/internal/domain"
)

// StatusEvaluator exposes the per-symbol watch statuses from the evaluator.
type StatusEvaluator interface {
	Statuses() []domain.WatchStatus
}

// StatusHandler serves the backend status (mode, poll state, per-symbol watch
// statuses) for dashboards.
type StatusHandler struct {
	mode      string
	poller    PricePoller
	evaluator StatusEvaluator
	startedAt time.Time
}

// NewStatusHandler creates a StatusHandler with the given runtime metadata.
func NewStatusHandler(mode string, poller PricePoller, evaluator StatusEvaluator, startedAt time.Time) *StatusHandler {
	return &StatusHandler{
		mode:      mode,
		poller:    poller,
		evaluator: evaluator,
		startedAt: startedAt,
	}
}

// GetStatus responds with the current backend mode, poll state, and the
// evaluated status of every tracked symbol.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	uptime := int64(time.Since(h.startedAt).Seconds())
	if uptime < 0 {
		uptime = 0
	}

	resp := map[string]any{
		"mode":           h.mode,
		"uptime_seconds": uptime,
		"last_error":     h.poller.LastError(),
		"symbols":        h.evaluator.Statuses(),
	}
	if snap, ok := h.poller.Snapshot(); ok {
		resp["fetched_at"] = snap.FetchedAt.UTC().Format(time.RFC3339)
	}

	writeJSON(w, http.StatusOK, resp)
}
