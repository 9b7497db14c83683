package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/pxwatch/internal/domain"
)

// PricePoller defines the methods the price endpoints require from the
// polling loop. It is declared locally so the handler package does not depend
// on the concrete poller implementation.
type PricePoller interface {
	Snapshot() (domain.PriceSnapshot, bool)
	LastError() string
	TriggerRefresh()
}

// PriceHandler serves market price HTTP endpoints.
type PriceHandler struct {
	poller PricePoller
	logger *slog.Logger
}

// NewPriceHandler creates a PriceHandler with the given poller and logger.
func NewPriceHandler(poller PricePoller, logger *slog.Logger) *PriceHandler {
	return &PriceHandler{
		poller: poller,
		logger: logger,
	}
}

// pricesResponse wraps the latest snapshot for the list endpoint. Prices may
// contain null entries for symbols missing from the last fetch.
type pricesResponse struct {
	Prices    map[string]*float64 `json:"prices"`
	FetchedAt string              `json:"fetched_at"`
	LastError string              `json:"last_error,omitempty"`
}

// GetPrices returns the latest price snapshot.
// GET /api/prices
func (h *PriceHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.poller.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no price snapshot available yet")
		return
	}

	writeJSON(w, http.StatusOK, pricesResponse{
		Prices:    snap.Prices,
		FetchedAt: snap.FetchedAt.UTC().Format(time.RFC3339),
		LastError: h.poller.LastError(),
	})
}

// TriggerRefresh requests an immediate poll. The refresh is asynchronous and
// coalesces with any fetch already in flight.
// POST /api/prices/refresh
func (h *PriceHandler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	h.poller.TriggerRefresh()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh scheduled"})
}
