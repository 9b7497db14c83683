package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/pxwatch/internal/domain"
)

// WatchService defines the methods the watch handler requires from the
// service layer.
type WatchService interface {
	Set(ctx context.Context, symbol, rangeText string) error
	All(ctx context.Context) (map[string]string, error)
	Delete(ctx context.Context, symbol string) error
}

// WatchHandler serves price-range watch HTTP endpoints.
type WatchHandler struct {
	watches WatchService
	logger  *slog.Logger
}

// NewWatchHandler creates a WatchHandler with the given service and logger.
func NewWatchHandler(watches WatchService, logger *slog.Logger) *WatchHandler {
	return &WatchHandler{
		watches: watches,
		logger:  logger,
	}
}

// ListWatches returns every configured watch as symbol → range text.
// GET /api/watches
func (h *WatchHandler) ListWatches(w http.ResponseWriter, r *http.Request) {
	watches, err := h.watches.All(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list watches failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list watches")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"watches": watches})
}

// setWatchRequest is the body for the PUT endpoint. An empty range clears the
// watch.
type setWatchRequest struct {
	Range string `json:"range"`
}

// SetWatch stores (or clears) the waiting price range for a symbol.
// PUT /api/watches/{symbol}
func (h *WatchHandler) SetWatch(w http.ResponseWriter, r *http.Request) {
	symbol := pathParam(r, "symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "missing symbol")
		return
	}

	var req setWatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.watches.Set(r.Context(), symbol, req.Range); err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownSymbol):
			writeError(w, http.StatusNotFound, "unknown symbol")
		case errors.Is(err, domain.ErrInvalidRange):
			writeError(w, http.StatusBadRequest, "range must be two numbers separated by a dash, e.g. 60000-70000")
		default:
			h.logger.ErrorContext(r.Context(), "handler: set watch failed",
				slog.String("symbol", symbol),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to set watch")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"symbol": symbol,
		"range":  req.Range,
	})
}

// DeleteWatch removes the watch for a symbol.
// DELETE /api/watches/{symbol}
func (h *WatchHandler) DeleteWatch(w http.ResponseWriter, r *http.Request) {
	symbol := pathParam(r, "symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "missing symbol")
		return
	}

	if err := h.watches.Delete(r.Context(), symbol); err != nil {
		if errors.Is(err, domain.ErrUnknownSymbol) {
			writeError(w, http.StatusNotFound, "unknown symbol")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: delete watch failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to delete watch")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
