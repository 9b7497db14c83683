package handler

import (
	"net/http"
	"time"

	"github.com/alanyoungcy/pxwatch/internal/service"
)

// FomcHandler serves the FOMC meeting calendar endpoint.
type FomcHandler struct {
	now func() time.Time
}

// NewFomcHandler creates a FomcHandler using the real clock.
func NewFomcHandler() *FomcHandler {
	return &FomcHandler{now: time.Now}
}

// NextMeeting responds with the next upcoming FOMC meeting and its display
// label.
// GET /api/fomc
func (h *FomcHandler) NextMeeting(w http.ResponseWriter, r *http.Request) {
	m := service.NextFomcMeeting(h.now())
	writeJSON(w, http.StatusOK, map[string]any{
		"label":     m.Label(),
		"month":     m.Month.String()[:3],
		"start_day": m.StartDay,
		"end_day":   m.EndDay,
		"year":      m.Year,
	})
}
