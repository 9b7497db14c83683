package handler

import (
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/pxwatch/internal/calc"
)

// CalcHandler serves the stateless trade calculator endpoints. Inputs are
// sent as strings so the handlers can distinguish blank fields from zero.
type CalcHandler struct {
	logger *slog.Logger
}

// NewCalcHandler creates a CalcHandler with the provided logger.
func NewCalcHandler(logger *slog.Logger) *CalcHandler {
	return &CalcHandler{logger: logger}
}

// pipsRequest is the body for the forex pips endpoint.
type pipsRequest struct {
	StopLoss      string `json:"stop_loss"`
	Entry         string `json:"entry"`
	TakeProfit    string `json:"take_profit"`
	DecimalPlaces int    `json:"decimal_places"`
}

// ComputePips calculates pips of risk, pips of reward, and the risk/reward
// ratio for a forex trade.
// POST /api/calc/pips
func (h *CalcHandler) ComputePips(w http.ResponseWriter, r *http.Request) {
	var req pipsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := calc.ComputePips(req.StopLoss, req.Entry, req.TakeProfit, req.DecimalPlaces)
	if result == nil {
		writeError(w, http.StatusUnprocessableEntity, "stop_loss, entry, and take_profit must be valid numbers")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// positionRequest is the body for the crypto position-size endpoint.
// take_profit is optional; when present the risk/reward ratio is included in
// the response.
type positionRequest struct {
	AccountBalance string `json:"account_balance"`
	Entry          string `json:"entry"`
	StopLoss       string `json:"stop_loss"`
	RiskPercent    string `json:"risk_percent"`
	TakeProfit     string `json:"take_profit"`
}

// positionResponse carries the computed position size and, when a take-profit
// was supplied, the risk/reward ratio.
type positionResponse struct {
	PositionSize float64  `json:"position_size"`
	RiskReward   *float64 `json:"risk_reward,omitempty"`
}

// ComputePosition calculates the position size for a crypto trade from the
// account balance, risk percentage, and stop distance.
// POST /api/calc/position
func (h *CalcHandler) ComputePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	size := calc.ComputePositionSize(req.AccountBalance, req.Entry, req.StopLoss, req.RiskPercent)
	if size == nil {
		writeError(w, http.StatusUnprocessableEntity, "account_balance and risk_percent must be positive and entry must differ from stop_loss")
		return
	}

	writeJSON(w, http.StatusOK, positionResponse{
		PositionSize: *size,
		RiskReward:   calc.ComputeCryptoRiskReward(req.Entry, req.StopLoss, req.TakeProfit),
	})
}
