// Package calc implements the deterministic trading calculators: pip
// risk/reward for currency pairs and position sizing for crypto trades.
// All functions are pure; results are derived from the inputs alone and a
// nil result means the inputs were missing or unparsable, never an error.
package calc

import (
	"math"
	"strconv"
	"strings"
)

// PipsResult holds the output of the currency-pair pips calculator.
type PipsResult struct {
	Risk   float64 `json:"pips_of_risk"`
	Reward float64 `json:"pips_of_reward"`
	Ratio  float64 `json:"risk_reward_ratio"`
}

// parseDecimal parses a user-entered decimal string. Empty or whitespace-only
// input is treated the same as a malformed number.
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ComputePips calculates pips of risk and reward for a currency pair trade.
// Risk is |entry - stopLoss| and reward |takeProfit - entry|, both scaled by
// 10^decimalPlaces. The ratio is reward/risk, or 0 when risk is zero. It
// returns nil when any input is empty or not a number. No rounding is applied;
// display formatting is the caller's concern.
func ComputePips(stopLoss, entry, takeProfit string, decimalPlaces int) *PipsResult {
	sl, ok := parseDecimal(stopLoss)
	if !ok {
		return nil
	}
	e, ok := parseDecimal(entry)
	if !ok {
		return nil
	}
	tp, ok := parseDecimal(takeProfit)
	if !ok {
		return nil
	}

	scale := math.Pow(10, float64(decimalPlaces))
	risk := math.Abs(e-sl) * scale
	reward := math.Abs(tp-e) * scale

	ratio := 0.0
	if risk > 0 {
		ratio = reward / risk
	}

	return &PipsResult{Risk: risk, Reward: reward, Ratio: ratio}
}

// ComputePositionSize calculates the position size for a crypto trade given
// the account balance, entry price, stop-loss price, and the percentage of the
// balance to risk. It returns nil when entry or stopLoss is unparsable, when
// the entry and stop-loss coincide (zero price difference), or when the
// balance or risk percentage is missing, unparsable, or non-positive.
func ComputePositionSize(accountBalance, entry, stopLoss, riskPct string) *float64 {
	e, ok := parseDecimal(entry)
	if !ok {
		return nil
	}
	sl, ok := parseDecimal(stopLoss)
	if !ok {
		return nil
	}

	balance, ok := parseDecimal(accountBalance)
	if !ok || balance <= 0 {
		return nil
	}
	pct, ok := parseDecimal(riskPct)
	if !ok || pct <= 0 {
		return nil
	}

	priceDiff := math.Abs(e - sl)
	if priceDiff == 0 {
		return nil
	}

	riskAmount := balance * (pct / 100)
	size := riskAmount / priceDiff
	return &size
}

// ComputeCryptoRiskReward calculates the risk/reward ratio for a crypto trade.
// It returns nil when takeProfit (or entry/stopLoss) is absent or unparsable,
// or when the entry and stop-loss coincide.
func ComputeCryptoRiskReward(entry, stopLoss, takeProfit string) *float64 {
	e, ok := parseDecimal(entry)
	if !ok {
		return nil
	}
	sl, ok := parseDecimal(stopLoss)
	if !ok {
		return nil
	}
	tp, ok := parseDecimal(takeProfit)
	if !ok {
		return nil
	}

	risk := math.Abs(e - sl)
	if risk == 0 {
		return nil
	}
	reward := math.Abs(tp - e)

	ratio := reward / risk
	return &ratio
}
