package domain

import "time"

// DefaultSymbols is the fixed set of tracked asset symbols. The poller
// fetches prices for exactly this set unless overridden by configuration.
var DefaultSymbols = []string{"BTC", "ETH", "BNB", "SOL", "TON", "LTC", "XRP", "XLM", "LINK"}

// PriceSnapshot is the complete set of latest known prices for all tracked
// symbols. A nil entry means the price is not yet known or was missing from
// the upstream response. Snapshots are immutable once constructed: the poller
// replaces the whole snapshot on every successful fetch and never patches an
// existing one field-by-field.
type PriceSnapshot struct {
	Prices    map[string]*float64
	FetchedAt time.Time
}

// NewPriceSnapshot creates a snapshot with a nil price entry for every symbol.
func NewPriceSnapshot(symbols []string, fetchedAt time.Time) PriceSnapshot {
	prices := make(map[string]*float64, len(symbols))
	for _, s := range symbols {
		prices[s] = nil
	}
	return PriceSnapshot{Prices: prices, FetchedAt: fetchedAt}
}

// Price returns the price for symbol and whether it is known.
func (s PriceSnapshot) Price(symbol string) (float64, bool) {
	p, ok := s.Prices[symbol]
	if !ok || p == nil {
		return 0, false
	}
	return *p, true
}

// Symbols returns the symbols tracked by this snapshot.
func (s PriceSnapshot) Symbols() []string {
	out := make([]string, 0, len(s.Prices))
	for sym := range s.Prices {
		out = append(out, sym)
	}
	return out
}
