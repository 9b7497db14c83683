package watch

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/alanyoungcy/pxwatch/internal/domain"
)

// NotifyPolicy controls how often an in-range symbol produces a notification
// event.
type NotifyPolicy string

const (
	// NotifyEveryPass re-fires on every evaluation pass while the price stays
	// inside the range. This matches the historical behavior: a price sitting
	// in a range is re-notified on every poll cycle.
	NotifyEveryPass NotifyPolicy = "every-pass"
	// NotifyOnEntry fires only when the price transitions into the range.
	NotifyOnEntry NotifyPolicy = "on-entry"
)

// Dispatcher consumes notification events produced by the evaluator. Dispatch
// is fire-and-forget; it must never fail back into the evaluator.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev domain.NotificationEvent)
}

// Evaluator re-checks every configured watch against the latest price
// snapshot and hands qualifying events to the dispatcher. It also keeps the
// per-symbol statuses shown to the user.
type Evaluator struct {
	watches    domain.WatchStore
	dispatcher Dispatcher
	policy     NotifyPolicy
	logger     *slog.Logger

	mu           sync.Mutex
	lastSnapshot domain.PriceSnapshot
	haveSnapshot bool
	statuses     map[string]domain.WatchStatus
	inRange      map[string]bool
}

// NewEvaluator creates an Evaluator. An empty policy defaults to
// NotifyEveryPass.
func NewEvaluator(watches domain.WatchStore, dispatcher Dispatcher, policy NotifyPolicy, logger *slog.Logger) *Evaluator {
	if policy == "" {
		policy = NotifyEveryPass
	}
	return &Evaluator{
		watches:    watches,
		dispatcher: dispatcher,
		policy:     policy,
		logger:     logger.With(slog.String("component", "evaluator")),
		statuses:   make(map[string]domain.WatchStatus),
		inRange:    make(map[string]bool),
	}
}

// HandleSnapshot records snap as the latest snapshot and runs an evaluation
// pass over it.
func (e *Evaluator) HandleSnapshot(ctx context.Context, snap domain.PriceSnapshot) {
	e.mu.Lock()
	e.lastSnapshot = snap
	e.haveSnapshot = true
	e.mu.Unlock()

	e.evaluate(ctx, snap)
}

// Reevaluate re-runs the evaluation against the latest known snapshot. It is
// called when the user edits a watch range so status and alerts react without
// waiting for the next poll. Before the first snapshot arrives it is a no-op.
func (e *Evaluator) Reevaluate(ctx context.Context) {
	e.mu.Lock()
	snap, ok := e.lastSnapshot, e.haveSnapshot
	e.mu.Unlock()
	if !ok {
		return
	}
	e.evaluate(ctx, snap)
}

// evaluate runs one pass: for every symbol with both a known price and a
// configured range, classify the price and dispatch an event when it is
// within range (subject to the notify policy). Malformed ranges surface as an
// "Invalid range" status and never produce an event.
func (e *Evaluator) evaluate(ctx context.Context, snap domain.PriceSnapshot) {
	ranges, err := e.watches.All(ctx)
	if err != nil {
		e.logger.ErrorContext(ctx, "load watch ranges failed", slog.String("error", err.Error()))
		return
	}

	statuses := make(map[string]domain.WatchStatus, len(ranges))

	for symbol, rangeText := range ranges {
		if rangeText == "" {
			continue
		}
		status := domain.WatchStatus{Symbol: symbol, Range: rangeText}

		price, havePrice := snap.Price(symbol)
		if havePrice {
			p := price
			status.Price = &p
		}

		bounds, parseErr := ParseRange(rangeText)
		if parseErr != nil {
			if !errors.Is(parseErr, domain.ErrInvalidRange) {
				e.logger.WarnContext(ctx, "unexpected range parse failure",
					slog.String("symbol", symbol),
					slog.String("error", parseErr.Error()),
				)
			}
			status.Status = domain.StatusInvalidRange
			statuses[symbol] = status
			e.setInRange(symbol, false)
			continue
		}

		if !havePrice {
			// Watch configured but no price yet; nothing to classify.
			statuses[symbol] = status
			e.setInRange(symbol, false)
			continue
		}

		cls := Classify(price, bounds)
		status.Status = string(cls)
		statuses[symbol] = status

		if cls != domain.RangeWithin {
			e.setInRange(symbol, false)
			continue
		}

		wasIn := e.setInRange(symbol, true)
		if e.policy == NotifyOnEntry && wasIn {
			continue
		}

		e.dispatcher.Dispatch(ctx, domain.NotificationEvent{
			Symbol:    symbol,
			Price:     price,
			Timestamp: snap.FetchedAt,
		})
	}

	e.mu.Lock()
	e.statuses = statuses
	e.mu.Unlock()
}

// setInRange updates the in-range flag for a symbol and returns its previous
// value.
func (e *Evaluator) setInRange(symbol string, in bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	was := e.inRange[symbol]
	e.inRange[symbol] = in
	return was
}

// Statuses returns the watch statuses from the most recent evaluation pass,
// sorted by symbol.
func (e *Evaluator) Statuses() []domain.WatchStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.WatchStatus, 0, len(e.statuses))
	for _, st := range e.statuses {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
