// Package poller periodically fetches current prices for the tracked symbol
// set from the market-data API and republishes them as immutable snapshots.
package poller

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alanyoungcy/pxwatch/internal/domain"
	"github.com/alanyoungcy/pxwatch/internal/platform/coinranking"
)

// CoinFetcher fetches the current coin listing from the market-data API.
type CoinFetcher interface {
	FetchCoins(ctx context.Context) ([]coinranking.APICoin, error)
}

// SnapshotHandler consumes each freshly built price snapshot.
type SnapshotHandler interface {
	HandleSnapshot(ctx context.Context, snap domain.PriceSnapshot)
}

// Poller owns the poll loop. It fetches once immediately on start, then on a
// fixed interval, keeping at most one fetch in flight: ticks and manual
// refresh requests arriving while a fetch is outstanding are skipped. On
// fetch failure the previous snapshot stays in place (stale-but-available)
// and the error is surfaced through LastError until the next success.
type Poller struct {
	fetcher  CoinFetcher
	handler  SnapshotHandler
	bus      domain.SignalBus // optional; nil disables publishing
	symbols  []string
	interval time.Duration
	logger   *slog.Logger

	inFlight  atomic.Bool
	refreshCh chan struct{}

	mu           sync.Mutex
	snapshot     domain.PriceSnapshot
	haveSnapshot bool
	lastErr      string
}

// New creates a Poller. interval must be positive; bus may be nil.
func New(fetcher CoinFetcher, handler SnapshotHandler, bus domain.SignalBus, symbols []string, interval time.Duration, logger *slog.Logger) *Poller {
	return &Poller{
		fetcher:   fetcher,
		handler:   handler,
		bus:       bus,
		symbols:   symbols,
		interval:  interval,
		logger:    logger.With(slog.String("component", "poller")),
		refreshCh: make(chan struct{}, 1),
	}
}

// Run polls once immediately, then on every interval tick or manual refresh,
// until ctx is cancelled. The ticker is stopped on return.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.InfoContext(ctx, "poller starting",
		slog.Duration("interval", p.interval),
		slog.Int("symbols", len(p.symbols)),
	)

	p.Poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return ctx.Err()
		case <-ticker.C:
			p.Poll(ctx)
		case <-p.refreshCh:
			p.Poll(ctx)
		}
	}
}

// TriggerRefresh requests an immediate poll. Requests are coalesced: if a
// refresh is already pending or a fetch is in flight, the call is a no-op.
func (p *Poller) TriggerRefresh() {
	select {
	case p.refreshCh <- struct{}{}:
	default:
	}
}

// Poll performs a single fetch-and-publish pass. Concurrent calls are
// coalesced; only one fetch runs at a time.
func (p *Poller) Poll(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Debug("fetch already in flight, skipping")
		return
	}
	defer p.inFlight.Store(false)

	coins, err := p.fetcher.FetchCoins(ctx)
	if ctx.Err() != nil {
		// Cancelled while the fetch was outstanding; discard whatever came
		// back rather than applying it during shutdown.
		return
	}
	if err != nil {
		p.logger.ErrorContext(ctx, "market data fetch failed", slog.String("error", err.Error()))
		p.mu.Lock()
		p.lastErr = err.Error()
		p.mu.Unlock()
		return
	}

	snap := p.buildSnapshot(ctx, coins)

	p.mu.Lock()
	p.snapshot = snap
	p.haveSnapshot = true
	p.lastErr = ""
	p.mu.Unlock()

	if p.handler != nil {
		p.handler.HandleSnapshot(ctx, snap)
	}
	p.publish(ctx, snap)
}

// buildSnapshot filters the fetched coin list down to the tracked symbol set.
// A symbol missing from the response, or one with an unparsable price, gets a
// nil entry; the rest of the snapshot is still produced.
func (p *Poller) buildSnapshot(ctx context.Context, coins []coinranking.APICoin) domain.PriceSnapshot {
	bySymbol := make(map[string]coinranking.APICoin, len(coins))
	for _, c := range coins {
		if _, ok := bySymbol[c.Symbol]; !ok {
			bySymbol[c.Symbol] = c
		}
	}

	snap := domain.NewPriceSnapshot(p.symbols, time.Now().UTC())
	for _, symbol := range p.symbols {
		coin, ok := bySymbol[symbol]
		if !ok {
			p.logger.WarnContext(ctx, "symbol not found in response", slog.String("symbol", symbol))
			continue
		}
		price, err := strconv.ParseFloat(coin.Price, 64)
		if err != nil {
			p.logger.WarnContext(ctx, "unparsable price",
				slog.String("symbol", symbol),
				slog.String("price", coin.Price),
			)
			continue
		}
		v := price
		snap.Prices[symbol] = &v
	}
	return snap
}

// publish pushes the snapshot onto the signal bus for live consumers (the
// WebSocket hub). Publish failures are logged, never fatal to the poll.
func (p *Poller) publish(ctx context.Context, snap domain.PriceSnapshot) {
	if p.bus == nil {
		return
	}
	payload, _ := json.Marshal(map[string]any{
		"fetched_at": snap.FetchedAt.Format(time.RFC3339Nano),
		"prices":     snap.Prices,
	})
	if err := p.bus.Publish(ctx, domain.ChannelPrices, payload); err != nil {
		p.logger.WarnContext(ctx, "publish snapshot failed", slog.String("error", err.Error()))
	}
}

// Snapshot returns the most recent snapshot and whether one exists yet.
// Callers must treat the returned snapshot as read-only.
func (p *Poller) Snapshot() (domain.PriceSnapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot, p.haveSnapshot
}

// LastError returns the message of the most recent fetch failure, or "" when
// the last fetch succeeded.
func (p *Poller) LastError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}
