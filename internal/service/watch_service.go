package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/pxwatch/internal/domain"
	"github.com/alanyoungcy/pxwatch/internal/watch"
)

// Reevaluator re-checks stored watches against the most recent price
// snapshot. Edits to watches take effect immediately instead of waiting for
// the next poll.
type Reevaluator interface {
	Reevaluate(ctx context.Context)
}

// WatchService manages price-range watches by coordinating the watch store
// and the evaluator.
type WatchService struct {
	store     domain.WatchStore
	evaluator Reevaluator
	tracked   map[string]struct{}
	logger    *slog.Logger
}

// NewWatchService creates a WatchService. Only symbols in the tracked list
// may be watched; anything else is rejected with domain.ErrUnknownSymbol.
func NewWatchService(store domain.WatchStore, evaluator Reevaluator, symbols []string, logger *slog.Logger) *WatchService {
	tracked := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		tracked[s] = struct{}{}
	}
	return &WatchService{
		store:     store,
		evaluator: evaluator,
		tracked:   tracked,
		logger:    logger,
	}
}

// Set stores the range text for a symbol and triggers a re-evaluation. The
// text is validated for parseability unless it is empty; an empty text clears
// the watch.
func (s *WatchService) Set(ctx context.Context, symbol, rangeText string) error {
	if _, ok := s.tracked[symbol]; !ok {
		return fmt.Errorf("watch_service: set %q: %w", symbol, domain.ErrUnknownSymbol)
	}
	if rangeText == "" {
		if err := s.store.Delete(ctx, symbol); err != nil {
			return fmt.Errorf("watch_service: set %q: %w", symbol, err)
		}
	} else {
		if _, err := watch.ParseRange(rangeText); err != nil {
			return fmt.Errorf("watch_service: set %q: %w", symbol, err)
		}
		if err := s.store.Set(ctx, symbol, rangeText); err != nil {
			return fmt.Errorf("watch_service: set %q: %w", symbol, err)
		}
	}

	s.logger.InfoContext(ctx, "watch updated",
		slog.String("symbol", symbol),
		slog.String("range", rangeText),
	)
	s.evaluator.Reevaluate(ctx)
	return nil
}

// Get returns the range text for a symbol.
func (s *WatchService) Get(ctx context.Context, symbol string) (string, error) {
	if _, ok := s.tracked[symbol]; !ok {
		return "", fmt.Errorf("watch_service: get %q: %w", symbol, domain.ErrUnknownSymbol)
	}
	text, err := s.store.Get(ctx, symbol)
	if err != nil {
		return "", fmt.Errorf("watch_service: get %q: %w", symbol, err)
	}
	return text, nil
}

// All returns every configured watch.
func (s *WatchService) All(ctx context.Context) (map[string]string, error) {
	watches, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("watch_service: list: %w", err)
	}
	return watches, nil
}

// Delete removes the watch for a symbol and triggers a re-evaluation.
func (s *WatchService) Delete(ctx context.Context, symbol string) error {
	if _, ok := s.tracked[symbol]; !ok {
		return fmt.Errorf("watch_service: delete %q: %w", symbol, domain.ErrUnknownSymbol)
	}
	if err := s.store.Delete(ctx, symbol); err != nil {
		return fmt.Errorf("watch_service: delete %q: %w", symbol, err)
	}

	s.logger.InfoContext(ctx, "watch removed", slog.String("symbol", symbol))
	s.evaluator.Reevaluate(ctx)
	return nil
}
