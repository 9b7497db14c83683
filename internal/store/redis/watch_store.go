package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/alanyoungcy/pxwatch/internal/domain"
	"github.com/redis/go-redis/v9"
)

// watchKey is the hash holding all watch ranges, field = symbol, value = the
// raw "<low>-<high>" text exactly as the user entered it.
const watchKey = "watch:ranges"

// WatchStore implements domain.WatchStore on a single Redis hash.
type WatchStore struct {
	rdb *redis.Client
}

// NewWatchStore creates a WatchStore backed by the given Client.
func NewWatchStore(c *Client) *WatchStore {
	return &WatchStore{rdb: c.Underlying()}
}

// Set stores the range text for a symbol. Empty text removes the watch so a
// cleared input does not linger as an empty record.
func (ws *WatchStore) Set(ctx context.Context, symbol, rangeText string) error {
	if rangeText == "" {
		return ws.Delete(ctx, symbol)
	}
	if err := ws.rdb.HSet(ctx, watchKey, symbol, rangeText).Err(); err != nil {
		return fmt.Errorf("redis: set watch %s: %w", symbol, err)
	}
	return nil
}

// Get returns the range text for a symbol, or domain.ErrNotFound.
func (ws *WatchStore) Get(ctx context.Context, symbol string) (string, error) {
	text, err := ws.rdb.HGet(ctx, watchKey, symbol).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis: get watch %s: %w", symbol, err)
	}
	return text, nil
}

// All returns every configured watch as symbol → range text.
func (ws *WatchStore) All(ctx context.Context) (map[string]string, error) {
	vals, err := ws.rdb.HGetAll(ctx, watchKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: get watches: %w", err)
	}
	return vals, nil
}

// Delete removes the watch for a symbol. Deleting a missing watch is a no-op.
func (ws *WatchStore) Delete(ctx context.Context, symbol string) error {
	if err := ws.rdb.HDel(ctx, watchKey, symbol).Err(); err != nil {
		return fmt.Errorf("redis: delete watch %s: %w", symbol, err)
	}
	return nil
}
