package domain

import (
	"context"
	"time"
)

// SignalBus provides ephemeral pub/sub messaging between components. The
// poller publishes price snapshots on "prices" for live consumers, and the
// dispatcher's background channel publishes alert messages on "alerts" for
// the delivery worker.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe returns a read-only channel of raw payloads. The subscription
	// and the returned channel are closed when ctx is cancelled.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// Bus channel names.
const (
	ChannelPrices = "prices"
	ChannelAlerts = "alerts"
)

// RateLimiter provides distributed rate limiting.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
