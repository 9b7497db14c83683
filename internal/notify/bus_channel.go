package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alanyoungcy/pxwatch/internal/domain"
)

// BusChannel implements Background by publishing alert messages to the signal
// bus "alerts" channel, where the background delivery worker picks them up.
type BusChannel struct {
	bus domain.SignalBus
}

// NewBusChannel creates a BusChannel on the given bus.
func NewBusChannel(bus domain.SignalBus) *BusChannel {
	return &BusChannel{bus: bus}
}

// Deliver publishes the alert message. A publish failure means the background
// channel is unavailable for this event; the dispatcher falls back.
func (b *BusChannel) Deliver(ctx context.Context, msg AlertMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("notify: marshal alert message: %w", err)
	}
	if err := b.bus.Publish(ctx, domain.ChannelAlerts, payload); err != nil {
		return fmt.Errorf("notify: %w: %v", domain.ErrChannelUnavailable, err)
	}
	return nil
}
