// Package worker implements the background delivery worker, the counterpart
// of the dispatcher's background channel. It subscribes to the "alerts"
// signal-bus channel and shows each alert through its own sender, so
// notifications still reach the user when no foreground surface is active.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/pxwatch/internal/domain"
	"github.com/alanyoungcy/pxwatch/internal/notify"
)

// AlertRelay consumes alert messages from the signal bus and delivers them.
type AlertRelay struct {
	bus    domain.SignalBus
	sender notify.Sender
	logger *slog.Logger
}

// NewAlertRelay creates an AlertRelay delivering through sender.
func NewAlertRelay(bus domain.SignalBus, sender notify.Sender, logger *slog.Logger) *AlertRelay {
	return &AlertRelay{
		bus:    bus,
		sender: sender,
		logger: logger.With(slog.String("component", "alert_relay")),
	}
}

// Run subscribes to the alerts channel and relays messages until ctx is
// cancelled. Individual message failures are logged and skipped; they never
// stop the relay.
func (w *AlertRelay) Run(ctx context.Context) error {
	ch, err := w.bus.Subscribe(ctx, domain.ChannelAlerts)
	if err != nil {
		return fmt.Errorf("worker: subscribe %s: %w", domain.ChannelAlerts, err)
	}
	w.logger.Info("alert relay started")
	defer w.logger.Info("alert relay stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			if err := w.handleMessage(ctx, data); err != nil {
				w.logger.WarnContext(ctx, "alert relay message failed",
					slog.String("error", err.Error()),
					slog.Int("payload_len", len(data)),
				)
			}
		}
	}
}

// handleMessage decodes one bus payload and shows the notification. Messages
// with an unknown type discriminator are ignored.
func (w *AlertRelay) handleMessage(ctx context.Context, data []byte) error {
	var msg notify.AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("decode alert message: %w", err)
	}
	if msg.Type != notify.TypePriceAlert {
		w.logger.DebugContext(ctx, "ignoring message with unknown type", slog.String("type", msg.Type))
		return nil
	}
	if err := w.sender.Send(ctx, msg.Title, msg.Body); err != nil {
		return fmt.Errorf("show notification for %s: %w", msg.Coin, err)
	}
	return nil
}
