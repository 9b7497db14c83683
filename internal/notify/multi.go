package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// MultiSender fans a notification out to several senders. A single sender
// failure does not prevent delivery to the remaining senders; the combined
// error reports every failed sender.
type MultiSender struct {
	senders []Sender
	logger  *slog.Logger
}

// NewMultiSender creates a MultiSender over the given senders.
func NewMultiSender(logger *slog.Logger, senders ...Sender) *MultiSender {
	return &MultiSender{
		senders: senders,
		logger:  logger.With(slog.String("component", "multi_sender")),
	}
}

// Send delivers to every registered sender and combines their failures.
func (m *MultiSender) Send(ctx context.Context, title, message string) error {
	if len(m.senders) == 0 {
		return errors.New("notify: no senders configured")
	}

	var errs []string
	for _, s := range m.senders {
		if err := s.Send(ctx, title, message); err != nil {
			m.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		m.logger.DebugContext(ctx, "notification sent", slog.String("sender", s.Name()))
	}

	if len(errs) == len(m.senders) {
		return fmt.Errorf("notify: all senders failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Name returns the sender identifier.
func (m *MultiSender) Name() string {
	names := make([]string, 0, len(m.senders))
	for _, s := range m.senders {
		names = append(names, s.Name())
	}
	return "multi(" + strings.Join(names, ",") + ")"
}
