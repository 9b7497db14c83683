// Package notify delivers price alerts to the user. A Dispatcher selects
// between a direct foreground channel and a background delivery channel (a
// signal-bus-mediated worker that can show alerts when no foreground surface
// is active), falling back to the foreground channel when background delivery
// fails. Dispatch is best-effort: failures are logged, never raised to the
// caller.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alanyoungcy/pxwatch/internal/domain"
)

// Title is the fixed headline of every price alert.
const Title = "Price Alert!"

// Sender is the interface that each foreground notification channel must
// implement.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a human-readable identifier for the sender (e.g. "telegram").
	Name() string
}

// Background is the background delivery channel: it hands a structured alert
// message to an out-of-process worker that shows the notification itself.
type Background interface {
	Deliver(ctx context.Context, msg AlertMessage) error
}

// Permission mirrors the platform notification permission states.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Prompter requests notification permission from the user or platform.
type Prompter interface {
	Request(ctx context.Context) (Permission, error)
}

// AutoGrant is a Prompter that always grants. It is the default for headless
// deployments where there is no interactive permission surface.
type AutoGrant struct{}

// Request implements Prompter.
func (AutoGrant) Request(context.Context) (Permission, error) {
	return PermissionGranted, nil
}

// Dispatcher routes notification events to a delivery channel. The
// useBackground predicate replaces device sniffing: when it reports true and
// a background channel is registered, delivery goes through the background
// channel first, with exactly one foreground fallback attempt on failure.
type Dispatcher struct {
	foreground    Sender
	background    Background
	useBackground func() bool
	logger        *slog.Logger

	mu         sync.Mutex
	permission Permission
}

// NewDispatcher creates a Dispatcher. foreground may be nil (background-only
// setups), as may background; a nil useBackground predicate means the
// background channel is never preferred.
func NewDispatcher(foreground Sender, background Background, useBackground func() bool, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		foreground:    foreground,
		background:    background,
		useBackground: useBackground,
		logger:        logger.With(slog.String("component", "dispatcher")),
		permission:    PermissionDefault,
	}
}

// RequestPermission asks the prompter for notification permission. It is
// called once at startup; a repeated call while permission is no longer in
// the default state is a no-op. Denied permission is recorded and logged;
// subsequent dispatches are silently skipped until it changes.
func (d *Dispatcher) RequestPermission(ctx context.Context, prompter Prompter) {
	d.mu.Lock()
	if d.permission != PermissionDefault {
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	perm, err := prompter.Request(ctx)
	if err != nil {
		d.logger.WarnContext(ctx, "permission request failed", slog.String("error", err.Error()))
		return
	}

	d.mu.Lock()
	d.permission = perm
	d.mu.Unlock()

	if perm == PermissionDenied {
		d.logger.WarnContext(ctx, "notification permission denied")
	} else {
		d.logger.InfoContext(ctx, "notification permission", slog.String("state", string(perm)))
	}
}

// Permission returns the current permission state.
func (d *Dispatcher) Permission() Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.permission
}

// Dispatch delivers one notification event. It never returns an error: a
// failure of both channels is terminal for that event and only logged.
func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.NotificationEvent) {
	if d.Permission() != PermissionGranted {
		d.logger.DebugContext(ctx, "notification skipped, permission not granted",
			slog.String("symbol", ev.Symbol),
		)
		return
	}

	body := fmt.Sprintf("%s is within your waiting price range at $%.2f", ev.Symbol, ev.Price)

	if d.background != nil && d.useBackground != nil && d.useBackground() {
		msg := AlertMessage{
			Type:  TypePriceAlert,
			Coin:  ev.Symbol,
			Price: ev.Price,
			Title: Title,
			Body:  body,
		}
		err := d.background.Deliver(ctx, msg)
		if err == nil {
			return
		}
		d.logger.WarnContext(ctx, "background delivery failed, falling back to foreground",
			slog.String("symbol", ev.Symbol),
			slog.String("error", err.Error()),
		)
	}

	if d.foreground == nil {
		d.logger.WarnContext(ctx, "no foreground channel configured, alert dropped",
			slog.String("symbol", ev.Symbol),
		)
		return
	}
	if err := d.foreground.Send(ctx, Title, body); err != nil {
		d.logger.ErrorContext(ctx, "foreground delivery failed",
			slog.String("sender", d.foreground.Name()),
			slog.String("symbol", ev.Symbol),
			slog.String("error", err.Error()),
		)
	}
}
