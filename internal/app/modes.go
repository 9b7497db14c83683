package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/pxwatch/internal/notify"
	"github.com/alanyoungcy/pxwatch/internal/server"
	"github.com/alanyoungcy/pxwatch/internal/server/handler"
	"github.com/alanyoungcy/pxwatch/internal/server/ws"
)

// WatchMode runs the polling loop, the watch evaluator, and the background
// alert relay without any HTTP surface.
func (a *App) WatchMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting watch mode")

	deps.Dispatcher.RequestPermission(ctx, notify.AutoGrant{})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Poller.Run(ctx)
	})
	g.Go(func() error {
		return deps.Relay.Run(ctx)
	})

	return g.Wait()
}

// ServerMode runs the HTTP API and WebSocket hub. The poller still runs so
// price endpoints serve fresh data, but notification permission is never
// requested, so no alerts are dispatched.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Poller.Run(ctx)
	})

	a.startHTTPServer(ctx, g, deps)

	return g.Wait()
}

// FullMode runs every subsystem: polling, alert evaluation and delivery, the
// background relay, and the HTTP + WebSocket server.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	deps.Dispatcher.RequestPermission(ctx, notify.AutoGrant{})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Poller.Run(ctx)
	})
	g.Go(func() error {
		return deps.Relay.Run(ctx)
	})

	a.startHTTPServer(ctx, g, deps)

	return g.Wait()
}

// startHTTPServer assembles the handlers, WebSocket hub, and middleware, then
// starts the server and its shutdown watcher on the errgroup.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	startedAt := time.Now().UTC()

	hub := ws.NewHub(deps.SignalBus, a.logger, ws.Config{
		Mode:      a.cfg.Mode,
		StartedAt: startedAt,
	})
	g.Go(func() error {
		return hub.Run(ctx)
	})

	handlers := server.Handlers{
		Health:  handler.NewHealthHandler(a.logger),
		Status:  handler.NewStatusHandler(a.cfg.Mode, deps.Poller, deps.Evaluator, startedAt),
		Prices:  handler.NewPriceHandler(deps.Poller, a.logger),
		Watches: handler.NewWatchHandler(deps.Watches, a.logger),
		Tasks:   handler.NewTaskHandler(deps.Tasks, a.logger),
		Calc:    handler.NewCalcHandler(a.logger),
		Fomc:    handler.NewFomcHandler(),
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
	}, handlers, hub, deps.RateLimiter, a.logger)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
