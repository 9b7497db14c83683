package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/pxwatch/internal/config"
	"github.com/alanyoungcy/pxwatch/internal/domain"
	"github.com/alanyoungcy/pxwatch/internal/notify"
	"github.com/alanyoungcy/pxwatch/internal/platform/coinranking"
	"github.com/alanyoungcy/pxwatch/internal/poller"
	"github.com/alanyoungcy/pxwatch/internal/service"
	"github.com/alanyoungcy/pxwatch/internal/store/redis"
	"github.com/alanyoungcy/pxwatch/internal/watch"
	"github.com/alanyoungcy/pxwatch/internal/worker"
)

// Dependencies bundles every component that the application modes need to
// operate. It is constructed by Wire and torn down by the returned cleanup
// function.
type Dependencies struct {
	// Stores and bus
	WatchStore  domain.WatchStore
	TaskStore   domain.TaskStore
	SignalBus   domain.SignalBus
	RateLimiter domain.RateLimiter

	// Market data
	Coinranking *coinranking.Client
	Poller      *poller.Poller

	// Alerts
	Dispatcher *notify.Dispatcher
	Evaluator  *watch.Evaluator
	Relay      *worker.AlertRelay

	// Services
	Watches *service.WatchService
	Tasks   *service.TaskService
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.WatchStore = redis.NewWatchStore(redisClient)
	deps.TaskStore = redis.NewTaskStore(redisClient)
	deps.SignalBus = redis.NewSignalBus(redisClient)
	deps.RateLimiter = redis.NewRateLimiter(redisClient)

	// --- Coinranking client ---
	deps.Coinranking = coinranking.New(coinranking.Config{
		BaseURL:               cfg.Coinranking.BaseURL,
		APIKey:                cfg.Coinranking.APIKey,
		APIHost:               cfg.Coinranking.APIHost,
		ReferenceCurrencyUUID: cfg.Coinranking.ReferenceCurrencyUUID,
		TimePeriod:            cfg.Coinranking.TimePeriod,
		Tiers:                 cfg.Coinranking.Tiers,
		OrderBy:               cfg.Coinranking.OrderBy,
		OrderDirection:        cfg.Coinranking.OrderDirection,
		Limit:                 cfg.Coinranking.Limit,
		Offset:                cfg.Coinranking.Offset,
		Timeout:               cfg.Poller.FetchTimeout.Duration,
	})

	// --- Notification channels ---
	foreground := buildForegroundSender(cfg, logger)
	background := notify.NewBusChannel(deps.SignalBus)
	preferBackground := cfg.Alert.PreferBackground
	deps.Dispatcher = notify.NewDispatcher(
		foreground,
		background,
		func() bool { return preferBackground },
		logger,
	)

	// --- Evaluator and poller ---
	deps.Evaluator = watch.NewEvaluator(
		deps.WatchStore,
		deps.Dispatcher,
		watch.NotifyPolicy(cfg.Alert.NotifyPolicy),
		logger,
	)
	deps.Poller = poller.New(
		deps.Coinranking,
		deps.Evaluator,
		deps.SignalBus,
		cfg.Poller.Symbols,
		cfg.Poller.Interval.Duration,
		logger,
	)

	// --- Background alert relay ---
	deps.Relay = worker.NewAlertRelay(deps.SignalBus, foreground, logger)

	// --- Services ---
	deps.Watches = service.NewWatchService(deps.WatchStore, deps.Evaluator, cfg.Poller.Symbols, logger)
	deps.Tasks = service.NewTaskService(deps.TaskStore, logger)

	return deps, cleanup, nil
}

// buildForegroundSender assembles the direct delivery channel from the
// configured notifiers. With several channels configured it fans out through
// a MultiSender; with none it falls back to console output so alerts are
// never silently dropped.
func buildForegroundSender(cfg *config.Config, logger *slog.Logger) notify.Sender {
	var senders []notify.Sender

	if cfg.Notify.Console {
		senders = append(senders, notify.NewConsoleSender())
	}
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}

	switch len(senders) {
	case 0:
		return notify.NewConsoleSender()
	case 1:
		return senders[0]
	default:
		return notify.NewMultiSender(logger, senders...)
	}
}
