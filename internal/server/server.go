package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/pxwatch/internal/domain"
	"github.com/alanyoungcy/pxwatch/internal/server/handler"
	"github.com/alanyoungcy/pxwatch/internal/server/middleware"
	"github.com/alanyoungcy/pxwatch/internal/server/ws"
)

// rateLimitPerMinute caps requests per client IP when a rate limiter is
// configured.
const rateLimitPerMinute = 120

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health  *handler.HealthHandler
	Status  *handler.StatusHandler
	Prices  *handler.PriceHandler
	Watches *handler.WatchHandler
	Tasks   *handler.TaskHandler
	Calc    *handler.CalcHandler
	Fomc    *handler.FomcHandler
}

// Server is the headless HTTP + WebSocket API server for pxwatch.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// It wires up middleware (logging, CORS, auth, rate limiting) and attaches
// the WebSocket hub. limiter may be nil to disable rate limiting.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// --- Register routes ---

	// Health check (no auth required).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Runtime status.
	mux.HandleFunc("GET /api/status", handlers.Status.GetStatus)

	// Price endpoints.
	mux.HandleFunc("GET /api/prices", handlers.Prices.GetPrices)
	mux.HandleFunc("POST /api/prices/refresh", handlers.Prices.TriggerRefresh)

	// Watch endpoints.
	mux.HandleFunc("GET /api/watches", handlers.Watches.ListWatches)
	mux.HandleFunc("PUT /api/watches/{symbol}", handlers.Watches.SetWatch)
	mux.HandleFunc("DELETE /api/watches/{symbol}", handlers.Watches.DeleteWatch)

	// Task endpoints.
	mux.HandleFunc("GET /api/tasks", handlers.Tasks.ListTasks)
	mux.HandleFunc("POST /api/tasks", handlers.Tasks.AddTask)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", handlers.Tasks.ToggleTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", handlers.Tasks.DeleteTask)

	// Calculator endpoints.
	mux.HandleFunc("POST /api/calc/pips", handlers.Calc.ComputePips)
	mux.HandleFunc("POST /api/calc/position", handlers.Calc.ComputePosition)

	// FOMC calendar endpoint.
	mux.HandleFunc("GET /api/fomc", handlers.Fomc.NextMeeting)

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	// Build the middleware chain.
	var h http.Handler = mux

	// Apply auth middleware (skips if APIKey is empty).
	h = middleware.Auth(cfg.APIKey)(h)

	// Apply per-client rate limiting when a limiter is provided.
	if limiter != nil {
		h = middleware.RateLimit(limiter, rateLimitPerMinute, time.Minute)(h)
	}

	// Apply request logging middleware.
	h = middleware.Logging(logger)(h)

	// Apply CORS middleware.
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
