package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/config"
	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/metrics"
	transporthttp "github.com/vovakirdan/roomrelay/internal/transport/http"
	"github.com/vovakirdan/roomrelay/internal/utils"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	var (
		hubMetrics     core.Metrics
		metricsHandler stdhttp.Handler
	)
	if cfg.MetricsEnabled {
		collector := metrics.New()
		hubMetrics = collector
		metricsHandler = collector.Handler()
	}

	hub := core.NewHub(core.IDGeneratorFunc(utils.NewRoomID), hubMetrics, logger)
	server := transporthttp.NewServer(hub, cfg, logger, metricsHandler)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		log:             logger,
	}
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() stdhttp.Handler {
	return a.server.Handler
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}

		stats := a.hub.Stats()
		a.log.Info().Int("rooms", stats.Rooms).Int("members", stats.Members).Msg("hub state at shutdown")
		return <-serverErr
	}
}
