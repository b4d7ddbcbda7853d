package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flightsim-backend/internal/config"
	"github.com/yungbote/flightsim-backend/internal/http"
	"github.com/yungbote/flightsim-backend/internal/observability"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	Router   *gin.Engine
	Metrics  *observability.Metrics
	Clients  Clients
	Services Services

	server       *http.Server
	otelShutdown func(context.Context) error
}

// New wires the whole backend from cfg. log may be nil, in which case one is
// built from cfg.Log.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	if log == nil {
		l, err := logger.NewWithLevel(cfg.Log.Mode, cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		log = l
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg)

	metrics, err := wireMetrics(log, cfg.Metrics)
	if err != nil {
		log.Sync()
		return nil, err
	}

	clients, err := wireClients(ctx, log, cfg, metrics)
	if err != nil {
		log.Sync()
		return nil, err
	}

	serviceset := wireServices(log, cfg, clients, metrics)
	handlerset := wireHandlers(log, cfg, clients, serviceset)
	routerCfg := wireRouter(log, cfg, metrics, handlerset)
	server := http.NewServer(routerCfg, http.ServerOptions{
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout.Duration,
		IdleTimeout:       cfg.HTTP.IdleTimeout.Duration,
	})

	return &App{
		Log:          log,
		Cfg:          cfg,
		Router:       server.Engine,
		Metrics:      metrics,
		Clients:      clients,
		Services:     serviceset,
		server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", a.server.Addr(), "llm_provider", a.Clients.LLM.Provider())
		errCh <- a.server.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := a.Cfg.HTTP.ShutdownTimeout.Duration
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	a.Log.Info("Shutting down HTTP server", "timeout", timeout.String())
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
