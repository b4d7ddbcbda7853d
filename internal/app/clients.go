package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/yungbote/flightsim-backend/internal/config"
	"github.com/yungbote/flightsim-backend/internal/llm/router"
	"github.com/yungbote/flightsim-backend/internal/observability"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
	"github.com/yungbote/flightsim-backend/internal/realtime"
	"github.com/yungbote/flightsim-backend/internal/simulator/refdata"
)

type Clients struct {
	Catalog *refdata.Catalog
	LLM     *router.Router
	Cache   realtime.Cache
	Redis   *realtime.RedisCache
	Fetcher *realtime.Fetcher
}

func wireMetrics(log *logger.Logger, cfg config.MetricsConfig) (*observability.Metrics, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	log.Info("Metrics enabled", "path", cfg.Path)
	return m, nil
}

func wireClients(ctx context.Context, log *logger.Logger, cfg *config.Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	catalog, err := refdata.Load()
	if err != nil {
		return Clients{}, fmt.Errorf("load reference data: %w", err)
	}

	llm, err := router.New(ctx, cfg.LLM, log, metrics)
	if err != nil {
		return Clients{}, fmt.Errorf("init llm provider: %w", err)
	}

	// Redis is optional; without it real-time facts are fetched on every request.
	var cache realtime.Cache = realtime.NopCache{}
	var rc *realtime.RedisCache
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		c, err := realtime.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, real-time cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			rc = c
			cache = c
		}
	}

	var fetcher *realtime.Fetcher
	if cfg.Realtime.Enabled {
		fetcher = realtime.NewFetcherFromConfig(catalog, cfg.Realtime, cache, log, metrics)
	}

	return Clients{
		Catalog: catalog,
		LLM:     llm,
		Cache:   cache,
		Redis:   rc,
		Fetcher: fetcher,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
