package app

import (
	"github.com/yungbote/flightsim-backend/internal/config"
	"github.com/yungbote/flightsim-backend/internal/http"
	"github.com/yungbote/flightsim-backend/internal/observability"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg *config.Config, metrics *observability.Metrics, handlers Handlers) http.RouterConfig {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return http.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		ServiceName:     cfg.Otel.ServiceName,
		TracingEnabled:  cfg.Otel.Enabled,
		MetricsPath:     metricsPath,
		AllowOrigins:    cfg.HTTP.AllowOrigins,
		MaxRequestBytes: cfg.HTTP.MaxRequestBytes,

		ScenarioHandler: handlers.Scenario,
		TestPrepHandler: handlers.TestPrep,
		DataHandler:     handlers.Data,
		ToolHandler:     handlers.Tools,
		HealthHandler:   handlers.Health,
	}
}
