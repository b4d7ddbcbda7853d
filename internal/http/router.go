package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/flightsim-backend/internal/http/handlers"
	httpMW "github.com/yungbote/flightsim-backend/internal/http/middleware"
	"github.com/yungbote/flightsim-backend/internal/observability"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	ServiceName     string
	TracingEnabled  bool
	MetricsPath     string
	AllowOrigins    []string
	MaxRequestBytes int64

	ScenarioHandler *httpH.ScenarioHandler
	TestPrepHandler *httpH.TestPrepHandler
	DataHandler     *httpH.DataHandler
	ToolHandler     *httpH.ToolHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		name := cfg.ServiceName
		if name == "" {
			name = "flightsim"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log, cfg.MetricsPath, "/healthz", "/readyz"))
	r.Use(httpMW.CORS(cfg.AllowOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics, cfg.MetricsPath, "/healthz", "/readyz"))
	r.Use(httpMW.MaxBodyBytes(cfg.MaxRequestBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Healthz)
		r.GET("/readyz", cfg.HealthHandler.Readyz)
	}
	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		r.GET(cfg.MetricsPath, gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/health", cfg.HealthHandler.HealthCheck)
		}

		// Scenario simulation
		if cfg.ScenarioHandler != nil {
			api.POST("/scenario/generate", cfg.ScenarioHandler.Generate)
			api.POST("/scenario/respond", cfg.ScenarioHandler.Respond)
			api.POST("/scenario/grade", cfg.ScenarioHandler.Grade)
		}

		// Test prep
		if cfg.TestPrepHandler != nil {
			api.GET("/flashcards", cfg.TestPrepHandler.Flashcards)
			api.GET("/flashcards/categories", cfg.TestPrepHandler.Categories)
			api.POST("/test/generate", cfg.TestPrepHandler.Generate)
			api.POST("/test/grade", cfg.TestPrepHandler.Grade)
			api.POST("/test/teach", cfg.TestPrepHandler.Teach)
		}

		// Reference data
		if cfg.DataHandler != nil {
			api.GET("/data/flights", cfg.DataHandler.Flights)
			api.GET("/data/inventory", cfg.DataHandler.Inventory)
			api.GET("/data/demand", cfg.DataHandler.Demand)
			api.GET("/data/cryo-depots", cfg.DataHandler.CryoDepots)
		}

		// Agent tools
		if cfg.ToolHandler != nil {
			api.GET("/tools", cfg.ToolHandler.List)
			api.POST("/tools/execute", cfg.ToolHandler.Execute)
		}
	}

	return r
}
