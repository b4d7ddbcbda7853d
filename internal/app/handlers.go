package app

import (
	"github.com/yungbote/flightsim-backend/internal/config"
	httpH "github.com/yungbote/flightsim-backend/internal/http/handlers"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Scenario *httpH.ScenarioHandler
	TestPrep *httpH.TestPrepHandler
	Data     *httpH.DataHandler
	Tools    *httpH.ToolHandler
}

func wireHandlers(log *logger.Logger, cfg *config.Config, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.ReadyCheck{}
	if clients.Redis != nil {
		checks["redis"] = clients.Redis.Ping
	}
	return Handlers{
		Health:   httpH.NewHealthHandler(cfg.Version, checks),
		Scenario: httpH.NewScenarioHandler(log, services.Scenario),
		TestPrep: httpH.NewTestPrepHandler(log, services.TestPrep),
		Data:     httpH.NewDataHandler(clients.Catalog),
		Tools:    httpH.NewToolHandler(log, services.Tools),
	}
}
