package app

import (
	"github.com/yungbote/flightsim-backend/internal/config"
	"github.com/yungbote/flightsim-backend/internal/observability"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
	"github.com/yungbote/flightsim-backend/internal/services"
	"github.com/yungbote/flightsim-backend/internal/simulator/prompts"
	"github.com/yungbote/flightsim-backend/internal/simulator/testprep"
	"github.com/yungbote/flightsim-backend/internal/simulator/tools"
)

type Services struct {
	Composer *prompts.Composer
	Scenario services.ScenarioService
	TestPrep services.TestPrepService
	Tools    *tools.Executor
}

func wireServices(log *logger.Logger, cfg *config.Config, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	composer := prompts.New(clients.Catalog)

	var facts services.FactSource
	if clients.Fetcher != nil {
		facts = clients.Fetcher
	} else if cfg.Realtime.Enabled {
		log.Warn("Real-time data enabled but fetcher is not configured")
	}

	return Services{
		Composer: composer,
		Scenario: services.NewScenarioService(log, composer, clients.LLM, facts, metrics, nil),
		TestPrep: services.NewTestPrepService(log, clients.Catalog, composer, testprep.NewSelector(nil), clients.LLM, metrics),
		Tools:    tools.NewExecutor(clients.Catalog),
	}
}
