package services

import (
	"context"
	"errors"

	"github.com/yungbote/flightsim-backend/internal/llm/router"
	"github.com/yungbote/flightsim-backend/internal/observability"
	"github.com/yungbote/flightsim-backend/internal/platform/apierr"
	"github.com/yungbote/flightsim-backend/internal/platform/promptstyle"
	"github.com/yungbote/flightsim-backend/internal/simulator/prompts"
	"github.com/yungbote/flightsim-backend/internal/simulator/scenario"
)

// Generator is the LLM surface the services need. *router.Router implements it.
type Generator interface {
	Generate(ctx context.Context, req router.Request) (string, error)
}

// FactSource pre-fetches real-time grounding facts. *realtime.Fetcher implements it.
type FactSource interface {
	Fetch(ctx context.Context) []scenario.RealTimeFact
}

func requestFor(p prompts.Prompt) router.Request {
	return router.Request{
		Task:     p.Name,
		System:   p.System,
		User:     p.User,
		JSONMode: p.Mode == promptstyle.ModeJSONObject,
	}
}

// observeParseFailure counts coded extraction and validation failures.
func observeParseFailure(m *observability.Metrics, err error) {
	var coded apierr.Coded
	if errors.As(err, &coded) {
		m.IncExtractionFailure(coded.ErrorCode())
	}
}
