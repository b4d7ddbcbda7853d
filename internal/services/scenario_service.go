package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/yungbote/flightsim-backend/internal/observability"
	"github.com/yungbote/flightsim-backend/internal/platform/apierr"
	"github.com/yungbote/flightsim-backend/internal/platform/ctxutil"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
	"github.com/yungbote/flightsim-backend/internal/simulator/grading"
	"github.com/yungbote/flightsim-backend/internal/simulator/prompts"
	"github.com/yungbote/flightsim-backend/internal/simulator/scenario"
)

type ScenarioService interface {
	Generate(ctx context.Context, req scenario.Request) (*GeneratedScenario, error)
	Respond(ctx context.Context, in RespondInput) (*RespondResult, error)
	Grade(ctx context.Context, history []scenario.Turn, current json.RawMessage) (*grading.ScenarioGrade, error)
}

type GeneratedScenario struct {
	Scenario *scenario.Scenario
	Warnings []scenario.ConsistencyWarning
	Facts    []scenario.RealTimeFact
}

type RespondInput struct {
	History      []scenario.Turn
	UserResponse string
	Scenario     json.RawMessage
}

type RespondResult struct {
	Response string
	History  []scenario.Turn
}

type scenarioService struct {
	log      *logger.Logger
	composer *prompts.Composer
	llm      Generator
	facts    FactSource
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewScenarioService wires scenario generation. facts may be nil, in which case
// real-time requests proceed without grounding facts.
func NewScenarioService(
	baseLog *logger.Logger,
	composer *prompts.Composer,
	llm Generator,
	facts FactSource,
	metrics *observability.Metrics,
	now func() time.Time,
) ScenarioService {
	if now == nil {
		now = time.Now
	}
	return &scenarioService{
		log:      baseLog.With("service", "ScenarioService"),
		composer: composer,
		llm:      llm,
		facts:    facts,
		metrics:  metrics,
		now:      now,
	}
}

func (s *scenarioService) Generate(ctx context.Context, req scenario.Request) (*GeneratedScenario, error) {
	if req.UseRealTimeData && len(req.RealTimeFacts) == 0 {
		if s.facts != nil {
			req.RealTimeFacts = s.facts.Fetch(ctx)
		} else {
			s.log.Warn("real-time data requested but no fetcher is configured", ctxutil.LogFields(ctx)...)
		}
	}

	p := s.composer.Scenario(req)
	raw, err := s.llm.Generate(ctx, requestFor(p))
	if err != nil {
		return nil, err
	}

	sc, err := scenario.Parse(raw)
	if err != nil {
		observeParseFailure(s.metrics, err)
		s.log.Warn("scenario parse failed", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, err
	}
	warns, err := scenario.Resolve(sc, scenario.ResolveOptions{Now: s.now().UTC(), Difficulty: req.Difficulty})
	if err != nil {
		observeParseFailure(s.metrics, err)
		return nil, err
	}
	sc.Role = req.Role
	sc.Difficulty = req.Difficulty

	for _, w := range warns {
		s.metrics.IncConsistencyWarning(w.Code)
		s.log.Warn("scenario consistency warning", append(ctxutil.LogFields(ctx), "code", w.Code, "ref", w.Ref, "message", w.Message)...)
	}
	s.log.Info("scenario generated", append(ctxutil.LogFields(ctx),
		"role", req.Role,
		"difficulty", req.Difficulty,
		"facts", len(req.RealTimeFacts),
		"warnings", len(warns),
		"prompt_fingerprint", p.Fingerprint(),
	)...)
	return &GeneratedScenario{Scenario: sc, Warnings: warns, Facts: req.RealTimeFacts}, nil
}

// Respond appends the trainee's turn unless history already ends with it, then
// appends the Game Master's reply.
func (s *scenarioService) Respond(ctx context.Context, in RespondInput) (*RespondResult, error) {
	msg := strings.TrimSpace(in.UserResponse)
	if msg == "" {
		return nil, apierr.BadRequest(errors.New("userResponse is required"))
	}
	history := appendUserTurn(in.History, msg)

	p, err := s.composer.Respond(history, in.Scenario)
	if err != nil {
		return nil, apierr.BadRequest(err)
	}
	reply, err := s.llm.Generate(ctx, requestFor(p))
	if err != nil {
		return nil, err
	}
	reply = strings.TrimSpace(reply)
	history = append(history, scenario.Turn{Role: scenario.TurnAssistant, Content: reply})
	return &RespondResult{Response: reply, History: history}, nil
}

func (s *scenarioService) Grade(ctx context.Context, history []scenario.Turn, current json.RawMessage) (*grading.ScenarioGrade, error) {
	if len(history) == 0 {
		return nil, apierr.BadRequest(errors.New("conversationHistory is required"))
	}
	p, err := s.composer.ScenarioGrade(history, checklistOf(current))
	if err != nil {
		return nil, apierr.BadRequest(err)
	}
	raw, err := s.llm.Generate(ctx, requestFor(p))
	if err != nil {
		return nil, err
	}
	g, err := grading.ParseScenarioGrade(raw)
	if err != nil {
		observeParseFailure(s.metrics, err)
		s.log.Warn("scenario grade parse failed", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, err
	}
	s.log.Info("scenario graded", append(ctxutil.LogFields(ctx), "score", g.Score, "grade", g.Grade)...)
	return g, nil
}

func appendUserTurn(history []scenario.Turn, msg string) []scenario.Turn {
	out := make([]scenario.Turn, 0, len(history)+2)
	for _, t := range history {
		t.Role = scenario.NormalizeTurnRole(t.Role)
		out = append(out, t)
	}
	if n := len(out); n > 0 && out[n-1].Role == scenario.TurnUser && strings.TrimSpace(out[n-1].Content) == msg {
		return out
	}
	return append(out, scenario.Turn{Role: scenario.TurnUser, Content: msg})
}

// checklistOf reads the hidden checklist from a scenario the caller echoed back.
func checklistOf(current json.RawMessage) []string {
	if len(current) == 0 {
		return nil
	}
	var sc struct {
		Checklist []string `json:"ideal_response_checklist"`
	}
	if err := json.Unmarshal(current, &sc); err != nil {
		return nil
	}
	return sc.Checklist
}
