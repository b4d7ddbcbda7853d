// Package router picks the engine and model for each generation task and wraps
// calls with tracing, metrics and logging.
package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/flightsim-backend/internal/config"
	"github.com/yungbote/flightsim-backend/internal/llm/engine"
	"github.com/yungbote/flightsim-backend/internal/llm/engine/anthropic"
	"github.com/yungbote/flightsim-backend/internal/llm/engine/gemini"
	"github.com/yungbote/flightsim-backend/internal/llm/engine/mock"
	"github.com/yungbote/flightsim-backend/internal/llm/engine/oaihttp"
	"github.com/yungbote/flightsim-backend/internal/observability"
	"github.com/yungbote/flightsim-backend/internal/platform/ctxutil"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
)

// Request is one generation call.
type Request struct {
	Task     string
	System   string
	User     string
	JSONMode bool
}

type Router struct {
	engine          engine.Engine
	model           string
	taskModels      map[string]string
	temperature     float64
	maxOutputTokens int

	log     *logger.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// New builds the engine named by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig, log *logger.Logger, metrics *observability.Metrics) (*Router, error) {
	var eng engine.Engine
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case config.ProviderMock, "":
		eng = mock.New()
	case config.ProviderGemini:
		e, err := gemini.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		eng = e
	case config.ProviderAnthropic:
		e, err := anthropic.New(cfg)
		if err != nil {
			return nil, err
		}
		eng = e
	case config.ProviderOAIHTTP:
		e, err := oaihttp.New(cfg)
		if err != nil {
			return nil, err
		}
		eng = e
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	return NewWithEngine(eng, cfg, log, metrics), nil
}

// NewWithEngine is used by tests and by callers that build their own engine.
func NewWithEngine(eng engine.Engine, cfg config.LLMConfig, log *logger.Logger, metrics *observability.Metrics) *Router {
	if log == nil {
		log = logger.Nop()
	}
	taskModels := make(map[string]string, len(cfg.TaskModels))
	for k, v := range cfg.TaskModels {
		if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
			taskModels[k] = v
		}
	}
	return &Router{
		engine:          eng,
		model:           strings.TrimSpace(cfg.Model),
		taskModels:      taskModels,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		log:             log.With("service", "LLMRouter", "provider", eng.Name()),
		metrics:         metrics,
		tracer:          otel.Tracer("flightsim/llm"),
	}
}

func (r *Router) Provider() string { return r.engine.Name() }

// ModelFor returns the task override, falling back to the default model.
func (r *Router) ModelFor(task string) string {
	if m, ok := r.taskModels[task]; ok {
		return m
	}
	return r.model
}

// Generate runs one completion. Errors are always *engine.UpstreamError.
func (r *Router) Generate(ctx context.Context, req Request) (string, error) {
	model := r.ModelFor(req.Task)
	ctx, span := r.tracer.Start(ctx, "llm.generate", trace.WithAttributes(
		attribute.String("llm.provider", r.engine.Name()),
		attribute.String("llm.model", model),
		attribute.String("llm.task", req.Task),
	))
	defer span.End()

	messages := make([]engine.Message, 0, 2)
	if s := strings.TrimSpace(req.System); s != "" {
		messages = append(messages, engine.Message{Role: engine.RoleSystem, Content: s})
	}
	messages = append(messages, engine.Message{Role: engine.RoleUser, Content: req.User})

	start := time.Now()
	text, err := r.engine.GenerateText(ctx, model, messages, engine.GenerateOptions{
		Task:            req.Task,
		Temperature:     r.temperature,
		JSONMode:        req.JSONMode,
		MaxOutputTokens: r.maxOutputTokens,
	})
	dur := time.Since(start)

	fields := append(ctxutil.LogFields(ctx), "task", req.Task, "model", model, "duration_ms", dur.Milliseconds())
	if err != nil {
		err = engine.Upstream(r.engine.Name(), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream unavailable")
		r.metrics.ObserveLLMRequest(r.engine.Name(), req.Task, "error", dur)
		r.log.Warn("llm generation failed", append(fields, "error", err)...)
		return "", err
	}
	span.SetAttributes(attribute.Int("llm.output_chars", len(text)))
	r.metrics.ObserveLLMRequest(r.engine.Name(), req.Task, "ok", dur)
	r.log.Debug("llm generation complete", append(fields, "output_chars", len(text))...)
	return text, nil
}
