// Package gemini generates text through the Google GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/yungbote/flightsim-backend/internal/config"
	"github.com/yungbote/flightsim-backend/internal/llm/engine"
)

const Name = "gemini"

type Engine struct {
	client  *genai.Client
	timeout time.Duration
}

func New(ctx context.Context, cfg config.LLMConfig) (*Engine, error) {
	return NewWithHTTPClient(ctx, cfg, nil)
}

// NewWithHTTPClient lets tests point the SDK at an httptest server.
func NewWithHTTPClient(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client) (*Engine, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key required")
	}
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Engine{client: client, timeout: timeout}, nil
}

func (e *Engine) Name() string { return Name }

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	system, rest := engine.SplitSystem(messages)
	if len(rest) == 0 {
		if system == "" {
			return "", errors.New("no messages")
		}
		rest = []engine.Message{{Role: engine.RoleUser, Content: system}}
		system = ""
	}

	contents := make([]*genai.Content, 0, len(rest))
	for _, m := range rest {
		role := genai.Role(genai.RoleUser)
		if m.Role == engine.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	gc := &genai.GenerateContentConfig{}
	if system != "" {
		gc.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if opts.Temperature > 0 {
		gc.Temperature = genai.Ptr(float32(opts.Temperature))
	}
	if opts.MaxOutputTokens > 0 {
		gc.MaxOutputTokens = int32(opts.MaxOutputTokens)
	}
	if opts.JSONMode {
		gc.ResponseMIMEType = "application/json"
	}

	ctx2, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.Models.GenerateContent(ctx2, model, contents, gc)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &engine.UpstreamError{Provider: Name, StatusCode: apiErr.Code, Body: apiErr.Message, Err: err}
		}
		return "", engine.Upstream(Name, err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", engine.Upstream(Name, engine.ErrEmptyCompletion)
	}
	return text, nil
}
