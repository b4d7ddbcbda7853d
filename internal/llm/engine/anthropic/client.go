// Package anthropic calls the Anthropic Messages API over plain HTTP.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/flightsim-backend/internal/config"
	"github.com/yungbote/flightsim-backend/internal/llm/engine"
)

const (
	Name             = "anthropic"
	defaultBaseURL   = "https://api.anthropic.com"
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 8192
)

type Engine struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

func New(cfg config.LLMConfig) (*Engine, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("anthropic: api key required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Engine{
		baseURL:    baseURL,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{},
	}, nil
}

// NewWithHTTPClient is intended for tests.
func NewWithHTTPClient(cfg config.LLMConfig, httpClient *http.Client) (*Engine, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		e.httpClient = httpClient
	}
	return e, nil
}

func (e *Engine) Name() string { return Name }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	system, rest := engine.SplitSystem(messages)
	if len(rest) == 0 {
		// the Messages API needs at least one user turn
		if system == "" {
			return "", errors.New("no messages")
		}
		rest = []engine.Message{{Role: engine.RoleUser, Content: system}}
		system = ""
	}

	reqBody := messagesRequest{
		Model:     model,
		MaxTokens: opts.MaxOutputTokens,
		System:    system,
		Messages:  mergeTurns(rest),
	}
	if reqBody.MaxTokens <= 0 {
		reqBody.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature > 0 {
		t := opts.Temperature
		reqBody.Temperature = &t
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	ctx2, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx2, http.MethodPost, e.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", engine.Upstream(Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", engine.Upstream(Name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &engine.UpstreamError{Provider: Name, StatusCode: resp.StatusCode, Body: engine.TruncateBody(raw)}
	}

	var out messagesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", engine.Upstream(Name, err)
	}
	if out.Error != nil {
		return "", engine.Upstream(Name, errors.New(out.Error.Message))
	}

	var text strings.Builder
	for _, c := range out.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", engine.Upstream(Name, engine.ErrEmptyCompletion)
	}
	return text.String(), nil
}

// mergeTurns folds consecutive same-role turns and makes sure the first turn is the user's.
func mergeTurns(in []engine.Message) []message {
	out := make([]message, 0, len(in))
	for _, m := range in {
		if n := len(out); n > 0 && out[n-1].Role == m.Role {
			out[n-1].Content += "\n\n" + m.Content
			continue
		}
		out = append(out, message{Role: m.Role, Content: m.Content})
	}
	if len(out) > 0 && out[0].Role != engine.RoleUser {
		out = append([]message{{Role: engine.RoleUser, Content: "(conversation start)"}}, out...)
	}
	return out
}
