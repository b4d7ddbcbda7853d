// Package oaihttp talks to any OpenAI-compatible chat completions endpoint
// (OpenAI, vLLM, Ollama, LM Studio, OpenRouter).
package oaihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/flightsim-backend/internal/config"
	"github.com/yungbote/flightsim-backend/internal/llm/engine"
)

const (
	Name           = "oai_http"
	defaultBaseURL = "https://api.openai.com"
	defaultTimeout = 60 * time.Second
	maxReplyBytes  = 8 << 20
)

type Engine struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	hc       *http.Client
}

func New(cfg config.LLMConfig) (*Engine, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("oai_http: base_url %q is not an absolute url", base)
	}
	// Accept base URLs given with or without the /v1 suffix.
	u.Path = strings.TrimSuffix(u.Path, "/v1") + "/v1/chat/completions"

	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Engine{
		endpoint: u.String(),
		apiKey:   strings.TrimSpace(cfg.APIKey),
		timeout:  timeout,
		hc:       &http.Client{Transport: pooledTransport()},
	}, nil
}

// NewWithHTTPClient swaps the transport, mostly so tests can stub the network.
func NewWithHTTPClient(cfg config.LLMConfig, hc *http.Client) (*Engine, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if hc != nil {
		e.hc = hc
	}
	return e, nil
}

func pooledTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

func (e *Engine) Name() string { return Name }

type turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []turn          `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type completionReply struct {
	Choices []struct {
		Message      turn   `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	system, rest := engine.SplitSystem(messages)
	turns := make([]turn, 0, len(rest)+1)
	if system != "" {
		turns = append(turns, turn{Role: engine.RoleSystem, Content: system})
	}
	for _, m := range rest {
		turns = append(turns, turn{Role: m.Role, Content: m.Content})
	}
	if len(turns) == 0 {
		return "", engine.Upstream(Name, fmt.Errorf("nothing to send"))
	}

	req := completionRequest{
		Model:       model,
		Messages:    turns,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxOutputTokens,
	}
	if opts.JSONMode {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	reply, err := e.post(ctx, req)
	if err != nil {
		return "", err
	}
	for _, c := range reply.Choices {
		if strings.TrimSpace(c.Message.Content) != "" {
			return c.Message.Content, nil
		}
	}
	return "", engine.Upstream(Name, engine.ErrEmptyCompletion)
}

func (e *Engine) post(ctx context.Context, body completionRequest) (*completionReply, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.hc.Do(req)
	if err != nil {
		return nil, engine.Upstream(Name, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, engine.Upstream(Name, err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, &engine.UpstreamError{Provider: Name, StatusCode: resp.StatusCode, Body: engine.TruncateBody(raw)}
	}

	var reply completionReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, engine.Upstream(Name, fmt.Errorf("decode completion: %w", err))
	}
	if reply.Error != nil && reply.Error.Message != "" {
		return nil, engine.Upstream(Name, fmt.Errorf("provider error: %s", reply.Error.Message))
	}
	return &reply, nil
}
