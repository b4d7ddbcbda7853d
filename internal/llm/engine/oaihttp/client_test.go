package oaihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/flightsim-backend/internal/config"
	"github.com/yungbote/flightsim-backend/internal/llm/engine"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, v any) *http.Response {
	b, _ := json.Marshal(v)
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(b)),
	}
}

func testConfig() config.LLMConfig {
	return config.LLMConfig{
		Provider: config.ProviderOAIHTTP,
		BaseURL:  "http://upstream",
		APIKey:   "sk-test",
		Timeout:  config.Duration{Duration: 2 * time.Second},
	}
}

func TestGenerateText(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/v1/chat/completions" {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
				t.Fatalf("authorization = %q", got)
			}
			var in completionRequest
			if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
				t.Fatalf("decode req: %v", err)
			}
			if in.Model != "gpt-4o-mini" || len(in.Messages) != 2 {
				t.Fatalf("req = %+v", in)
			}
			if in.ResponseFormat == nil || in.ResponseFormat.Type != "json_object" {
				t.Fatalf("response_format = %v", in.ResponseFormat)
			}
			return jsonResponse(http.StatusOK, map[string]any{
				"choices": []map[string]any{{"message": map[string]any{"content": `{"ok":true}`}}},
			}), nil
		}),
	}

	e, err := NewWithHTTPClient(testConfig(), client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	out, err := e.GenerateText(context.Background(), "gpt-4o-mini", []engine.Message{
		{Role: engine.RoleSystem, Content: "rules"},
		{Role: engine.RoleUser, Content: "go"},
		{Role: engine.RoleUser, Content: "   "},
	}, engine.GenerateOptions{JSONMode: true})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("out = %q", out)
	}
}

func TestGenerateTextUpstreamStatus(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusServiceUnavailable, map[string]any{"error": "overloaded"}), nil
		}),
	}
	e, _ := NewWithHTTPClient(testConfig(), client)
	_, err := e.GenerateText(context.Background(), "m", []engine.Message{{Role: "user", Content: "x"}}, engine.GenerateOptions{})

	var ue *engine.UpstreamError
	if !errors.As(err, &ue) || ue.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("err = %v", err)
	}
}

func TestGenerateTextEmptyCompletion(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, map[string]any{"choices": []any{}}), nil
		}),
	}
	e, _ := NewWithHTTPClient(testConfig(), client)
	_, err := e.GenerateText(context.Background(), "m", []engine.Message{{Role: "user", Content: "x"}}, engine.GenerateOptions{})
	if !errors.Is(err, engine.ErrEmptyCompletion) {
		t.Fatalf("err = %v", err)
	}
}

func TestGenerateTextTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = config.Duration{Duration: 20 * time.Millisecond}
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}),
	}
	e, _ := NewWithHTTPClient(cfg, client)
	_, err := e.GenerateText(context.Background(), "m", []engine.Message{{Role: "user", Content: "x"}}, engine.GenerateOptions{})

	var ue *engine.UpstreamError
	if !errors.As(err, &ue) || !ue.Timeout() {
		t.Fatalf("err = %v", err)
	}
}

func TestNewEndpointNormalization(t *testing.T) {
	for base, want := range map[string]string{
		"":                          "https://api.openai.com/v1/chat/completions",
		"http://localhost:11434/v1": "http://localhost:11434/v1/chat/completions",
		"http://localhost:8000/":    "http://localhost:8000/v1/chat/completions",
		"https://openrouter.ai/api": "https://openrouter.ai/api/v1/chat/completions",
	} {
		cfg := testConfig()
		cfg.BaseURL = base
		e, err := New(cfg)
		if err != nil {
			t.Fatalf("New(%q): %v", base, err)
		}
		if e.endpoint != want {
			t.Fatalf("endpoint(%q) = %q, want %q", base, e.endpoint, want)
		}
	}
}

func TestGenerateTextProviderErrorBody(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, map[string]any{"error": map[string]any{"message": "model not loaded"}}), nil
		}),
	}
	e, _ := NewWithHTTPClient(testConfig(), client)
	_, err := e.GenerateText(context.Background(), "m", []engine.Message{{Role: "user", Content: "x"}}, engine.GenerateOptions{})

	var ue *engine.UpstreamError
	if !errors.As(err, &ue) || !strings.Contains(err.Error(), "model not loaded") {
		t.Fatalf("err = %v", err)
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.BaseURL = "not a url"
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected error")
	}
}
