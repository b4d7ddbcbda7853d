package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/flightsim-backend/internal/config"
	"github.com/yungbote/flightsim-backend/internal/llm/engine"
)

func newTestEngine(t *testing.T, h http.HandlerFunc) *Engine {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	e, err := NewWithHTTPClient(context.Background(), config.LLMConfig{
		Provider: config.ProviderGemini,
		APIKey:   "g-test",
		BaseURL:  srv.URL,
		Timeout:  config.Duration{Duration: 2 * time.Second},
	}, srv.Client())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestGenerateText(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "gemini-2.5-pro:generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var in map[string]any
		_ = json.Unmarshal(body, &in)
		if _, ok := in["systemInstruction"]; !ok {
			t.Errorf("missing systemInstruction: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"ok\":true}"}]},"finishReason":"STOP"}]}`))
	})

	out, err := e.GenerateText(context.Background(), "gemini-2.5-pro", []engine.Message{
		{Role: engine.RoleSystem, Content: "rules"},
		{Role: engine.RoleUser, Content: "go"},
	}, engine.GenerateOptions{JSONMode: true, Temperature: 0.7})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("out = %q", out)
	}
}

func TestGenerateTextAPIError(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`))
	})
	_, err := e.GenerateText(context.Background(), "gemini-2.5-pro", []engine.Message{{Role: "user", Content: "x"}}, engine.GenerateOptions{})
	var ue *engine.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v", err)
	}
	if ue.ErrorCode() != "upstream_unavailable" {
		t.Fatalf("code = %s", ue.ErrorCode())
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(context.Background(), config.LLMConfig{}); err == nil {
		t.Fatalf("expected error")
	}
}
