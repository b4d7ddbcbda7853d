package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flightsim-backend/internal/config"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	cfg.LLM.Provider = config.ProviderMock
	cfg.Redis.Addr = ""
	cfg.Realtime.Enabled = false
	cfg.Otel.Enabled = false
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	return cfg
}

func TestNewWiresMockBackend(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, err := New(context.Background(), testConfig(t), logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.Clients.LLM.Provider() != "mock" {
		t.Fatalf("provider = %s", a.Clients.LLM.Provider())
	}
	if a.Clients.Fetcher != nil {
		t.Fatal("fetcher should be nil when real-time data is disabled")
	}

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz = %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/flashcards/categories", nil))
	var body struct {
		Success    bool     `json:"success"`
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || !body.Success || len(body.Categories) == 0 {
		t.Fatalf("categories = %s (%v)", rec.Body.String(), err)
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.Provider = "carrier-pigeon"
	if _, err := New(context.Background(), cfg, logger.Nop()); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestRealtimeEnabledWiresFetcher(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Enabled = false
	cfg.Realtime.Enabled = true
	a, err := New(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if a.Clients.Fetcher == nil || a.Metrics != nil {
		t.Fatalf("fetcher=%v metrics=%v", a.Clients.Fetcher, a.Metrics)
	}
}
