package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LOG_MODE", "LOG_LEVEL", "PORT", "FLIGHTSIM_HTTP_ADDR", "CORS_ALLOW_ORIGINS",
		"LLM_PROVIDER", "LLM_MODEL", "LLM_BASE_URL", "LLM_TIMEOUT", "LLM_TEMPERATURE",
		"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY",
		"REALTIME_ENABLED", "NEWS_API_KEY", "REALTIME_TIMEOUT",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "METRICS_ENABLED",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SAMPLER_RATIO",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultsUseMockProvider(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.LLM.Provider != ProviderMock || cfg.LLM.Model != "mock-1" {
		t.Fatalf("llm = %+v", cfg.LLM)
	}
	if cfg.HTTP.Addr != ":3002" {
		t.Fatalf("addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Fatalf("metrics path = %q", cfg.Metrics.Path)
	}
}

func TestLoadFileYAMLAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := strings.Join([]string{
		"env: staging",
		"http:",
		"  addr: \":9000\"",
		"  shutdown_timeout: 30s",
		"llm:",
		"  provider: claude",
		"  api_key: from-file",
		"  timeout: 45",
		"  task_models:",
		"    scenario_grade: claude-haiku",
		"realtime:",
		"  enabled: true",
		"  cache_ttl: 2m",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "8088")
	t.Setenv("ANTHROPIC_API_KEY", "from-env")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Env != "staging" {
		t.Fatalf("env = %q", cfg.Env)
	}
	if cfg.HTTP.Addr != ":8088" {
		t.Fatalf("addr = %q", cfg.HTTP.Addr)
	}
	if cfg.HTTP.ShutdownTimeout.Duration != 30*time.Second {
		t.Fatalf("shutdown = %v", cfg.HTTP.ShutdownTimeout.Duration)
	}
	if cfg.LLM.Provider != ProviderAnthropic || cfg.LLM.APIKey != "from-env" {
		t.Fatalf("llm = %+v", cfg.LLM)
	}
	if cfg.LLM.Timeout.Duration != 45*time.Second {
		t.Fatalf("llm timeout = %v", cfg.LLM.Timeout.Duration)
	}
	if diff := cmp.Diff(map[string]string{"scenario_grade": "claude-haiku"}, cfg.LLM.TaskModels); diff != "" {
		t.Fatalf("task models (-want +got):\n%s", diff)
	}
	if !cfg.Realtime.Enabled || cfg.Realtime.CacheTTL.Duration != 2*time.Minute {
		t.Fatalf("realtime = %+v", cfg.Realtime)
	}
}

func TestProviderDetectedFromKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.LLM.Provider != ProviderGemini || cfg.LLM.Model != "gemini-2.5-pro" || cfg.LLM.APIKey != "g-key" {
		t.Fatalf("llm = %+v", cfg.LLM)
	}
}

func TestValidationErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "gemini")
	if _, err := LoadFile(""); err == nil {
		t.Fatal("expected missing api key error")
	}

	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "carrier-pigeon")
	if _, err := LoadFile(""); err == nil {
		t.Fatal("expected unsupported provider error")
	}
}

func TestDurationJSON(t *testing.T) {
	var d Duration
	if err := d.UnmarshalJSON([]byte(`"1m30s"`)); err != nil || d.Duration != 90*time.Second {
		t.Fatalf("string form: %v %v", d.Duration, err)
	}
	if err := d.UnmarshalJSON([]byte(`1000`)); err != nil || d.Duration != time.Microsecond {
		t.Fatalf("int form: %v %v", d.Duration, err)
	}
	if err := d.UnmarshalJSON([]byte(`true`)); err == nil {
		t.Fatal("expected error")
	}
}
