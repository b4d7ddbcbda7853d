package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/flightsim-backend/internal/platform/envutil"
)

const (
	ProviderMock      = "mock"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOAIHTTP   = "oai_http"
)

var defaultModels = map[string]string{
	ProviderMock:      "mock-1",
	ProviderGemini:    "gemini-2.5-pro",
	ProviderAnthropic: "claude-sonnet-4-20250514",
	ProviderOAIHTTP:   "gpt-4o-mini",
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		Log: LogConfig{Mode: "development", Level: "debug"},
		HTTP: HTTPConfig{
			Addr:              ":3002",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   2 << 20,
			AllowOrigins: []string{
				"http://localhost:3000",
				"http://localhost:3002",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:3002",
			},
		},
		LLM: LLMConfig{
			Timeout:         Duration{Duration: 90 * time.Second},
			Temperature:     0.7,
			MaxOutputTokens: 8192,
		},
		Realtime: RealtimeConfig{
			Timeout:        Duration{Duration: 8 * time.Second},
			WeatherBaseURL: "https://api.open-meteo.com",
			NewsBaseURL:    "https://newsapi.org",
			NewsQuery:      "pharmaceutical supply chain",
			RatePerSecond:  5,
			Burst:          5,
			MaxConcurrency: 4,
			CacheTTL:       Duration{Duration: 10 * time.Minute},
		},
		Metrics: MetricsConfig{Path: "/metrics"},
		Otel:    OtelConfig{ServiceName: "flightsim", SampleRatio: 0.1},
	}
}

// Load reads FLIGHTSIM_CONFIG_PATH (or ./config/config.yaml when present), applies
// environment overrides, then validates and fills defaults.
func Load() (*Config, error) {
	cfgPath := strings.TrimSpace(os.Getenv("FLIGHTSIM_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	return LoadFile(cfgPath)
}

// LoadFile is Load with an explicit file path; an empty path means defaults + env only.
func LoadFile(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := envutil.String("LOG_MODE", ""); v != "" {
		cfg.Log.Mode = v
		cfg.Env = v
	}
	cfg.Log.Level = envutil.String("LOG_LEVEL", cfg.Log.Level)
	if v := envutil.String("PORT", ""); v != "" {
		cfg.HTTP.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	cfg.HTTP.Addr = envutil.String("FLIGHTSIM_HTTP_ADDR", cfg.HTTP.Addr)
	if v := envutil.String("CORS_ALLOW_ORIGINS", ""); v != "" {
		cfg.HTTP.AllowOrigins = splitCSV(v)
	}

	cfg.LLM.Provider = envutil.String("LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.Model = envutil.String("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.BaseURL = envutil.String("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.Timeout.Duration = envutil.Duration("LLM_TIMEOUT", cfg.LLM.Timeout.Duration)
	cfg.LLM.Temperature = envutil.Float("LLM_TEMPERATURE", cfg.LLM.Temperature)

	if cfg.LLM.Provider == "" {
		switch {
		case envutil.String("GEMINI_API_KEY", "") != "":
			cfg.LLM.Provider = ProviderGemini
		case envutil.String("ANTHROPIC_API_KEY", "") != "":
			cfg.LLM.Provider = ProviderAnthropic
		case envutil.String("OPENAI_API_KEY", "") != "":
			cfg.LLM.Provider = ProviderOAIHTTP
		}
	}
	switch normalizeProvider(cfg.LLM.Provider) {
	case ProviderGemini:
		cfg.LLM.APIKey = envutil.String("GEMINI_API_KEY", cfg.LLM.APIKey)
	case ProviderAnthropic:
		cfg.LLM.APIKey = envutil.String("ANTHROPIC_API_KEY", cfg.LLM.APIKey)
	case ProviderOAIHTTP:
		cfg.LLM.APIKey = envutil.String("OPENAI_API_KEY", cfg.LLM.APIKey)
	}

	cfg.Realtime.Enabled = envutil.Bool("REALTIME_ENABLED", cfg.Realtime.Enabled)
	cfg.Realtime.NewsAPIKey = envutil.String("NEWS_API_KEY", cfg.Realtime.NewsAPIKey)
	cfg.Realtime.Timeout.Duration = envutil.Duration("REALTIME_TIMEOUT", cfg.Realtime.Timeout.Duration)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)

	cfg.Metrics.Enabled = envutil.Bool("METRICS_ENABLED", cfg.Metrics.Enabled)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	cfg.Otel.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", cfg.Otel.SampleRatio)
}

func finalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":3002"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 2 << 20
	}
	if cfg.HTTP.ShutdownTimeout.Duration <= 0 {
		cfg.HTTP.ShutdownTimeout = Duration{Duration: 15 * time.Second}
	}

	cfg.LLM.Provider = normalizeProvider(cfg.LLM.Provider)
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderMock
	}
	def, ok := defaultModels[cfg.LLM.Provider]
	if !ok {
		return fmt.Errorf("llm.provider %q is not supported", cfg.LLM.Provider)
	}
	if strings.TrimSpace(cfg.LLM.Model) == "" {
		cfg.LLM.Model = def
	}
	if cfg.LLM.Provider != ProviderMock && strings.TrimSpace(cfg.LLM.APIKey) == "" {
		return fmt.Errorf("llm.provider %q requires an api key", cfg.LLM.Provider)
	}
	if cfg.LLM.Provider == ProviderOAIHTTP && strings.TrimSpace(cfg.LLM.BaseURL) == "" {
		cfg.LLM.BaseURL = "https://api.openai.com"
	}
	cfg.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.LLM.BaseURL), "/")
	if cfg.LLM.Timeout.Duration <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature %v out of range [0,2]", cfg.LLM.Temperature)
	}

	if cfg.Realtime.Timeout.Duration <= 0 {
		cfg.Realtime.Timeout = Duration{Duration: 8 * time.Second}
	}
	if cfg.Realtime.RatePerSecond <= 0 {
		cfg.Realtime.RatePerSecond = 5
	}
	if cfg.Realtime.Burst <= 0 {
		cfg.Realtime.Burst = 1
	}
	if cfg.Realtime.MaxConcurrency <= 0 {
		cfg.Realtime.MaxConcurrency = 4
	}
	cfg.Realtime.WeatherBaseURL = strings.TrimRight(strings.TrimSpace(cfg.Realtime.WeatherBaseURL), "/")
	cfg.Realtime.NewsBaseURL = strings.TrimRight(strings.TrimSpace(cfg.Realtime.NewsBaseURL), "/")

	if strings.TrimSpace(cfg.Metrics.Path) == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		cfg.Metrics.Path = "/" + cfg.Metrics.Path
	}
	if cfg.Otel.SampleRatio < 0 {
		cfg.Otel.SampleRatio = 0
	}
	if cfg.Otel.SampleRatio > 1 {
		cfg.Otel.SampleRatio = 1
	}
	if strings.TrimSpace(cfg.Otel.ServiceName) == "" {
		cfg.Otel.ServiceName = "flightsim"
	}
	return nil
}

func normalizeProvider(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "":
		return ""
	case "google", "gemini":
		return ProviderGemini
	case "claude", "anthropic":
		return ProviderAnthropic
	case "openai", "openai_http", "oai_http", "oai":
		return ProviderOAIHTTP
	case "mock":
		return ProviderMock
	default:
		return strings.ToLower(strings.TrimSpace(p))
	}
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
