package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `yaml:"addr" json:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout" json:"read_header_timeout"`
	IdleTimeout       Duration `yaml:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	MaxRequestBytes   int64    `yaml:"max_request_bytes" json:"max_request_bytes"`
	AllowOrigins      []string `yaml:"allow_origins" json:"allow_origins"`
}

type LogConfig struct {
	Mode  string `yaml:"mode" json:"mode"`
	Level string `yaml:"level" json:"level"`
}

// LLMConfig selects the upstream text-generation provider.
// Provider is one of "mock", "gemini", "anthropic", "oai_http".
type LLMConfig struct {
	Provider        string   `yaml:"provider" json:"provider"`
	Model           string   `yaml:"model" json:"model"`
	APIKey          string   `yaml:"api_key" json:"api_key,omitempty"`
	BaseURL         string   `yaml:"base_url" json:"base_url,omitempty"`
	Timeout         Duration `yaml:"timeout" json:"timeout"`
	Temperature     float64  `yaml:"temperature" json:"temperature"`
	MaxOutputTokens int      `yaml:"max_output_tokens" json:"max_output_tokens"`

	// TaskModels overrides Model per task (e.g. "scenario_grade": "gemini-2.5-flash").
	TaskModels map[string]string `yaml:"task_models" json:"task_models,omitempty"`
}

type RealtimeConfig struct {
	Enabled        bool     `yaml:"enabled" json:"enabled"`
	Timeout        Duration `yaml:"timeout" json:"timeout"`
	WeatherBaseURL string   `yaml:"weather_base_url" json:"weather_base_url"`
	NewsBaseURL    string   `yaml:"news_base_url" json:"news_base_url"`
	NewsAPIKey     string   `yaml:"news_api_key" json:"news_api_key,omitempty"`
	NewsQuery      string   `yaml:"news_query" json:"news_query"`
	RatePerSecond  float64  `yaml:"rate_per_second" json:"rate_per_second"`
	Burst          int      `yaml:"burst" json:"burst"`
	MaxConcurrency int      `yaml:"max_concurrency" json:"max_concurrency"`
	CacheTTL       Duration `yaml:"cache_ttl" json:"cache_ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password,omitempty"`
	DB       int    `yaml:"db" json:"db"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled" json:"enabled"`
	ServiceName string  `yaml:"service_name" json:"service_name"`
	Endpoint    string  `yaml:"endpoint" json:"endpoint"`
	Insecure    bool    `yaml:"insecure" json:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio" json:"sample_ratio"`
}

type Config struct {
	Env      string         `yaml:"env" json:"env"`
	Version  string         `yaml:"version" json:"version"`
	Log      LogConfig      `yaml:"log" json:"log"`
	HTTP     HTTPConfig     `yaml:"http" json:"http"`
	LLM      LLMConfig      `yaml:"llm" json:"llm"`
	Realtime RealtimeConfig `yaml:"realtime" json:"realtime"`
	Redis    RedisConfig    `yaml:"redis" json:"redis"`
	Metrics  MetricsConfig  `yaml:"metrics" json:"metrics"`
	Otel     OtelConfig     `yaml:"otel" json:"otel"`
}
