package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the chat service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"chat-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"CHAT_API_PORT" envDefault:"8230"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Document store (required, no default)
	MongoURL            string        `env:"MONGODB_URL,notEmpty"`
	MongoDatabase       string        `env:"DB_NAME" envDefault:"analytics_db"`
	MongoConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	SalesCollection     string        `env:"SALES_COLLECTION" envDefault:"sales_data"`
	HistoryCollection   string        `env:"HISTORY_COLLECTION" envDefault:"user_chat_history"`

	// Generation provider (OpenAI-compatible endpoint)
	LLMBaseURL     string        `env:"LLM_BASE_URL"`
	LLMAPIKey      string        `env:"LLM_API_KEY,notEmpty"`
	LLMModel       string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	LLMMaxAttempts int           `env:"LLM_MAX_ATTEMPTS" envDefault:"3"`

	// Chat behaviour
	HistoryLimit      int `env:"HISTORY_LIMIT" envDefault:"50"`
	ResultCap         int `env:"RESULT_CAP" envDefault:"100"`
	MaxPipelineStages int `env:"MAX_PIPELINE_STAGES" envDefault:"16"`

	// Optional static service key; empty disables auth
	APIKey string `env:"CHAT_API_KEY"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.LLMBaseURL = strings.TrimSpace(cfg.LLMBaseURL)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 50
	}
	if cfg.ResultCap <= 0 {
		cfg.ResultCap = 100
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
