package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port              int `yaml:"port"`
	MetricsPort       int `yaml:"metrics_port"`
	RateLimitPerMin   int `yaml:"rate_limit_per_minute"`
	MaxBodyBytes      int `yaml:"max_body_bytes"`
	ShutdownTimeoutMs int `yaml:"shutdown_timeout_ms"`
	// CORSOrigins lists browser origins allowed to call the API; empty disables CORS.
	CORSOrigins []string `yaml:"cors_origins"`
}

// HermesConfig configures the optional event bus. An empty URL disables events.
type HermesConfig struct {
	URL              string `yaml:"url"`
	PublishTimeoutMs int    `yaml:"publish_timeout_ms"`
}

type AnalysisConfig struct {
	SuggestLimit int `yaml:"suggest_limit"`
	MaxTasks     int `yaml:"max_tasks"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutMs) * time.Millisecond
}

func (c *Config) PublishTimeout() time.Duration {
	return time.Duration(c.Hermes.PublishTimeoutMs) * time.Millisecond
}

// SlogLevel maps the configured level name; unknown names fall back to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger writing to w.
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              8700,
			MetricsPort:       8701,
			RateLimitPerMin:   120,
			MaxBodyBytes:      1 << 20,
			ShutdownTimeoutMs: 10000,
			CORSOrigins:       []string{"*"},
		},
		Hermes: HermesConfig{
			PublishTimeoutMs: 2000,
		},
		Analysis: AnalysisConfig{
			SuggestLimit: 3,
			MaxTasks:     1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.MetricsPort <= 0 {
		return fmt.Errorf("invalid ports: api=%d metrics=%d", c.Server.Port, c.Server.MetricsPort)
	}
	if c.Server.Port == c.Server.MetricsPort {
		return fmt.Errorf("api and metrics ports must differ, both %d", c.Server.Port)
	}
	if c.Analysis.SuggestLimit <= 0 {
		return fmt.Errorf("suggest_limit must be positive, got %d", c.Analysis.SuggestLimit)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TRIAGE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("TRIAGE_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("TRIAGE_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMin = n
		}
	}
	if v, ok := os.LookupEnv("TRIAGE_CORS_ORIGINS"); ok {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("TRIAGE_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("TRIAGE_SUGGEST_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.SuggestLimit = n
		}
	}
	if v := os.Getenv("TRIAGE_MAX_TASKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.MaxTasks = n
		}
	}
	if v := os.Getenv("TRIAGE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TRIAGE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
