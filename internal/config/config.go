// Package config provides unified configuration loading for the ESG assistant.
// Supports YAML files, .env files, environment variables and programmatic overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spherical-ai/esg-assistant/internal/domain"
	"github.com/spherical-ai/esg-assistant/internal/llm"
)

// DefaultPersona is the system prompt that frames every conversation.
const DefaultPersona = "You are a sustainability and packaging expert specializing in Life Cycle Assessment (LCA), " +
	"ESG (Environmental, Social, Governance) reporting, and materiality analysis for packaging. " +
	"Answer user questions as an industry authority, using up-to-date standards, real-world examples, " +
	"and clear explanations tailored to packaging solutions."

// Config holds all configuration for the assistant binaries.
type Config struct {
	LLM           LLMConfig           `yaml:"llm"`
	Assistant     AssistantConfig     `yaml:"assistant"`
	PDF           PDFConfig           `yaml:"pdf"`
	Server        ServerConfig        `yaml:"server"`
	Session       SessionConfig       `yaml:"session"`
	Database      DatabaseConfig      `yaml:"database"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// LLMConfig holds the chat-completion endpoint settings.
type LLMConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
	// APIKey is normally supplied through GROQ_API_KEY rather than the file.
	APIKey string `yaml:"api_key"`
}

// AssistantConfig holds the conversation settings.
type AssistantConfig struct {
	Persona string `yaml:"persona"`
}

// PDFConfig holds text extraction settings.
type PDFConfig struct {
	Engine      string `yaml:"engine"` // fitz or native
	MaxFileSize int64  `yaml:"max_file_size"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	APIToken         string        `yaml:"api_token"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
}

// SessionConfig holds web session storage settings.
type SessionConfig struct {
	Driver string        `yaml:"driver"` // memory or redis
	TTL    time.Duration `yaml:"ttl"`
	Redis  RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// DatabaseConfig holds report archive settings.
type DatabaseConfig struct {
	Driver   string         `yaml:"driver"` // none, sqlite or postgres
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig holds Postgres-specific settings.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads .env, then the YAML file at path (if any), then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigurationError("read config file", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigurationError("parse config file", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:     llm.DefaultBaseURL,
			Model:       llm.DefaultModel,
			Temperature: llm.DefaultTemperature,
			MaxTokens:   llm.DefaultMaxTokens,
			Timeout:     llm.DefaultTimeout,
		},
		Assistant: AssistantConfig{
			Persona: DefaultPersona,
		},
		PDF: PDFConfig{
			Engine:      "fitz",
			MaxFileSize: 100 * 1024 * 1024,
		},
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8090,
			ReadTimeout:      60 * time.Second,
			WriteTimeout:     90 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			AllowedOrigins:   []string{"*"},
		},
		Session: SessionConfig{
			Driver: "memory",
			TTL:    24 * time.Hour,
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "esg:session:",
			},
		},
		Database: DatabaseConfig{
			Driver: "none",
			SQLite: SQLiteConfig{
				Path: "esg-reports.db",
			},
			Postgres: PostgresConfig{
				MaxOpenConns:    10,
				MaxIdleConns:    2,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return domain.ConfigurationError("GROQ_API_KEY is not set; add it to your environment or a .env file", nil)
	}

	if err := c.Sampling().Validate(); err != nil {
		return err
	}

	if c.LLM.Timeout <= 0 {
		return domain.ConfigurationError(fmt.Sprintf("llm timeout must be positive, got %s", c.LLM.Timeout), nil)
	}

	if _, err := url.ParseRequestURI(c.LLM.BaseURL); err != nil {
		return domain.ConfigurationError(fmt.Sprintf("invalid llm base url: %q", c.LLM.BaseURL), err)
	}

	if strings.TrimSpace(c.Assistant.Persona) == "" {
		return domain.ConfigurationError("assistant persona must not be empty", nil)
	}

	if c.PDF.Engine != "fitz" && c.PDF.Engine != "native" {
		return domain.ConfigurationError(fmt.Sprintf("invalid pdf engine: %s", c.PDF.Engine), nil)
	}

	if c.PDF.MaxFileSize <= 0 {
		return domain.ConfigurationError("pdf max_file_size must be positive", nil)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return domain.ConfigurationError(fmt.Sprintf("invalid server port: %d", c.Server.Port), nil)
	}

	if c.Session.Driver != "memory" && c.Session.Driver != "redis" {
		return domain.ConfigurationError(fmt.Sprintf("invalid session driver: %s", c.Session.Driver), nil)
	}

	switch c.Database.Driver {
	case "none", "sqlite":
	case "postgres":
		if c.Database.Postgres.DSN == "" {
			return domain.ConfigurationError("postgres driver requires database.postgres.dsn", nil)
		}
	default:
		return domain.ConfigurationError(fmt.Sprintf("invalid database driver: %s", c.Database.Driver), nil)
	}

	return nil
}

// Sampling returns the completion parameters fixed for this deployment.
func (c *Config) Sampling() domain.SamplingConfig {
	return domain.SamplingConfig{
		Model:       c.LLM.Model,
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
	}
}

// ArchiveEnabled reports whether analyses are stored for later download.
func (c *Config) ArchiveEnabled() bool {
	return c.Database.Driver != "none"
}

// Addr returns the host:port the API server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}

	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}

	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}

	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.ConfigurationError(fmt.Sprintf("invalid LLM_TEMPERATURE: %q", v), err)
		}
		cfg.LLM.Temperature = t
	}

	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.ConfigurationError(fmt.Sprintf("invalid LLM_MAX_TOKENS: %q", v), err)
		}
		cfg.LLM.MaxTokens = n
	}

	if v := os.Getenv("PDF_ENGINE"); v != "" {
		cfg.PDF.Engine = v
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return domain.ConfigurationError(fmt.Sprintf("invalid SERVER_PORT: %q", v), err)
		}
		cfg.Server.Port = port
	}

	if v := os.Getenv("API_TOKEN"); v != "" {
		cfg.Server.APIToken = v
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Session.Driver = "redis"
		cfg.Session.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		if strings.HasPrefix(v, "sqlite:") {
			cfg.Database.Driver = "sqlite"
			cfg.Database.SQLite.Path = strings.TrimPrefix(v, "sqlite:")
		} else if strings.HasPrefix(v, "postgres") {
			cfg.Database.Driver = "postgres"
			cfg.Database.Postgres.DSN = v
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}

	return nil
}
