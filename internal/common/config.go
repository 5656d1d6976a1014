package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment  string             `toml:"environment"` // "development" or "production"
	Server       ServerConfig       `toml:"server"`
	Logging      LoggingConfig      `toml:"logging"`
	PropertyData PropertyDataConfig `toml:"property_data"`
	Gemini       GeminiConfig       `toml:"gemini"`
	Claude       ClaudeConfig       `toml:"claude"`
	LLM          LLMConfig          `toml:"llm"`
	Storage      StorageConfig      `toml:"storage"`
	History      HistoryConfig      `toml:"history"`
	Evaluation   EvaluationConfig   `toml:"evaluation"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gte=0,lte=65535"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"omitempty,oneof=trace debug info warn error fatal"`
	Output []string `toml:"output"` // "console", "stdout", "file"
}

// PropertyDataConfig configures the upstream property-data provider and the
// deterministic fallback that replaces it when a lookup fails.
type PropertyDataConfig struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url" validate:"omitempty,url"`
	FallbackEnabled bool   `toml:"fallback_enabled"`
	Timeout         string `toml:"timeout"`    // e.g. "10s"
	RateLimit       int    `toml:"rate_limit" validate:"gte=0"` // requests per second, 0 = client default
	DefaultZipcode  string `toml:"default_zipcode"`
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Timeout     string  `toml:"timeout"`
	Temperature float32 `toml:"temperature" validate:"gte=0,lte=2"`
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens" validate:"gte=0"`
	Temperature float32 `toml:"temperature" validate:"gte=0,lte=1"`
}

// LLMProvider identifies the generative model backend
type LLMProvider string

const (
	LLMProviderGemini LLMProvider = "gemini"
	LLMProviderClaude LLMProvider = "claude"
)

type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"omitempty,oneof=gemini claude"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
	Redis  RedisConfig  `toml:"redis"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path string `toml:"path"`
}

// RedisConfig configures the hosted history store. An empty Addr disables it.
type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db" validate:"gte=0"`
	KeyPrefix string `toml:"key_prefix"`
}

// HistoryConfig controls retention of saved analyses
type HistoryConfig struct {
	RetentionSchedule string `toml:"retention_schedule"` // cron expression, empty disables
	MaxAge            string `toml:"max_age"`            // e.g. "2160h"
}

type EvaluationConfig struct {
	PassThreshold float64 `toml:"pass_threshold" validate:"gte=0,lte=100"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"console", "file"},
		},
		PropertyData: PropertyDataConfig{
			BaseURL:         "https://api.gateway.attomdata.com/propertyapi/v1.0.0",
			FallbackEnabled: true,
			Timeout:         "15s",
			RateLimit:       5,
			DefaultZipcode:  "90210",
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash",
			Timeout:     "2m",
			Temperature: 0.2,
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   4096,
			Temperature: 0.2,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/proppulse",
			},
			Redis: RedisConfig{
				KeyPrefix: "proppulse:history",
			},
		},
		History: HistoryConfig{
			RetentionSchedule: "0 3 * * *",
			MaxAge:            "2160h", // 90 days
		},
		Evaluation: EvaluationConfig{
			PassThreshold: 80,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority
// default -> file1 -> file2 -> ... -> env. Later files override earlier ones.
// A .env file in the working directory is loaded into the environment first.
func LoadFromFiles(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PROPPULSE_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("PROPPULSE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PROPPULSE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("PROPPULSE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("PROPPULSE_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Property data configuration
	if key := firstEnv("PROPPULSE_PROPERTY_DATA_API_KEY", "ATTOM_API_KEY"); key != "" {
		config.PropertyData.APIKey = key
	}
	if baseURL := os.Getenv("PROPPULSE_PROPERTY_DATA_BASE_URL"); baseURL != "" {
		config.PropertyData.BaseURL = baseURL
	}
	if fallback := os.Getenv("PROPPULSE_PROPERTY_DATA_FALLBACK_ENABLED"); fallback != "" {
		if fb, err := strconv.ParseBool(fallback); err == nil {
			config.PropertyData.FallbackEnabled = fb
		}
	}
	if timeout := os.Getenv("PROPPULSE_PROPERTY_DATA_TIMEOUT"); timeout != "" {
		config.PropertyData.Timeout = timeout
	}

	// LLM configuration
	if key := firstEnv("PROPPULSE_GEMINI_API_KEY", "GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if model := os.Getenv("PROPPULSE_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if key := firstEnv("PROPPULSE_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if model := os.Getenv("PROPPULSE_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if provider := os.Getenv("PROPPULSE_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}

	// Storage configuration
	if badgerPath := os.Getenv("PROPPULSE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if addr := os.Getenv("PROPPULSE_REDIS_ADDR"); addr != "" {
		config.Storage.Redis.Addr = addr
	}
	if password := os.Getenv("PROPPULSE_REDIS_PASSWORD"); password != "" {
		config.Storage.Redis.Password = password
	}
	if db := os.Getenv("PROPPULSE_REDIS_DB"); db != "" {
		if d, err := strconv.Atoi(db); err == nil {
			config.Storage.Redis.DB = d
		}
	}

	// History configuration
	if schedule := os.Getenv("PROPPULSE_HISTORY_RETENTION_SCHEDULE"); schedule != "" {
		config.History.RetentionSchedule = schedule
	}
	if maxAge := os.Getenv("PROPPULSE_HISTORY_MAX_AGE"); maxAge != "" {
		config.History.MaxAge = maxAge
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks struct constraints, duration strings and the retention schedule
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for name, value := range map[string]string{
		"property_data.timeout": c.PropertyData.Timeout,
		"gemini.timeout":        c.Gemini.Timeout,
		"history.max_age":       c.History.MaxAge,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s '%s': %w", name, value, err)
		}
	}

	if err := ValidateSchedule(c.History.RetentionSchedule); err != nil {
		return err
	}

	return nil
}

// ValidateSchedule validates a standard 5-field cron expression. Empty is allowed.
func ValidateSchedule(schedule string) error {
	if schedule == "" {
		return nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// ParseDurationOr parses value, returning fallback when empty or invalid
func ParseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
