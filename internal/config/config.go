// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.aura/config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - Retrieval: similarity threshold, context size, recency window (see retrieval.go)
//   - Storage: PostgreSQL connection for the query-history store (see storage.go)
//   - Serve: HTTP listen address and rate limiting
//   - Tracing: OTLP agent endpoint for the serve mode
//
// Sensitive data (the database password) is never logged; String() and
// MarshalJSON mask it.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidThreshold indicates the similarity threshold is out of range.
	ErrInvalidThreshold = errors.New("invalid similarity threshold")

	// ErrInvalidMaxContext indicates the max context queries value is out of range.
	ErrInvalidMaxContext = errors.New("invalid max context queries")

	// ErrInvalidRecencyWindow indicates the recency window is out of range.
	ErrInvalidRecencyWindow = errors.New("invalid recency window")

	// ErrInvalidFetchLimit indicates the history fetch limit is out of range.
	ErrInvalidFetchLimit = errors.New("invalid history fetch limit")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidPostgresSSLMode indicates the PostgreSQL SSL mode is invalid.
	ErrInvalidPostgresSSLMode = errors.New("invalid PostgreSQL SSL mode")

	// ErrInvalidListenAddr indicates the serve listen address is invalid.
	ErrInvalidListenAddr = errors.New("invalid listen address")
)

// Defaults for the retrieval engine. These mirror the values the engine was
// tuned with; overriding them is an operational decision, not a code change.
const (
	// DefaultSimilarityThreshold is the minimum score for a past
	// interaction to be considered relevant.
	DefaultSimilarityThreshold = 0.3

	// DefaultMaxContextQueries is the maximum number of past interactions
	// included in an enhanced prompt.
	DefaultMaxContextQueries = 5

	// DefaultRecencyWindowDays is the age cutoff for history records.
	DefaultRecencyWindowDays = 30

	// DefaultHistoryFetchLimit is the candidate pool size fetched from the
	// store, intentionally larger than the final selection so the scorer
	// can rank a wider pool.
	DefaultHistoryFetchLimit = 50
)

// TracingConfig configures the OTLP trace exporter used in serve mode.
type TracingConfig struct {
	// AgentHost is the OTLP HTTP endpoint (default: localhost:4318)
	AgentHost string `mapstructure:"agent_host" json:"agent_host"`
	// Environment is the deployment environment (dev, staging, prod)
	Environment string `mapstructure:"environment" json:"environment"`
	// ServiceName is the service name reported on spans
	ServiceName string `mapstructure:"service_name" json:"service_name"`
}

// Config stores application configuration.
// SECURITY: Sensitive fields are explicitly masked in MarshalJSON().
type Config struct {
	// Retrieval engine configuration
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" json:"similarity_threshold"`
	MaxContextQueries   int     `mapstructure:"max_context_queries" json:"max_context_queries"`
	RecencyWindowDays   int     `mapstructure:"recency_window_days" json:"recency_window_days"`
	HistoryFetchLimit   int     `mapstructure:"history_fetch_limit" json:"history_fetch_limit"`

	// Storage configuration (see storage.go for DSN helpers)
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"` // SENSITIVE: masked in MarshalJSON
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// Serve mode configuration
	ListenAddr   string  `mapstructure:"listen_addr" json:"listen_addr"`
	RateLimitRPS float64 `mapstructure:"rate_limit_rps" json:"rate_limit_rps"`

	// Tracing configuration
	Tracing TracingConfig `mapstructure:"tracing" json:"tracing"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".aura")

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL takes priority over individual postgres_* settings.
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	// Validate immediately (fail-fast).
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// Retrieval defaults
	viper.SetDefault("similarity_threshold", DefaultSimilarityThreshold)
	viper.SetDefault("max_context_queries", DefaultMaxContextQueries)
	viper.SetDefault("recency_window_days", DefaultRecencyWindowDays)
	viper.SetDefault("history_fetch_limit", DefaultHistoryFetchLimit)

	// PostgreSQL defaults for local development
	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "aura")
	viper.SetDefault("postgres_password", "aura_dev_password")
	viper.SetDefault("postgres_db_name", "aura")
	viper.SetDefault("postgres_ssl_mode", "disable")

	// Serve defaults
	viper.SetDefault("listen_addr", "localhost:8080")
	viper.SetDefault("rate_limit_rps", 10)

	// Tracing defaults
	viper.SetDefault("tracing.agent_host", "localhost:4318")
	viper.SetDefault("tracing.environment", "dev")
	viper.SetDefault("tracing.service_name", "aura")
}

// bindEnvVariables binds environment variable overrides explicitly.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("similarity_threshold", "AURA_SIMILARITY_THRESHOLD")
	mustBind("max_context_queries", "AURA_MAX_CONTEXT_QUERIES")
	mustBind("recency_window_days", "AURA_RECENCY_WINDOW_DAYS")
	mustBind("listen_addr", "AURA_LISTEN_ADDR")
	mustBind("tracing.agent_host", "OTLP_AGENT_HOST")

	// NOTE: DATABASE_URL is read directly in parseDatabaseURL, not via Viper.
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks avoid accidental substring matches against real secrets.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Secrets of 8 chars or fewer are fully masked; longer secrets show the
// first and last 2 characters for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
// When adding new sensitive fields, update this method.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.PostgresPassword = maskSecret(a.PostgresPassword)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
