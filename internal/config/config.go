package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config drives the web UI binary.
type Config struct {
	// HTTP Server
	Port string

	// Data endpoint
	APIBaseURL    string
	DataBackend   string
	RemoteTimeout time.Duration

	// Reports
	ReportFontPath string

	// Rate limiting of mutating requests
	RateLimitPerMinute int

	// Logging
	LogLevel  string
	LogFormat string
}

// APIConfig drives the bundled data endpoint.
type APIConfig struct {
	Port string

	Store        string
	SQLiteDBPath string
	PostgresURL  string

	AMQPURL      string
	AMQPExchange string

	SeedDemo         bool
	SeedFakeExpenses int

	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string
}

var (
	validBackends   = []string{"rest", "memory"}
	validStores     = []string{"memory", "sqlite", "postgres"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json", "tint"}
)

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:3001"),
		DataBackend:   getEnv("DATA_BACKEND", "rest"),
		RemoteTimeout: getEnvDuration("REMOTE_TIMEOUT", 7*time.Second),

		ReportFontPath: getEnv("REPORT_FONT_PATH", ""),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
}

func LoadAPI() *APIConfig {
	return &APIConfig{
		Port: getEnv("API_PORT", "3001"),

		Store:        getEnv("API_STORE", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/expenses.db"),
		PostgresURL:  getEnv("POSTGRES_URL", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expense-events"),

		SeedDemo:         getEnvBool("SEED_DEMO", true),
		SeedFakeExpenses: getEnvInt("SEED_FAKE_EXPENSES", 0),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	errors = appendPortError(errors, c.Port)

	if !oneOf(c.DataBackend, validBackends) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "rest" {
		if parsedURL, err := url.Parse(c.APIBaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	if c.RemoteTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid remote timeout %v: must be at least 100ms", c.RemoteTimeout))
	} else if c.RemoteTimeout > 2*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid remote timeout %v: must be at most 2 minutes", c.RemoteTimeout))
	}

	if c.ReportFontPath != "" {
		if _, err := os.Stat(c.ReportFontPath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("report font file does not exist: %s", c.ReportFontPath))
		}
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	}

	errors = appendLogErrors(errors, c.LogLevel, c.LogFormat)

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func (c *APIConfig) Validate() error {
	var errors []string

	errors = appendPortError(errors, c.Port)

	if !oneOf(c.Store, validStores) {
		errors = append(errors, fmt.Sprintf("invalid store '%s': must be one of %v", c.Store, validStores))
	}

	// Validate SQLite configuration if store is sqlite
	if c.Store == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite store")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.Store == "postgres" {
		if c.PostgresURL == "" {
			errors = append(errors, "POSTGRES_URL is required when using postgres store")
		} else if parsedURL, err := url.Parse(c.PostgresURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid Postgres URL: %v", err))
		} else if parsedURL.Scheme != "postgres" && parsedURL.Scheme != "postgresql" {
			errors = append(errors, fmt.Sprintf("invalid Postgres URL scheme '%s': must be 'postgres' or 'postgresql'", parsedURL.Scheme))
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SeedFakeExpenses < 0 || c.SeedFakeExpenses > 10000 {
		errors = append(errors, fmt.Sprintf("invalid fake expense count %d: must be between 0 and 10000", c.SeedFakeExpenses))
	}

	if len(c.CORSAllowedOrigins) == 0 {
		errors = append(errors, "at least one CORS origin is required")
	}

	errors = appendLogErrors(errors, c.LogLevel, c.LogFormat)

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func appendPortError(errors []string, p string) []string {
	if port, err := strconv.Atoi(p); err != nil {
		return append(errors, fmt.Sprintf("invalid port '%s': must be a number", p))
	} else if port < 1 || port > 65535 {
		return append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}
	return errors
}

func appendLogErrors(errors []string, level, format string) []string {
	if !oneOf(level, validLogLevels) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", level, validLogLevels))
	}
	if !oneOf(format, validLogFormats) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", format, validLogFormats))
	}
	return errors
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
