// Package config provides environment-driven configuration for the
// algocanvas server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	Port             string
	ListenHost       string
	CORSOrigins      []string
	LogLevel         string
	PythonBin        string
	RunTimeout       time.Duration
	MaxRuns          int
	OutputLimit      int
	MaxSessions      int
	SessionIdleTTL   time.Duration
	DefaultSpeed     time.Duration
	VisitedPolicy    string
	NodeRadius       float64
	EdgeHitTolerance float64
	DatabaseURL      Secret
	SQLitePath       string
	GraphDir         string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          envOrDefault("PORT", "3040"),
		ListenHost:    envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		PythonBin:     envOrDefault("PYTHON_BIN", "python3"),
		VisitedPolicy: envOrDefault("VISITED_POLICY", "preserve"),
		DatabaseURL:   Secret(envOrDefault("DATABASE_URL", "")),
		SQLitePath:    envOrDefault("SQLITE_PATH", ""),
		GraphDir:      envOrDefault("GRAPH_DIR", "./graphs"),
	}

	var err error

	if cfg.RunTimeout, err = envDuration("RUN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if cfg.SessionIdleTTL, err = envDuration("SESSION_IDLE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}

	if cfg.MaxRuns, err = envInt("MAX_RUNS", 4); err != nil {
		return nil, err
	}

	if cfg.OutputLimit, err = envInt("OUTPUT_LIMIT", 1<<20); err != nil {
		return nil, err
	}

	if cfg.MaxSessions, err = envInt("MAX_SESSIONS", 100); err != nil {
		return nil, err
	}

	speedMS, err := envInt("DEFAULT_SPEED_MS", 500)
	if err != nil {
		return nil, err
	}

	cfg.DefaultSpeed = time.Duration(speedMS) * time.Millisecond

	if cfg.NodeRadius, err = envFloat("NODE_RADIUS", 20); err != nil {
		return nil, err
	}

	if cfg.EdgeHitTolerance, err = envFloat("EDGE_HIT_TOLERANCE", 5); err != nil {
		return nil, err
	}

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:5173")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// StoreBackend names the saved-graph backend selected by the configuration.
// PostgreSQL wins over SQLite, which wins over the file directory.
func (c *Config) StoreBackend() string {
	switch {
	case c.DatabaseURL.Value() != "":
		return "postgres"
	case c.SQLitePath != "":
		return "sqlite"
	default:
		return "file"
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v, err := strconv.Atoi(envOrDefault(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	return v, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}

	return v, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 10s: %w", key, err)
	}

	return d, nil
}
