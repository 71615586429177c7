package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/algocanvas/algocanvas/internal/playback"
)

func (c *Config) validate() error {
	for _, check := range []func() error{
		c.validateNetwork,
		c.validateCORS,
		c.validateRunner,
		c.validateCanvas,
		c.validateStore,
	} {
		if err := check(); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Loopback for local use; 0.0.0.0/:: for containers where the network
	// boundary is enforced externally.
	validHosts := map[string]bool{
		"127.0.0.1": true,
		"::1":       true,
		"localhost": true,
		"0.0.0.0":   true,
		"::":        true,
	}
	if !validHosts[c.ListenHost] {
		return fmt.Errorf("LISTEN_HOST must be a loopback address or 0.0.0.0/:: for containers (got %q)", c.ListenHost)
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*'")
		}

		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}

		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

func (c *Config) validateRunner() error {
	if strings.TrimSpace(c.PythonBin) == "" {
		return fmt.Errorf("PYTHON_BIN must not be empty")
	}

	if c.RunTimeout <= 0 {
		return fmt.Errorf("RUN_TIMEOUT must be positive")
	}

	if c.MaxRuns < 1 || c.MaxRuns > 64 {
		return fmt.Errorf("MAX_RUNS must be between 1 and 64")
	}

	if c.OutputLimit < 1024 {
		return fmt.Errorf("OUTPUT_LIMIT must be at least 1024 bytes")
	}

	return nil
}

func (c *Config) validateCanvas() error {
	if c.MaxSessions < 1 {
		return fmt.Errorf("MAX_SESSIONS must be at least 1")
	}

	if c.SessionIdleTTL < 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must not be negative")
	}

	if c.DefaultSpeed < playback.MinSpeed || c.DefaultSpeed > playback.MaxSpeed {
		return fmt.Errorf("DEFAULT_SPEED_MS must be between %d and %d",
			playback.MinSpeed.Milliseconds(), playback.MaxSpeed.Milliseconds())
	}

	if _, err := playback.ParseVisitedPolicy(c.VisitedPolicy); err != nil {
		return fmt.Errorf("VISITED_POLICY: %w", err)
	}

	if c.NodeRadius <= 0 {
		return fmt.Errorf("NODE_RADIUS must be positive")
	}

	if c.EdgeHitTolerance < 0 {
		return fmt.Errorf("EDGE_HIT_TOLERANCE must not be negative")
	}

	return nil
}

func (c *Config) validateStore() error {
	if c.DatabaseURL.Value() == "" {
		return nil
	}

	dbURL, err := url.Parse(c.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	if dbURL.Scheme != "postgres" && dbURL.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL scheme must be postgres:// or postgresql://")
	}

	if dbURL.Hostname() == "" {
		return fmt.Errorf("DATABASE_URL must include a host")
	}

	dbHost := dbURL.Hostname()
	if dbHost != "localhost" && dbHost != "127.0.0.1" && dbHost != "::1" {
		if dbURL.Query().Get("sslmode") == "disable" {
			return fmt.Errorf("DATABASE_URL sslmode=disable is not allowed for non-local host %q", dbHost)
		}
	}

	return nil
}
