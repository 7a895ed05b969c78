// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"

	"github.com/mmynk/splitledger/internal/calculator"
)

// Config holds application configuration.
type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	// SessionSecret seeds the token signing key. Empty means a random key
	// per process.
	SessionSecret   string
	SessionTTL      time.Duration
	SessionCapacity int
	JanitorInterval time.Duration

	NamePolicy calculator.NamePolicy
	RateLimit  string

	// StaticPath, when set, is served at "/".
	StaticPath string
}

// Load reads .env if present, then the environment, applying defaults for
// anything unset. The result is validated.
func Load() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("SESSION_CAPACITY", 1000)
	v.SetDefault("JANITOR_INTERVAL", "1m")
	v.SetDefault("NAME_POLICY", "strict")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("STATIC_PATH", "")
	v.AutomaticEnv()

	var errs []error

	policy, err := calculator.ParseNamePolicy(v.GetString("NAME_POLICY"))
	if err != nil {
		errs = append(errs, err)
	}

	cfg := &Config{
		Port:            v.GetInt("PORT"),
		LogLevel:        strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:       strings.ToLower(v.GetString("LOG_FORMAT")),
		SessionSecret:   v.GetString("SESSION_SECRET"),
		SessionCapacity: v.GetInt("SESSION_CAPACITY"),
		NamePolicy:      policy,
		RateLimit:       v.GetString("RATE_LIMIT"),
		StaticPath:      v.GetString("STATIC_PATH"),
	}

	if cfg.SessionTTL, err = time.ParseDuration(v.GetString("SESSION_TTL")); err != nil {
		errs = append(errs, fmt.Errorf("invalid SESSION_TTL: %w", err))
	}
	if cfg.JanitorInterval, err = time.ParseDuration(v.GetString("JANITOR_INTERVAL")); err != nil {
		errs = append(errs, fmt.Errorf("invalid JANITOR_INTERVAL: %w", err))
	}

	if err := errors.Join(append(errs, cfg.Validate())...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d: must be between 1 and 65535", c.Port))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL %q: must be one of debug, info, warn, error", c.LogLevel))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", c.LogFormat))
	}

	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid SESSION_TTL %s: must be positive", c.SessionTTL))
	}
	if c.SessionCapacity < 1 {
		errs = append(errs, fmt.Errorf("invalid SESSION_CAPACITY %d: must be at least 1", c.SessionCapacity))
	}
	if c.JanitorInterval <= 0 {
		errs = append(errs, fmt.Errorf("invalid JANITOR_INTERVAL %s: must be positive", c.JanitorInterval))
	}

	if _, err := limiter.NewRateFromFormatted(c.RateLimit); err != nil {
		errs = append(errs, fmt.Errorf("invalid RATE_LIMIT %q: %w", c.RateLimit, err))
	}

	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
