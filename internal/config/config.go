// Package config provides application configuration loaded from environment
// variables with defaults and validation: server settings, database path,
// messaging channel credentials, web link signing and outbound rate limits.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// ChannelConfig holds the messaging channel credentials and endpoint.
type ChannelConfig struct {
	Secret      string // CHANNEL_SECRET, also the HKDF input for link tokens
	AccessToken string // CHANNEL_ACCESS_TOKEN
	Endpoint    string // CHANNEL_API_ENDPOINT
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port     string // just the number
	Timezone string // IANA name, defaults to Asia/Tokyo

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// App
	DBPath       string        // SQLite path
	BaseURL      string        // public base URL for web links
	LinkTokenTTL time.Duration // signed web link lifetime

	// Messaging channel
	Channel ChannelConfig

	// Outbound push rate limiting
	PushRPS   float64 // tokens per second (> 0)
	PushBurst int     // bucket size (>= 1)
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		Port:     getenv("PORT", "8080"),
		Timezone: getenv("TZ", "Asia/Tokyo"),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		DBPath:       getenv("DB_PATH", "data/tsukimi.db"),
		BaseURL:      strings.TrimRight(getenv("BASE_URL", "http://localhost:8080"), "/"),
		LinkTokenTTL: getdur("LINK_TOKEN_TTL", 24*time.Hour),

		Channel: ChannelConfig{
			Secret:      getenv("CHANNEL_SECRET", ""),
			AccessToken: getenv("CHANNEL_ACCESS_TOKEN", ""),
			Endpoint:    strings.TrimRight(getenv("CHANNEL_API_ENDPOINT", "https://api.line.me"), "/"),
		},

		PushRPS:   getfloat("PUSH_RPS", 10.0),
		PushBurst: getint("PUSH_BURST", 20),
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return cfg, errors.New("BASE_URL must not be empty")
	}
	if cfg.LinkTokenTTL <= 0 {
		return cfg, errors.New("LINK_TOKEN_TTL must be > 0")
	}
	if strings.TrimSpace(cfg.Channel.Secret) == "" {
		return cfg, errors.New("CHANNEL_SECRET must not be empty")
	}
	if strings.TrimSpace(cfg.Channel.AccessToken) == "" {
		return cfg, errors.New("CHANNEL_ACCESS_TOKEN must not be empty")
	}
	if cfg.PushRPS <= 0 {
		return cfg, errors.New("PUSH_RPS must be > 0")
	}
	if cfg.PushBurst < 1 {
		return cfg, errors.New("PUSH_BURST must be >= 1")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
