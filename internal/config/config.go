package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the vote rate limiter, matching the public API contract:
// at most 20 vote attempts per client address within a 60 second window.
const (
	DefaultVoteRateLimit  = 20
	DefaultVoteRateWindow = 60 * time.Second
)

type Config struct {
	AppEnv string
	Port   string

	// RedisURL is the backing store. Empty selects the in-process memory
	// store, which only makes sense for local development.
	RedisURL string

	AdminAPIKey   string
	RateLimitSalt string

	AllowedOrigins []string

	// DefaultPollStatus is the status newly created polls get: "draft" or
	// "active". Historically both defaults existed; this pins the choice.
	DefaultPollStatus string

	// VoterIdentityMode selects how voters are identified: "cookie" issues a
	// long-lived poll_token cookie, "token" expects the embedding client to
	// pass voterToken explicitly.
	VoterIdentityMode string

	VoteRateLimit  int
	VoteRateWindow time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		RedisURL:          getEnv("REDIS_URL", ""),
		AdminAPIKey:       getEnv("ADMIN_API_KEY", ""),
		RateLimitSalt:     getEnv("RATE_LIMIT_SALT", ""),
		DefaultPollStatus: getEnv("DEFAULT_POLL_STATUS", "draft"),
		VoterIdentityMode: getEnv("VOTER_IDENTITY_MODE", "cookie"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
	}

	if origins := getEnv("ALLOWED_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	var err error
	cfg.VoteRateLimit, err = getEnvInt("VOTE_RATE_LIMIT", DefaultVoteRateLimit)
	if err != nil {
		return nil, err
	}
	cfg.VoteRateWindow, err = getEnvDuration("VOTE_RATE_WINDOW", DefaultVoteRateWindow)
	if err != nil {
		return nil, err
	}

	if cfg.AdminAPIKey == "" {
		return nil, fmt.Errorf("ADMIN_API_KEY is required")
	}
	if cfg.RateLimitSalt == "" {
		return nil, fmt.Errorf("RATE_LIMIT_SALT is required")
	}
	if cfg.DefaultPollStatus != "draft" && cfg.DefaultPollStatus != "active" {
		return nil, fmt.Errorf("DEFAULT_POLL_STATUS must be \"draft\" or \"active\", got %q", cfg.DefaultPollStatus)
	}
	if cfg.VoterIdentityMode != "cookie" && cfg.VoterIdentityMode != "token" {
		return nil, fmt.Errorf("VOTER_IDENTITY_MODE must be \"cookie\" or \"token\", got %q", cfg.VoterIdentityMode)
	}
	if cfg.VoteRateLimit <= 0 {
		return nil, fmt.Errorf("VOTE_RATE_LIMIT must be positive, got %d", cfg.VoteRateLimit)
	}
	if cfg.VoteRateWindow <= 0 {
		return nil, fmt.Errorf("VOTE_RATE_WINDOW must be positive, got %s", cfg.VoteRateWindow)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. \"60s\"): %w", key, err)
	}
	return d, nil
}
