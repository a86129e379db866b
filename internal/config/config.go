// Package config loads gateway settings from the environment and an
// optional .env file. Provider secrets are deliberately absent: they are
// resolved per request by the credentials package.
package config

import (
	"time"

	"github.com/joho/godotenv"

	"github.com/yourorg/listings-gateway/internal/env"
	"github.com/yourorg/listings-gateway/upstream"
)

type Upstream struct {
	Timeout    time.Duration
	RetryMax   int
	RatePerSec float64
	MaxBody    int64
	Endpoints  upstream.Endpoints
}

type Config struct {
	Port            int
	LogLevel        string
	LogFormat       string
	RateLimitPerMin int

	Upstream          Upstream
	FallbackEndpoints []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SequenceKey   string

	PostgresDSN string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, bool) {
	dotenv := godotenv.Load() == nil

	defaults := upstream.DefaultEndpoints()
	return &Config{
		Port:            env.GetInt("PORT", 4002),
		LogLevel:        env.Get("LOG_LEVEL", "info"),
		LogFormat:       env.Get("LOG_FORMAT", "json"),
		RateLimitPerMin: env.GetInt("RATE_LIMIT_PER_MIN", 100),

		Upstream: Upstream{
			Timeout:    env.GetDuration("UPSTREAM_TIMEOUT", 0),
			RetryMax:   env.GetInt("UPSTREAM_RETRY_MAX", 0),
			RatePerSec: env.GetFloat("UPSTREAM_RATE_PER_SEC", 0),
			MaxBody:    env.GetInt64("UPSTREAM_MAX_BODY", 4<<20),
			Endpoints: upstream.Endpoints{
				Search:     env.Get("UPSTREAM_SEARCH_PATH", defaults.Search),
				Detail:     env.Get("UPSTREAM_DETAIL_PATH", defaults.Detail),
				Categories: env.Get("UPSTREAM_CATEGORIES_PATH", defaults.Categories),
				Status:     env.Get("UPSTREAM_STATUS_PATH", defaults.Status),
			},
		},
		FallbackEndpoints: env.List("FALLBACK_ENDPOINTS"),

		RedisAddr:     env.Get("REDIS_ADDR", ""),
		RedisPassword: env.Get("REDIS_PASSWORD", ""),
		RedisDB:       env.GetInt("REDIS_DB", 0),
		SequenceKey:   env.Get("SEQUENCE_KEY", "gateway:fetch-seq"),

		PostgresDSN: env.Get("PG_DSN", ""),
	}, dotenv
}
