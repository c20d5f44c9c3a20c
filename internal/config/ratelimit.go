package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// RateLimitConfig parameterises the Redis token bucket guarding the
// operator login endpoints.
type RateLimitConfig struct {
	Enabled        bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Capacity       int           `envconfig:"RATE_LIMIT_CAPACITY" default:"10"`
	RefillTokens   int           `envconfig:"RATE_LIMIT_REFILL_TOKENS" default:"1"`
	RefillInterval time.Duration `envconfig:"RATE_LIMIT_REFILL_INTERVAL" default:"6s"`
	TTL            time.Duration `envconfig:"RATE_LIMIT_TTL" default:"10m"`
	KeyStrategy    string        `envconfig:"RATE_LIMIT_KEY_STRATEGY" default:"ip_route"`
	Prefix         string        `envconfig:"RATE_LIMIT_PREFIX" default:"rental:rl"`
}

func LoadRateLimitConfig() RateLimitConfig {
	var cfg RateLimitConfig
	if err := envconfig.Process("", &cfg); err != nil {
		cfg = RateLimitConfig{Enabled: true, Capacity: 10, RefillTokens: 1,
			RefillInterval: 6 * time.Second, TTL: 10 * time.Minute, KeyStrategy: "ip_route", Prefix: "rental:rl"}
	}
	return cfg.normalize()
}

func (c RateLimitConfig) normalize() RateLimitConfig {
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.RefillTokens < 1 {
		c.RefillTokens = 1
	}
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
		c.TTL = minTTL
	}
	return c
}
