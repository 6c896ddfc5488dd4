// Package utils opens the external connections (postgres, redis) and the
// optional self-signed TLS material used by the binaries.
package utils

import (
	"muze-kasif/internal/config"
	"muze-kasif/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedis builds the list-response cache client.
// Background: api.Deps accepts a nil client and skips the list cache, so a
// nil return means "disabled", not failure.
// Constraints: does not dial; the caller pings and decides whether an
// unreachable server turns the cache off. Negative DB numbers fall back to 0.
func OpenRedis(c config.RedisConfig) *redis.Client {
	if !c.Enabled || c.Host == "" {
		return nil
	}
	db := c.DB
	if db < 0 {
		db = 0
	}
	logger.L().Debug("redis_env", "addr", c.Addr(), "db", db)
	return redis.NewClient(&redis.Options{Addr: c.Addr(), Password: c.Pass, DB: db})
}
