package redis

import "time"

// Config holds Redis connection settings
type Config struct {
	// URL is the Redis connection URL (redis://...)
	URL string

	// PoolSize is the maximum number of connections
	PoolSize int

	// MinIdleConns is the minimum number of idle connections
	MinIdleConns int

	// SessionTTL bounds how long an untouched snapshot survives.
	// Zero means no expiry.
	SessionTTL time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		SessionTTL:   0,
	}
}
