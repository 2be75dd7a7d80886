package config

import (
	"time"
)

// CacheConfig defines settings for the route plan response cache.  When
// Enabled is false or no Redis client is configured, caching is disabled.
// TTL defines the lifetime of cache entries; plans are derived from a slow
// legacy report query, so even a short TTL removes most duplicate work.
// Prefix namespaces keys and MaxBodyBytes caps the size of cached bodies.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 60*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
