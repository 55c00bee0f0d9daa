package config

import "time"

// CacheConfig defines settings for the client-side read cache. A cached
// result is served without a network call while younger than FreshTTL,
// served stale while a background refresh runs up to RetainTTL, and
// evicted beyond that. The defaults mirror the product requirement of
// five minutes fresh / ten minutes retained.
type CacheConfig struct {
	FreshTTL  time.Duration
	RetainTTL time.Duration
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set. RetainTTL is clamped so
// it never falls below FreshTTL.
func LoadCacheConfig() CacheConfig {
	c := CacheConfig{
		FreshTTL:  envDur("CACHE_FRESH_TTL", 5*time.Minute),
		RetainTTL: envDur("CACHE_RETAIN_TTL", 10*time.Minute),
	}
	if c.FreshTTL <= 0 {
		c.FreshTTL = 5 * time.Minute
	}
	if c.RetainTTL < c.FreshTTL {
		c.RetainTTL = c.FreshTTL
	}
	return c
}
