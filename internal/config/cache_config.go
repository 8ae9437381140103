package config

import (
	"time"

	"github.com/prajwalbharadwajbm/crmbeacon/internal/cache"
)

// GetCacheConfig creates cache configuration from environment variables.
// Redis settings are shared with the redis store.
func GetCacheConfig() cache.CacheConfig {
	return cache.CacheConfig{
		DefaultTTL:      getEnvDuration("CACHE_DEFAULT_TTL", 5*time.Minute),
		MemoryCacheSize: getEnvInt("CACHE_MEMORY_SIZE", 100),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		EnableMemory:    getEnvBool("CACHE_ENABLE_MEMORY", false),
		EnableRedis:     getEnvBool("CACHE_ENABLE_REDIS", false),
	}
}

// CacheHealthCheck represents cache health status
type CacheHealthCheck struct {
	Memory struct {
		Enabled bool `json:"enabled"`
		Size    int  `json:"size"`
	} `json:"memory"`
	Redis struct {
		Enabled bool   `json:"enabled"`
		Address string `json:"address"`
	} `json:"redis"`
	Stats cache.CacheStats `json:"stats"`
}

// GetCacheHealth returns current cache health status
func GetCacheHealth(cfg cache.CacheConfig, c cache.Cache) CacheHealthCheck {
	health := CacheHealthCheck{}

	health.Memory.Enabled = cfg.EnableMemory
	health.Memory.Size = cfg.MemoryCacheSize

	health.Redis.Enabled = cfg.EnableRedis
	health.Redis.Address = cfg.RedisAddr

	health.Stats = c.GetStats()

	return health
}
