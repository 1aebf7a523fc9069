package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, ":8080", config.ListenAddr)
	assert.Equal(t, "memory", config.CacheBackend)
	assert.Equal(t, "localhost:11211", config.MemcacheAddr)
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.Equal(t, 1*time.Hour, config.CacheTTL)
	assert.Equal(t, 100, config.CacheCapacity)
	assert.Equal(t, 10, config.CacheEvictSize)
	assert.Equal(t, 10*time.Second, config.StoreTimeout)
	assert.Equal(t, 20*time.Second, config.AggregateTimeout)

	// Test with environment variables
	os.Setenv("LISTEN_ADDR", ":9090")
	os.Setenv("CACHE_BACKEND", "redis")
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("REDIS_DB", "1")
	os.Setenv("CACHE_TTL_SECONDS", "60")
	os.Setenv("STORE_TIMEOUT_SECONDS", "5")
	os.Setenv("AMAZON_URL", "https://example.com/amazon?q=%s")

	config = LoadConfig()
	assert.Equal(t, ":9090", config.ListenAddr)
	assert.Equal(t, "redis", config.CacheBackend)
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisDB)
	assert.Equal(t, 60*time.Second, config.CacheTTL)
	assert.Equal(t, 5*time.Second, config.StoreTimeout)
	assert.Equal(t, "https://example.com/amazon?q=%s", config.AmazonURL)

	// Clean up
	os.Unsetenv("LISTEN_ADDR")
	os.Unsetenv("CACHE_BACKEND")
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("REDIS_DB")
	os.Unsetenv("CACHE_TTL_SECONDS")
	os.Unsetenv("STORE_TIMEOUT_SECONDS")
	os.Unsetenv("AMAZON_URL")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.NoError(t, config.Validate())

	config.CacheBackend = "etcd"
	assert.Error(t, config.Validate())
	config.CacheBackend = "memory"

	config.CacheTTL = 0
	assert.Error(t, config.Validate())
	config.CacheTTL = time.Hour

	config.CacheEvictSize = config.CacheCapacity + 1
	assert.Error(t, config.Validate())
	config.CacheEvictSize = 10

	config.StoreTimeout = -1 * time.Second
	assert.Error(t, config.Validate())
	config.StoreTimeout = 10 * time.Second

	// A zero aggregate timeout disables the coarse deadline
	config.AggregateTimeout = 0
	assert.NoError(t, config.Validate())
}
