package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// HTTP server configuration
	ListenAddr string

	// Cache backend configuration
	CacheBackend string // "memory", "memcache" or "redis"
	MemcacheAddr string
	RedisAddr    string
	RedisDB      int

	// Result cache policy
	CacheTTL       time.Duration
	CacheCapacity  int
	CacheEvictSize int

	// Scrape configuration
	StoreTimeout     time.Duration
	AggregateTimeout time.Duration
	BlockTime        time.Duration

	// Search URL templates for the stores; %s is the encoded title
	AmazonURL     string
	BookWalkerURL string
	RightStufURL  string
	RakutenURL    string
	EbookJapanURL string
	CmoaURL       string

	// Currency configuration
	RatesURL string
	RatesTTL time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	cacheTTL, _ := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "3600"))
	cacheCapacity, _ := strconv.Atoi(getEnv("CACHE_CAPACITY", "100"))
	cacheEvictSize, _ := strconv.Atoi(getEnv("CACHE_EVICT_SIZE", "10"))
	storeTimeout, _ := strconv.Atoi(getEnv("STORE_TIMEOUT_SECONDS", "10"))
	aggregateTimeout, _ := strconv.Atoi(getEnv("AGGREGATE_TIMEOUT_SECONDS", "20"))
	blockTime, _ := strconv.Atoi(getEnv("RATE_LIMIT_BLOCK_SECONDS", "300"))
	ratesTTL, _ := strconv.Atoi(getEnv("RATES_TTL_SECONDS", "86400"))

	return &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		CacheBackend:     getEnv("CACHE_BACKEND", "memory"),
		MemcacheAddr:     getEnv("MEMCACHE_ADDR", "localhost:11211"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          redisDB,
		CacheTTL:         time.Duration(cacheTTL) * time.Second,
		CacheCapacity:    cacheCapacity,
		CacheEvictSize:   cacheEvictSize,
		StoreTimeout:     time.Duration(storeTimeout) * time.Second,
		AggregateTimeout: time.Duration(aggregateTimeout) * time.Second,
		BlockTime:        time.Duration(blockTime) * time.Second,
		AmazonURL:        getEnv("AMAZON_URL", "https://www.amazon.co.jp/s?k=%s+漫画&i=stripbooks"),
		BookWalkerURL:    getEnv("BOOKWALKER_URL", "https://bookwalker.jp/search/?qcat=2&word=%s"),
		RightStufURL:     getEnv("RIGHTSTUF_URL", "https://www.rightstufanime.com/search?keywords=%s%%20manga"),
		RakutenURL:       getEnv("RAKUTEN_URL", "https://books.rakuten.co.jp/search?sty=1&g=001&v=2&s=1&p=1&ps=30&w=%s"),
		EbookJapanURL:    getEnv("EBOOKJAPAN_URL", "https://ebookjapan.yahoo.co.jp/search/?keyword=%s&genreId="),
		CmoaURL:          getEnv("CMOA_URL", "https://www.cmoa.jp/search/result/?category=0&search_word=%s"),
		RatesURL:         getEnv("RATES_URL", "https://open.er-api.com/v6/latest/USD"),
		RatesTTL:         time.Duration(ratesTTL) * time.Second,
		Environment:      getEnv("MANGA_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	switch c.CacheBackend {
	case "memory", "memcache", "redis":
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q: must be memory, memcache or redis", c.CacheBackend)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be positive")
	}
	if c.CacheCapacity <= 0 {
		return fmt.Errorf("CACHE_CAPACITY must be positive")
	}
	if c.CacheEvictSize <= 0 || c.CacheEvictSize > c.CacheCapacity {
		return fmt.Errorf("CACHE_EVICT_SIZE must be positive and not exceed CACHE_CAPACITY")
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT_SECONDS must be positive")
	}
	if c.AggregateTimeout < 0 {
		return fmt.Errorf("AGGREGATE_TIMEOUT_SECONDS must not be negative")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
