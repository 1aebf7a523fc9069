package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ryosk0315/manga-price-tarcker/config"
	"github.com/ryosk0315/manga-price-tarcker/internal/aggregator"
	"github.com/ryosk0315/manga-price-tarcker/internal/scraper"
	"github.com/ryosk0315/manga-price-tarcker/internal/server"
	"github.com/ryosk0315/manga-price-tarcker/logger"
	"github.com/ryosk0315/manga-price-tarcker/services/cache"
	"github.com/ryosk0315/manga-price-tarcker/services/currency"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// shutdown signal.
const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("cache_backend", cfg.CacheBackend).
		Dur("store_timeout", cfg.StoreTimeout).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize the cache backend
	cacheSvc := newCacheService(ctx, cfg)

	// Create scrapers
	scrapers := scraper.CreateScrapers(cfg, cacheSvc)
	if len(scrapers) == 0 {
		log.Fatal().Msg("No scrapers were created")
	}
	log.Info().Int("store_count", len(scrapers)).Msg("Created store scrapers")

	// Wire the aggregation core
	converter := currency.NewService(cfg.RatesURL, cfg.RatesTTL)
	agg := aggregator.New(scrapers, cacheSvc, converter, aggregator.Options{
		CacheTTL:         cfg.CacheTTL,
		StoreTimeout:     cfg.StoreTimeout,
		AggregateTimeout: cfg.AggregateTimeout,
	})

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(agg).Handler(),
	}

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("Listening")
		serverDone <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server exited with error")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}

	if closer, ok := cacheSvc.(interface{ Close() error }); ok {
		closer.Close()
	}
}

// newCacheService selects the cache backend from the configuration
func newCacheService(ctx context.Context, cfg *config.Config) cache.CacheService {
	switch cfg.CacheBackend {
	case "memcache":
		logger.Info("Using memcache result cache at %s", cfg.MemcacheAddr)
		return cache.NewMemcacheService(cfg.MemcacheAddr)
	case "redis":
		logger.Info("Using Redis result cache at %s (DB: %d)", cfg.RedisAddr, cfg.RedisDB)
		return cache.NewRedisService(ctx, cfg.RedisAddr, cfg.RedisDB)
	default:
		return cache.NewMemoryCache(cfg.CacheCapacity, cfg.CacheEvictSize)
	}
}
