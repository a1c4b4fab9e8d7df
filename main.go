package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bflibrary/unitworker/config"
	"bflibrary/unitworker/internal/scraper"
	"bflibrary/unitworker/logger"
	"bflibrary/unitworker/services/cache"
	"bflibrary/unitworker/services/publisher"
	"bflibrary/unitworker/services/storage"
	"bflibrary/unitworker/services/worker"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

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

	runID := uuid.New().String()

	log.Info().
		Str("run_id", runID).
		Str("listing_url", cfg.ListingURL).
		Str("storage_root", cfg.StorageRoot).
		Msg("Starting unit worker")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize optional services
	services := initializeServices(&cfg, runID)
	defer services.Cleanup()

	scrapeCfg := scraper.Config{
		ListingURL: cfg.ListingURL,
		Selectors:  scraper.DefaultSelectors(),
		CacheTTL:   cfg.PageCacheTTL,
	}

	w := worker.NewWorker(
		scraper.NewListingCrawler(scrapeCfg),
		scraper.NewUnitCrawler(scrapeCfg, services.Cache),
		storage.NewFileStore(cfg.StorageRoot),
		services.Publisher,
		cfg.FetchDelay,
		runID,
	)

	// Run the scrape in a goroutine so shutdown signals can interrupt it
	type runResult struct {
		stats worker.Stats
		err   error
	}
	workerDone := make(chan runResult, 1)
	go func() {
		stats, err := w.Run(ctx)
		workerDone <- runResult{stats: stats, err: err}
	}()

	var res runResult
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
		res = <-workerDone
	case res = <-workerDone:
	}

	// The exit status reports whether the traversal completed; entry
	// scoped failures are visible in the stats but do not fail the run.
	if res.err != nil {
		log.Fatal().Err(res.err).Msg("Scrape run failed")
	}

	log.Info().
		Int("entries", res.stats.Entries).
		Int("scraped", res.stats.Scraped).
		Int("skipped", res.stats.Skipped).
		Int("failed", res.stats.Failed).
		Msg("Unit worker finished")
}

// Services holds the optional external services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup closes service connections
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices wires the optional page cache and record stream
// from configuration. Each stays disabled while its address is unset.
// A publisher connection failure downgrades to a warning; records are
// always persisted to disk first.
func initializeServices(cfg *config.Config, runID string) *Services {
	services := &Services{}

	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Caching detail pages in Memcache at %s", cfg.MemcacheAddr)
	}

	if cfg.RedisAddr != "" {
		redisPublisher, err := publisher.NewRedisPublisher(
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamMaxLength,
			runID,
		)
		if err != nil {
			logger.Warn("Record stream unavailable, continuing without publishing: %v", err)
		} else {
			services.Publisher = redisPublisher
			logger.Info("Publishing records to Redis at %s (DB: %d, Stream: %s)",
				cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
		}
	}

	return services
}
