package config

import (
	"net/url"
	"os"
	"strconv"
	"time"

	errs "bflibrary/unitworker/pkg/errors"
)

// Config holds the application configuration
type Config struct {
	// Scrape target
	ListingURL string

	// Storage
	StorageRoot string

	// Politeness delay between the listing fetch and detail fetches
	FetchDelay time.Duration

	// Optional detail page cache
	MemcacheAddr string
	PageCacheTTL time.Duration

	// Optional record stream
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() Config {
	return Config{
		ListingURL:  getEnv("LISTING_URL", "https://www.bravefrontier.jp/library/bf1/bf1_list.php"),
		StorageRoot: getEnv("STORAGE_ROOT", "./db/bf_units"),

		FetchDelay: time.Duration(getEnvAsInt("FETCH_DELAY_MS", 500)) * time.Millisecond,

		MemcacheAddr: getEnv("MEMCACHE_ADDR", ""),
		PageCacheTTL: time.Duration(getEnvAsInt("PAGE_CACHE_TTL_SECONDS", 3600)) * time.Second,

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              getEnvAsInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "bfunits"),
		RedisStreamMaxLength: int64(getEnvAsInt("REDIS_STREAM_MAX_LENGTH", 500)),
	}
}

// Validate reports configuration values the scraper cannot run with.
func (c Config) Validate() error {
	u, err := url.Parse(c.ListingURL)
	if err != nil {
		return errs.NewConfiguration("LISTING_URL is not a valid URL", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return errs.NewConfiguration("LISTING_URL must be an absolute URL", nil)
	}
	if c.StorageRoot == "" {
		return errs.NewConfiguration("STORAGE_ROOT must not be empty", nil)
	}
	if c.FetchDelay < 0 {
		return errs.NewConfiguration("FETCH_DELAY_MS must not be negative", nil)
	}
	if c.RedisAddr != "" && c.RedisStream == "" {
		return errs.NewConfiguration("REDIS_STREAM must not be empty when REDIS_ADDR is set", nil)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
