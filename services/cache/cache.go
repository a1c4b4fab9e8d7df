package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CacheService represents a cache for fetched detail pages
type CacheService interface {
	// Get retrieves a cached value
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error
}

// PageKey derives the cache key for a page URL. Memcache keys are
// limited to 250 bytes and must not contain whitespace, so the key is
// built from a digest of the URL instead of the URL itself.
func PageKey(pageURL string) string {
	sum := sha256.Sum256([]byte(pageURL))
	return "page:" + hex.EncodeToString(sum[:])
}
