package scraper

import (
	"bytes"
	"context"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"bflibrary/unitworker/helpers"
	"bflibrary/unitworker/logger"
	errs "bflibrary/unitworker/pkg/errors"
	"bflibrary/unitworker/services/cache"
)

// UnitCrawler fetches unit detail pages and builds unit records
type UnitCrawler struct {
	selectors Selectors
	cacheSvc  cache.CacheService
	cacheTTL  time.Duration
	log       *logger.Logger

	// fetchFunc is swapped in tests to avoid real HTTP requests
	fetchFunc func(ctx context.Context, pageURL string) ([]byte, error)
}

var _ UnitFetcher = (*UnitCrawler)(nil)

// NewUnitCrawler creates a crawler for unit detail pages. When
// cacheSvc is non-nil fetched pages are cached for cfg.CacheTTL.
func NewUnitCrawler(cfg Config, cacheSvc cache.CacheService) *UnitCrawler {
	if cacheSvc != nil {
		logger.Info("Detail page cache enabled, ttl %s", cfg.CacheTTL)
	} else {
		logger.Debug("Detail page cache disabled")
	}

	return &UnitCrawler{
		selectors: cfg.Selectors,
		cacheSvc:  cacheSvc,
		cacheTTL:  cfg.CacheTTL,
		log:       logger.ForCrawler("unit"),
		fetchFunc: helpers.FetchPage,
	}
}

// FetchUnit retrieves the entry's detail page and extracts the full
// field set. The icon URL carried on the entry is attached to the
// record since the detail page itself has no icon.
func (c *UnitCrawler) FetchUnit(ctx context.Context, entry CatalogEntry) (*UnitRecord, error) {
	body, err := c.fetchWithCache(ctx, entry.DetailURL)
	if err != nil {
		return nil, errs.NewFetch(entry.ID, "failed to fetch detail page", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errs.NewParse(entry.ID, "failed to parse detail page", err)
	}

	base, err := url.Parse(entry.DetailURL)
	if err != nil {
		return nil, errs.NewParse(entry.ID, "invalid detail URL", err)
	}

	record := &UnitRecord{
		ID:         entry.ID,
		Animations: []string{},
	}
	if entry.IconURL != "" {
		icon := entry.IconURL
		record.Icon = &icon
	}

	// The listing id is authoritative; the number printed on the
	// detail page is only cross checked.
	if number := c.extractNumber(doc); number != nil && *number != entry.ID {
		c.log.Warn().
			Str("id", entry.ID).
			Str("detail_number", *number).
			Msg("Detail page number does not match listing id")
	}

	name, ok := c.extractName(doc)
	if !ok {
		return nil, errs.NewMissingField(entry.ID, "name")
	}
	record.Name = name

	record.Series = c.extractSeries(doc)
	record.Attribute = c.extractAttribute(doc)
	record.Rank = c.extractRank(doc)
	record.Sex = c.extractSex(doc)
	record.Animations = c.extractAnimations(doc, base)
	record.UnitText = c.extractText(doc)

	return record, nil
}

// fetchWithCache serves the page from the cache when one is attached,
// falling back to a live fetch on any miss. Cache write failures are
// logged and otherwise ignored.
func (c *UnitCrawler) fetchWithCache(ctx context.Context, pageURL string) ([]byte, error) {
	if c.cacheSvc == nil {
		return c.fetchFunc(ctx, pageURL)
	}

	key := cache.PageKey(pageURL)
	if body, err := c.cacheSvc.Get(key); err == nil && len(body) > 0 {
		c.log.Debug().Str("url", pageURL).Msg("Detail page served from cache")
		return body, nil
	}

	body, err := c.fetchFunc(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if err := c.cacheSvc.Set(key, body, c.cacheTTL); err != nil {
		c.log.Debug().Err(err).Str("url", pageURL).Msg("Failed to cache detail page")
	}
	return body, nil
}
