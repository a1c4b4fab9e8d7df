package scraper

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bflibrary/unitworker/helpers"
	"bflibrary/unitworker/logger"
	errs "bflibrary/unitworker/pkg/errors"
)

// ListingCrawler enumerates catalog entries from the unit listing page
type ListingCrawler struct {
	listingURL string
	selectors  Selectors
	log        *logger.Logger

	// fetchFunc is swapped in tests to avoid real HTTP requests
	fetchFunc func(ctx context.Context, pageURL string) ([]byte, error)
}

var _ Lister = (*ListingCrawler)(nil)

// NewListingCrawler creates a crawler for the configured listing page
func NewListingCrawler(cfg Config) *ListingCrawler {
	return &ListingCrawler{
		listingURL: cfg.ListingURL,
		selectors:  cfg.Selectors,
		log:        logger.ForCrawler("listing"),
		fetchFunc:  helpers.FetchPage,
	}
}

// FetchEntries retrieves the listing page and returns its entries in
// document order. Listing failures are fatal for the run since there
// is nothing to process without the listing.
func (c *ListingCrawler) FetchEntries(ctx context.Context) ([]CatalogEntry, error) {
	body, err := c.fetchFunc(ctx, c.listingURL)
	if err != nil {
		return nil, errs.NewFetch("", "failed to fetch listing page", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errs.NewParse("", "failed to parse listing page", err)
	}

	base, err := url.Parse(c.listingURL)
	if err != nil {
		return nil, errs.NewParse("", "invalid listing URL", err)
	}

	var entries []CatalogEntry
	doc.Find(c.selectors.UnitList).Each(func(i int, row *goquery.Selection) {
		entry, ok := c.processRow(i, row, base)
		if !ok {
			return
		}
		entries = append(entries, entry)
	})

	c.log.Info().Int("entries", len(entries)).Msg("Listing page enumerated")
	return entries, nil
}

// processRow extracts one catalog entry from a listing row. Rows
// missing the id label or the detail anchor are logged and skipped.
func (c *ListingCrawler) processRow(index int, row *goquery.Selection, base *url.URL) (CatalogEntry, bool) {
	label := row.Find(c.selectors.RowNumber).First()
	if label.Length() == 0 {
		c.log.Warn().Int("row", index).Msg("Listing row has no id label, skipping")
		return CatalogEntry{}, false
	}
	id := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(label.Text()), "No."))
	if id == "" {
		c.log.Warn().Int("row", index).Msg("Listing row id label is empty, skipping")
		return CatalogEntry{}, false
	}

	anchor := row.Find(c.selectors.RowDetailLink).First()
	href, ok := anchor.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		c.log.Warn().Str("id", id).Msg("Listing row has no detail link, skipping")
		return CatalogEntry{}, false
	}

	entry := CatalogEntry{
		ID:        id,
		DetailURL: helpers.ResolveURL(base, href),
	}
	if src, found := anchor.Find(c.selectors.RowIcon).First().Attr("src"); found {
		entry.IconURL = helpers.ResolveURL(base, src)
	}
	return entry, true
}
