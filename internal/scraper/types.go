package scraper

import (
	"context"
	"time"
)

// CatalogEntry is one row of the listing page
type CatalogEntry struct {
	// ID is the catalog identifier with the "No." prefix stripped
	ID string

	// DetailURL is the absolute URL of the entry's detail page
	DetailURL string

	// IconURL is the absolute URL of the listing icon, empty when the
	// row carries no icon
	IconURL string
}

// UnitRecord is the persisted form of one catalog entry. Field order
// matches the key order of the stored JSON document.
type UnitRecord struct {
	ID         string   `json:"id"`
	Icon       *string  `json:"icon"`
	Name       string   `json:"name"`
	Series     *string  `json:"series"`
	Attribute  *string  `json:"attribute"`
	Rank       *string  `json:"rank"`
	Sex        *string  `json:"sex"`
	Animations []string `json:"animations"`
	UnitText   *string  `json:"unit_text"`
}

// AssetURLs returns the unique asset URLs referenced by the record,
// icon first, then animations in document order.
func (r *UnitRecord) AssetURLs() []string {
	urls := make([]string, 0, len(r.Animations)+1)
	seen := make(map[string]struct{}, len(r.Animations)+1)
	add := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	if r.Icon != nil {
		add(*r.Icon)
	}
	for _, u := range r.Animations {
		add(u)
	}
	return urls
}

// attributeNames maps the element code embedded in attribute icon
// filenames to the attribute name.
var attributeNames = map[int]string{
	1: "Fire",
	2: "Water",
	3: "Earth",
	4: "Thunder",
	5: "Light",
	6: "Dark",
}

// AttributeName returns the attribute name for an element code. Codes
// outside 1 to 6 have no name.
func AttributeName(code int) (string, bool) {
	name, ok := attributeNames[code]
	return name, ok
}

// Selectors defines the CSS selectors used to pull entries and fields
// out of the listing and detail pages.
type Selectors struct {
	// Listing page
	UnitList      string // one listing row per match
	RowNumber     string // id label inside a row
	RowDetailLink string // anchor pointing at the detail page
	RowIcon       string // icon image inside the detail anchor

	// Detail page
	DetailNumber string // id printed on the detail page
	DetailName   string // unit name, the only mandatory field
	DetailSeries string // series label, absent for most units
	Attribute    string // attribute icon image
	Rank         string // rank icon image
	Sex          string // sex icon image
	Animations   string // animation images in document order
	UnitText     string // description article
}

// DefaultSelectors returns the selectors for the unit library markup.
func DefaultSelectors() Selectors {
	return Selectors{
		UnitList:      "ul.unit_list > li",
		RowNumber:     "span",
		RowDetailLink: `a[href^="bf"]`,
		RowIcon:       "img[src]",

		DetailNumber: "div.unit_detail_number > span.number",
		DetailName:   "div.unit_detail_name > p.name",
		DetailSeries: "div.unit_detail_number > span.series",
		Attribute:    "div.unit_detail_name > div.zokusei > img[src]",
		Rank:         "div.rank > img[src]",
		Sex:          "div.sex > img[src]",
		Animations:   "div.unit_gif > img[src]",
		UnitText:     "article.unit_text",
	}
}

// Config carries the scrape target configuration shared by the
// listing and unit crawlers.
type Config struct {
	// ListingURL is the absolute URL of the listing page. Relative
	// detail links and icons are resolved against it.
	ListingURL string

	// Selectors locate entries and fields in the page markup
	Selectors Selectors

	// CacheTTL is the detail page cache expiry, used only when a cache
	// service is attached
	CacheTTL time.Duration
}

// Lister enumerates catalog entries from the listing page
type Lister interface {
	FetchEntries(ctx context.Context) ([]CatalogEntry, error)
}

// UnitFetcher builds a complete unit record for one catalog entry
type UnitFetcher interface {
	FetchUnit(ctx context.Context, entry CatalogEntry) (*UnitRecord, error)
}
