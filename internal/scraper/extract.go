package scraper

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bflibrary/unitworker/helpers"
)

// Field extraction for unit detail pages. Every extractor is a pure
// function of the parsed document; optional fields return nil when
// their selector matches nothing.

// extractNumber returns the id printed on the detail page. It is used
// only to cross check the listing id.
func (c *UnitCrawler) extractNumber(doc *goquery.Document) *string {
	sel := doc.Find(c.selectors.DetailNumber).First()
	if sel.Length() == 0 {
		return nil
	}
	number := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sel.Text()), "No."))
	if number == "" {
		return nil
	}
	return &number
}

// extractName returns the unit name. The name tag is the only
// mandatory field on a detail page.
func (c *UnitCrawler) extractName(doc *goquery.Document) (string, bool) {
	sel := doc.Find(c.selectors.DetailName).First()
	if sel.Length() == 0 {
		return "", false
	}
	name := strings.TrimSpace(sel.Text())
	if name == "" {
		return "", false
	}
	return name, true
}

// extractSeries returns the series label with the surrounding
// "≪" and "≫" brackets stripped. Most units carry no series tag.
func (c *UnitCrawler) extractSeries(doc *goquery.Document) *string {
	sel := doc.Find(c.selectors.DetailSeries).First()
	if sel.Length() == 0 {
		return nil
	}
	series := strings.TrimSpace(sel.Text())
	series = strings.TrimPrefix(series, "≪")
	series = strings.TrimSuffix(series, "≫")
	series = strings.TrimSpace(series)
	return &series
}

// extractAttribute maps the attribute icon filename to an attribute
// name. The element code sits five characters from the end of the
// filename, just before the ".png" extension. Codes outside 1 to 6
// and non numeric codes yield nil.
func (c *UnitCrawler) extractAttribute(doc *goquery.Document) *string {
	src, ok := doc.Find(c.selectors.Attribute).First().Attr("src")
	if !ok {
		return nil
	}
	char, ok := helpers.CharFromEnd(src, 5)
	if !ok {
		return nil
	}
	code, err := strconv.Atoi(char)
	if err != nil {
		return nil
	}
	name, ok := AttributeName(code)
	if !ok {
		return nil
	}
	return &name
}

// extractRank returns the rank code from the rank icon filename, taken
// from the same position as the attribute code. Ranks stay strings
// since some carry non numeric glyphs.
func (c *UnitCrawler) extractRank(doc *goquery.Document) *string {
	src, ok := doc.Find(c.selectors.Rank).First().Attr("src")
	if !ok {
		return nil
	}
	char, ok := helpers.CharFromEnd(src, 5)
	if !ok {
		return nil
	}
	return &char
}

// extractSex returns the trailing underscore separated segment of the
// sex icon filename, without its ".png" suffix.
func (c *UnitCrawler) extractSex(doc *goquery.Document) *string {
	src, ok := doc.Find(c.selectors.Sex).First().Attr("src")
	if !ok {
		return nil
	}
	sex := strings.TrimSuffix(helpers.LastSplitPart(src, "_"), ".png")
	if sex == "" {
		return nil
	}
	return &sex
}

// extractAnimations returns the animation image URLs in document
// order, resolved against the detail page URL.
func (c *UnitCrawler) extractAnimations(doc *goquery.Document, base *url.URL) []string {
	animations := []string{}
	doc.Find(c.selectors.Animations).Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			return
		}
		animations = append(animations, helpers.ResolveURL(base, src))
	})
	return animations
}

// extractText returns the unit description. An empty article yields an
// empty string; only a missing article yields nil.
func (c *UnitCrawler) extractText(doc *goquery.Document) *string {
	sel := doc.Find(c.selectors.UnitText).First()
	if sel.Length() == 0 {
		return nil
	}
	text := sel.Text()
	return &text
}
