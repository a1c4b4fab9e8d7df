package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"slices"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
)

// HTTP client and header configurations
var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Safari/605.1.15",
	}

	referers = []string{
		"https://www.google.com/",
		"https://search.yahoo.co.jp/",
	}

	client = resty.New().SetTimeout(10 * time.Second)
)

// FetchPage sends an HTTP GET request with randomized browser-like headers,
// converts the response body to UTF-8 (if needed), and returns it.
func FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))

	res, err := client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgents[rnd.Intn(len(userAgents))]).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8").
		SetHeader("Accept-Language", "ja-JP,ja;q=0.9,en-US;q=0.8,en;q=0.7").
		SetHeader("Cache-Control", "no-cache").
		SetHeader("Referer", referers[rnd.Intn(len(referers))]).
		Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	// Check for rate limiting
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, res.StatusCode()) {
		retryAfter := res.Header().Get("Retry-After")
		return nil, fmt.Errorf("rate limited; retry after %s", retryAfter)
	}

	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch %s unexpected status code: %d", pageURL, res.StatusCode())
	}

	return toUTF8(res.Body(), res.Header().Get("Content-Type"))
}

// FetchImage sends an HTTP GET request for a binary asset and returns the
// raw response body without any charset conversion.
func FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))

	res, err := client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgents[rnd.Intn(len(userAgents))]).
		Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch %s unexpected status code: %d", imageURL, res.StatusCode())
	}

	return res.Body(), nil
}

// toUTF8 converts a response body to UTF-8 using the encoding declared in
// the Content-Type header or detected from the content itself.
func toUTF8(body []byte, contentType string) ([]byte, error) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)

	// If already UTF-8, return as is
	if name == "utf-8" || name == "UTF-8" {
		return body, nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(body))
	converted, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}

	return converted, nil
}
