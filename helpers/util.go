package helpers

import (
	"net/url"
	"path"
	"strings"
)

// LastSplitPart splits target on separator and returns the final part.
// If the separator does not occur, target itself is returned.
func LastSplitPart(target string, separator string) string {
	parts := strings.Split(target, separator)
	return parts[len(parts)-1]
}

// CharFromEnd returns the character at the given 1-indexed position from
// the end of target, counting runes rather than bytes. The second return
// value is false when target is too short.
func CharFromEnd(target string, position int) (string, bool) {
	if position < 1 {
		return "", false
	}
	runes := []rune(target)
	if len(runes) < position {
		return "", false
	}
	return string(runes[len(runes)-position]), true
}

// ResolveURL resolves a possibly relative href against a base URL.
// Unparseable hrefs are returned as-is.
func ResolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// FileNameFromURL returns the final path segment of a URL, the name an
// asset download is stored under. Returns "" when the URL has no usable
// segment.
func FileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
