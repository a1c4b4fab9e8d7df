package helpers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastSplitPart(t *testing.T) {
	assert.Equal(t, "s.png", LastSplitPart("male_s.png", "_"))
	assert.Equal(t, "female.png", LastSplitPart("female.png", "_"))
	assert.Equal(t, "", LastSplitPart("trailing_", "_"))
}

func TestCharFromEnd(t *testing.T) {
	testCases := []struct {
		target   string
		position int
		expect   string
		ok       bool
	}{
		{"bf001_3.png", 5, "3", true},
		{"rank_2.png", 5, "2", true},
		{"a.png", 5, "a", true},
		{".png", 5, "", false},
		{"", 1, "", false},
		{"bf001_3.png", 0, "", false},
		// Rune positions, not byte positions
		{"属性3.png", 5, "3", true},
	}

	for _, tc := range testCases {
		got, ok := CharFromEnd(tc.target, tc.position)
		assert.Equal(t, tc.ok, ok, tc.target)
		assert.Equal(t, tc.expect, got, tc.target)
	}
}

func TestResolveURL(t *testing.T) {
	base, err := url.Parse("https://example.com/library/bf1/bf1_list.php")
	assert.NoError(t, err)

	assert.Equal(t, "https://example.com/library/bf1/bf005.php", ResolveURL(base, "bf005.php"))
	assert.Equal(t, "https://example.com/img/005.png", ResolveURL(base, "/img/005.png"))
	assert.Equal(t, "https://cdn.example.com/a.gif", ResolveURL(base, "https://cdn.example.com/a.gif"))
	assert.Equal(t, "https://example.com/library/bf1/bf005.php", ResolveURL(base, "  bf005.php "))
}

func TestFileNameFromURL(t *testing.T) {
	assert.Equal(t, "bf001_icon.png", FileNameFromURL("https://example.com/library/img/bf001_icon.png"))
	assert.Equal(t, "anim.gif", FileNameFromURL("https://example.com/img/anim.gif?v=3"))
	assert.Equal(t, "", FileNameFromURL("https://example.com/"))
	assert.Equal(t, "", FileNameFromURL("https://example.com"))
}
