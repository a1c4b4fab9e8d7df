package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributeName(t *testing.T) {
	names := map[int]string{
		1: "Fire",
		2: "Water",
		3: "Earth",
		4: "Thunder",
		5: "Light",
		6: "Dark",
	}
	for code, expected := range names {
		name, ok := AttributeName(code)
		assert.True(t, ok)
		assert.Equal(t, expected, name)
	}

	for _, code := range []int{0, 7, -1, 100} {
		_, ok := AttributeName(code)
		assert.False(t, ok, "code %d should have no attribute name", code)
	}
}

func TestAssetURLs(t *testing.T) {
	icon := "https://example.com/img/005.png"
	record := &UnitRecord{
		ID:   "005",
		Icon: &icon,
		Animations: []string{
			"https://example.com/anime/a.gif",
			"https://example.com/img/005.png",
			"https://example.com/anime/b.gif",
			"https://example.com/anime/a.gif",
		},
	}

	// icon first, duplicates dropped, document order kept
	assert.Equal(t, []string{
		"https://example.com/img/005.png",
		"https://example.com/anime/a.gif",
		"https://example.com/anime/b.gif",
	}, record.AssetURLs())
}

func TestAssetURLsWithoutIcon(t *testing.T) {
	record := &UnitRecord{
		ID:         "006",
		Animations: []string{"https://example.com/anime/a.gif"},
	}
	assert.Equal(t, []string{"https://example.com/anime/a.gif"}, record.AssetURLs())

	empty := &UnitRecord{ID: "007", Animations: []string{}}
	assert.Equal(t, 0, len(empty.AssetURLs()))
}
