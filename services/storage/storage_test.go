package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bflibrary/unitworker/internal/scraper"
	errs "bflibrary/unitworker/pkg/errors"
)

func strPtr(s string) *string {
	return &s
}

// fakeFetcher records requested URLs and serves canned bodies
func fakeFetcher(fetched *[]string) func(ctx context.Context, assetURL string) ([]byte, error) {
	return func(ctx context.Context, assetURL string) ([]byte, error) {
		*fetched = append(*fetched, assetURL)
		return []byte("img:" + assetURL), nil
	}
}

// TestFileStoreSave tests the full save flow: assets first, record
// file last, icon before animations
func TestFileStoreSave(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root)

	var fetched []string
	store.fetchAsset = fakeFetcher(&fetched)

	record := &scraper.UnitRecord{
		ID:        "005",
		Icon:      strPtr("https://example.com/img/005.png"),
		Name:      "Testunit",
		Attribute: strPtr("Earth"),
		Rank:      strPtr("2"),
		Sex:       strPtr("s"),
		Animations: []string{
			"https://example.com/anime/005_idle.gif",
			"https://example.com/anime/005_attack.gif",
		},
		UnitText: strPtr("Hello."),
	}

	require.NoError(t, store.Save(context.Background(), record))
	assert.True(t, store.Exists("005"))
	assert.False(t, store.Exists("006"))

	assert.Equal(t, []string{
		"https://example.com/img/005.png",
		"https://example.com/anime/005_idle.gif",
		"https://example.com/anime/005_attack.gif",
	}, fetched, "Icon should be downloaded first, then animations in order")

	for name, url := range map[string]string{
		"005.png":        "https://example.com/img/005.png",
		"005_idle.gif":   "https://example.com/anime/005_idle.gif",
		"005_attack.gif": "https://example.com/anime/005_attack.gif",
	} {
		body, err := os.ReadFile(filepath.Join(root, "005", "assets", name))
		require.NoError(t, err, name)
		assert.Equal(t, "img:"+url, string(body))
	}

	data, err := os.ReadFile(filepath.Join(root, "005", "data.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "005",
		"icon": "https://example.com/img/005.png",
		"name": "Testunit",
		"series": null,
		"attribute": "Earth",
		"rank": "2",
		"sex": "s",
		"animations": [
			"https://example.com/anime/005_idle.gif",
			"https://example.com/anime/005_attack.gif"
		],
		"unit_text": "Hello."
	}`, string(data))

	// keys must stay in declaration order
	text := string(data)
	order := []string{`"id"`, `"icon"`, `"name"`, `"series"`, `"attribute"`, `"rank"`, `"sex"`, `"animations"`, `"unit_text"`}
	for i := 1; i < len(order); i++ {
		assert.Less(t, strings.Index(text, order[i-1]), strings.Index(text, order[i]),
			"%s should come before %s", order[i-1], order[i])
	}
}

// TestFileStoreRecordFormat pins the exact record layout: four space
// indent, explicit nulls, unescaped non ASCII text, empty animations
// as an empty array
func TestFileStoreRecordFormat(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root)
	store.fetchAsset = fakeFetcher(&[]string{})

	record := &scraper.UnitRecord{
		ID:         "007",
		Name:       "名前",
		Animations: []string{},
	}
	require.NoError(t, store.Save(context.Background(), record))

	data, err := os.ReadFile(filepath.Join(root, "007", "data.json"))
	require.NoError(t, err)

	expected := `{
    "id": "007",
    "icon": null,
    "name": "名前",
    "series": null,
    "attribute": null,
    "rank": null,
    "sex": null,
    "animations": [],
    "unit_text": null
}
`
	assert.Equal(t, expected, string(data))
}

// TestFileStoreAssetFailureLeavesNoRecord tests that a failed asset
// download keeps the entry incomplete so a later run retries it
func TestFileStoreAssetFailureLeavesNoRecord(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root)
	store.fetchAsset = func(ctx context.Context, assetURL string) ([]byte, error) {
		if strings.HasSuffix(assetURL, "b.gif") {
			return nil, errors.New("connection reset")
		}
		return []byte("ok"), nil
	}

	record := &scraper.UnitRecord{
		ID:   "008",
		Name: "Unit",
		Animations: []string{
			"https://example.com/anime/a.gif",
			"https://example.com/anime/b.gif",
		},
	}

	err := store.Save(context.Background(), record)
	require.Error(t, err)
	assert.True(t, errs.IsEntryScoped(err), "Asset fetch failures abort only the entry")
	assert.False(t, store.Exists("008"), "No record file may exist after a failed save")

	_, statErr := os.Stat(filepath.Join(root, "008", "data.json"))
	assert.True(t, os.IsNotExist(statErr))

	// the retry succeeds once the asset is reachable again
	store.fetchAsset = fakeFetcher(&[]string{})
	require.NoError(t, store.Save(context.Background(), record))
	assert.True(t, store.Exists("008"))
}

// TestFileStoreDuplicateAssetURLs tests that identical URLs are only
// downloaded once per entry
func TestFileStoreDuplicateAssetURLs(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root)

	var fetched []string
	store.fetchAsset = fakeFetcher(&fetched)

	record := &scraper.UnitRecord{
		ID:   "009",
		Icon: strPtr("https://example.com/img/009.png"),
		Name: "Unit",
		Animations: []string{
			"https://example.com/img/009.png",
			"https://example.com/anime/009.gif",
		},
	}
	require.NoError(t, store.Save(context.Background(), record))
	assert.Equal(t, 2, len(fetched))
}

// TestFileStoreSameFilenameOverwrites tests that two different URLs
// sharing a final path segment overwrite the same asset file
func TestFileStoreSameFilenameOverwrites(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root)

	var fetched []string
	store.fetchAsset = fakeFetcher(&fetched)

	record := &scraper.UnitRecord{
		ID:   "010",
		Name: "Unit",
		Animations: []string{
			"https://example.com/v1/anim.gif",
			"https://example.com/v2/anim.gif",
		},
	}
	require.NoError(t, store.Save(context.Background(), record))
	assert.Equal(t, 2, len(fetched))

	body, err := os.ReadFile(filepath.Join(root, "010", "assets", "anim.gif"))
	require.NoError(t, err)
	assert.Equal(t, "img:https://example.com/v2/anim.gif", string(body))
}

// TestFileStoreAssetWithoutFileName tests that an asset URL with no
// final path segment fails the entry
func TestFileStoreAssetWithoutFileName(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root)
	store.fetchAsset = fakeFetcher(&[]string{})

	record := &scraper.UnitRecord{
		ID:   "011",
		Icon: strPtr("https://example.com/"),
		Name: "Unit",
	}

	err := store.Save(context.Background(), record)
	require.Error(t, err)
	assert.True(t, errs.IsEntryScoped(err))
	assert.False(t, store.Exists("011"))
}

// TestFileStoreCreatesNestedRoot tests that a missing storage root is
// created on the first save
func TestFileStoreCreatesNestedRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "db", "bf_units")
	store := NewFileStore(root)
	store.fetchAsset = fakeFetcher(&[]string{})

	assert.False(t, store.Exists("001"))
	require.NoError(t, store.Save(context.Background(), &scraper.UnitRecord{
		ID:         "001",
		Name:       "Unit",
		Animations: []string{},
	}))
	assert.True(t, store.Exists("001"))
}
