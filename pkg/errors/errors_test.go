package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrapeErrorFormat(t *testing.T) {
	cause := stderrors.New("connection refused")

	err := NewFetch("005", "detail page fetch failed", cause)
	assert.Equal(t, "[fetch] unit 005: detail page fetch failed - connection refused", err.Error())
	assert.Equal(t, cause, err.Unwrap())

	err = NewMissingField("005", "name")
	assert.Equal(t, `[missing_field] unit 005: required field "name" not found`, err.Error())
	assert.Nil(t, err.Unwrap())

	err = NewConfiguration("LISTING_URL must not be empty", nil)
	assert.Equal(t, "[configuration] LISTING_URL must not be empty", err.Error())
}

func TestEntryScoped(t *testing.T) {
	testCases := []struct {
		err    *ScrapeError
		scoped bool
	}{
		{NewFetch("1", "fetch failed", nil), true},
		{NewParse("1", "bad markup", nil), true},
		{NewMissingField("1", "name"), true},
		{NewStorage("1", "write failed", nil), false},
		{NewConfiguration("bad config", nil), false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.scoped, tc.err.EntryScoped(), string(tc.err.Type))
		assert.Equal(t, tc.scoped, IsEntryScoped(tc.err), string(tc.err.Type))
	}
}

func TestIsEntryScopedWrapped(t *testing.T) {
	// A ScrapeError wrapped by fmt.Errorf is still classified.
	wrapped := fmt.Errorf("while scraping: %w", NewParse("7", "no rows", nil))
	assert.True(t, IsEntryScoped(wrapped))

	// Plain errors are never entry scoped.
	assert.False(t, IsEntryScoped(stderrors.New("boom")))
	assert.False(t, IsEntryScoped(nil))
}
