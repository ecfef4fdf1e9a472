package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "", 3},
		{"", "", 0},
		{"same", "same", 0},
		{"Allice", "Alice", 1},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b), "levenshtein(%q, %q)", tt.a, tt.b)
	}
}

func TestLevenshteinIdentity(t *testing.T) {
	for _, s := range []string{"", "a", "hello world", "ünïcödé"} {
		assert.Zero(t, Levenshtein(s, s))
	}
}

func TestFindBestMatch(t *testing.T) {
	candidates := []string{"Alice", "Bob", "Carol"}

	got, ok := FindBestMatch("Allice", candidates, 0.4)
	assert.True(t, ok)
	assert.Equal(t, "Alice", got)

	_, ok = FindBestMatch("ZZZUnknown", candidates, 0.4)
	assert.False(t, ok)
}

func TestFindBestMatchPrefersExactNormalized(t *testing.T) {
	// "alice " normalizes to "alice": the exact match wins even though
	// another candidate is also within fuzzy range.
	candidates := []string{"Alicia", "Alice"}
	got, ok := FindBestMatch(" alice ", candidates, 0.4)
	assert.True(t, ok)
	assert.Equal(t, "Alice", got)
}

func TestFindBestMatchTieKeepsFirstCandidate(t *testing.T) {
	got, ok := FindBestMatch("Dana", []string{"Dane", "Dans"}, 0.4)
	assert.True(t, ok)
	assert.Equal(t, "Dane", got)
}

func TestExtractKeywords(t *testing.T) {
	body := `# Configuration Guide

The [[Tools]] document explains configuration. See [the docs](https://example.com)
for more. Short: a an it the.`

	kw := ExtractKeywords(body)
	assert.True(t, kw["configuration"])
	assert.True(t, kw["guide"])
	assert.True(t, kw["document"])
	assert.False(t, kw["the"], "stop words are dropped")
	assert.False(t, kw["it"], "short tokens are dropped")
	assert.False(t, kw["https"], "link URLs are stripped")
}

func TestKeywordOverlap(t *testing.T) {
	a := map[string]bool{"alpha": true, "beta": true}
	b := map[string]bool{"beta": true, "gamma": true}
	assert.InDelta(t, 0.5, keywordOverlap(a, b), 1e-9)
	assert.Zero(t, keywordOverlap(nil, b))
}
