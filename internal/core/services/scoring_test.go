package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"45 degrees", []float32{1, 0}, []float32{1, 1}, 1 / math.Sqrt2},
		{"zero query", []float32{0, 0}, []float32{1, 1}, 0},
		{"zero candidate", []float32{1, 1}, []float32{0, 0}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.expected, got, 1e-6)
		})
	}
}

func TestQueryKeywords(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"filters short tokens", "the deal with airline food", []string{"deal", "with", "airline", "food"}},
		{"lower-cases", "AIRLINE Food", []string{"airline", "food"}},
		{"exactly three is dropped", "pen cup", []string{}},
		{"de-duplicates", "food food FOOD snack", []string{"food", "snack"}},
		{"splits on any whitespace", "soup\tnazi\nrules", []string{"soup", "nazi", "rules"}},
		{"counts characters not bytes", "café été", []string{"café"}},
		{"empty", "   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QueryKeywords(tt.query))
		})
	}
}

func TestKeywordMatches(t *testing.T) {
	keywords := []string{"airline", "food", "newman"}

	assert.Equal(t, 2, KeywordMatches(keywords, "What's the deal with AIRLINE food?"))
	assert.Equal(t, 1, KeywordMatches(keywords, "Hello, Newman."))
	assert.Equal(t, 1, KeywordMatches(keywords, "Seafood platter"), "substring match counts")
	assert.Equal(t, 0, KeywordMatches(keywords, "Serenity now!"))
	assert.Equal(t, 0, KeywordMatches(nil, "airline food"))
}

func TestKeywordMatches_CountsDistinctKeywords(t *testing.T) {
	assert.Equal(t, 1, KeywordMatches([]string{"food"}, "food food food"))
}

func TestHybridScore(t *testing.T) {
	assert.InDelta(t, 0.5, HybridScore(0.5, 0), 1e-9)
	assert.InDelta(t, 0.8, HybridScore(0.5, 2), 1e-9)
	assert.InDelta(t, 1.45, HybridScore(1, 3), 1e-9, "score is not clamped")
}
