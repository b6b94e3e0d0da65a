package services

import (
	"math"
	"strings"
	"unicode/utf8"
)

// KeywordBoost is the score added per distinct query keyword found in a line.
const KeywordBoost = 0.15

// minKeywordRunes is the length a query token must exceed to count as a keyword.
const minKeywordRunes = 3

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different length, empty vectors and zero-norm vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// QueryKeywords extracts the lexical keywords of a query: lower-cased
// whitespace-separated tokens longer than three characters, de-duplicated
// in first-seen order.
func QueryKeywords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	keywords := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))

	for _, f := range fields {
		if utf8.RuneCountInString(f) <= minKeywordRunes {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		keywords = append(keywords, f)
	}
	return keywords
}

// KeywordMatches counts the keywords that occur as substrings of text,
// compared case-insensitively. Keywords are expected to be lower-case.
func KeywordMatches(keywords []string, text string) int {
	if len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(text)

	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matches++
		}
	}
	return matches
}

// HybridScore blends vector similarity with the keyword boost.
// The result is not renormalised and may exceed 1.
func HybridScore(cosine float64, keywordMatches int) float64 {
	return cosine + KeywordBoost*float64(keywordMatches)
}
