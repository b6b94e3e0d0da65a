package domain

import (
	"fmt"
	"strings"
)

// DefaultQueryLimit is the number of quotes returned when a query sets no limit.
const DefaultQueryLimit = 5

// MaxQueryLimit caps the number of quotes a single query may request.
const MaxQueryLimit = 50

// Query is an ephemeral retrieval request for one character.
type Query struct {
	// Text is the free-text conversation snippet to match against.
	Text string

	// Character is the speaker whose lines are searched.
	Character string

	// Limit is the maximum number of results. Zero means DefaultQueryLimit.
	Limit int
}

// EffectiveLimit returns the limit to apply, substituting the default for
// non-positive values and capping at MaxQueryLimit.
func (q Query) EffectiveLimit() int {
	switch {
	case q.Limit <= 0:
		return DefaultQueryLimit
	case q.Limit > MaxQueryLimit:
		return MaxQueryLimit
	default:
		return q.Limit
	}
}

// Validate checks the query preconditions.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: query text is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(q.Character) == "" {
		return fmt.Errorf("%w: character is empty", ErrInvalidInput)
	}
	return nil
}

// RankedQuote is a single scored retrieval result.
type RankedQuote struct {
	// LineID identifies the source script line.
	LineID string

	// Text is the quote text.
	Text string

	// Episode is the episode the line came from.
	Episode string

	// Score is the blended hybrid score. It is not bounded to [-1, 1].
	Score float64

	// Cosine is the vector similarity component of Score.
	Cosine float64

	// KeywordMatches is the number of distinct query keywords found in Text.
	KeywordMatches int
}

// QuoteTexts extracts the text of each ranked quote, preserving order.
func QuoteTexts(quotes []RankedQuote) []string {
	texts := make([]string, 0, len(quotes))
	for _, q := range quotes {
		texts = append(texts, q.Text)
	}
	return texts
}
