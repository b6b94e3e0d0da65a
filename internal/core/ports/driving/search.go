package driving

import (
	"context"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

// QuoteSearchService retrieves character quotes relevant to a conversation.
// Retrieval is advisory: failures yield an empty result, never an error.
type QuoteSearchService interface {
	// Search ranks the embedded lines of query.Character against query.Text
	// and returns at most query.EffectiveLimit() results, best first.
	Search(ctx context.Context, query domain.Query) []domain.RankedQuote

	// Quotes is Search reduced to quote texts.
	Quotes(ctx context.Context, query, character string, limit int) []string
}
