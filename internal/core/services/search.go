package services

import (
	"context"
	"sort"
	"strings"

	"github.com/custodia-labs/quotebank/internal/core/domain"
	"github.com/custodia-labs/quotebank/internal/core/ports/driven"
	"github.com/custodia-labs/quotebank/internal/core/ports/driving"
	"github.com/custodia-labs/quotebank/internal/logger"
)

// Ensure QuoteSearchService implements the interface.
var _ driving.QuoteSearchService = (*QuoteSearchService)(nil)

// QuoteSearchService ranks a character's embedded lines against a query.
// It performs no writes and is safe for concurrent use.
type QuoteSearchService struct {
	lineStore        driven.LineStore
	embeddingService driven.EmbeddingService
}

// NewQuoteSearchService creates a new quote search service.
// The embeddingService parameter is optional; without it every search is empty.
func NewQuoteSearchService(
	lineStore driven.LineStore,
	embeddingService driven.EmbeddingService,
) *QuoteSearchService {
	return &QuoteSearchService{
		lineStore:        lineStore,
		embeddingService: embeddingService,
	}
}

// Search returns up to query.EffectiveLimit() quotes ordered by descending
// hybrid score. Equal scores keep corpus order. Any failure is logged and
// produces an empty result.
func (s *QuoteSearchService) Search(ctx context.Context, query domain.Query) []domain.RankedQuote {
	logger.Section("Quote Search")
	logger.Debug("Query: %q, character: %q, limit: %d", query.Text, query.Character, query.Limit)

	if err := query.Validate(); err != nil {
		logger.Debug("Rejected query: %v", err)
		return []domain.RankedQuote{}
	}
	if s.embeddingService == nil {
		logger.Warn("search: %v", domain.ErrEmbeddingUnavailable)
		return []domain.RankedQuote{}
	}

	character, known := domain.NormalizeCharacter(query.Character)
	if !known {
		logger.Debug("Character %q is not in the known vocabulary", character)
	}

	queryVec, err := s.embeddingService.Embed(ctx, strings.TrimSpace(query.Text))
	if err != nil {
		logger.Warn("search: embed query: %v", err)
		return []domain.RankedQuote{}
	}
	if len(queryVec) == 0 {
		logger.Warn("search: embedding service returned an empty query vector")
		return []domain.RankedQuote{}
	}
	if err := domain.CheckFinite(queryVec); err != nil {
		logger.Warn("search: query vector: %v", err)
		return []domain.RankedQuote{}
	}

	lines, err := s.lineStore.ListEmbedded(ctx, character)
	if err != nil {
		logger.Warn("search: list embedded lines for %s: %v", character, err)
		return []domain.RankedQuote{}
	}
	logger.Debug("Candidates for %s: %d", character, len(lines))

	ranked := s.rank(queryVec, QueryKeywords(query.Text), lines)

	limit := query.EffectiveLimit()
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	logger.Info("Returning %d quotes for %s", len(ranked), character)
	return ranked
}

// Quotes returns the texts of the top-ranked quotes.
func (s *QuoteSearchService) Quotes(ctx context.Context, query, character string, limit int) []string {
	return domain.QuoteTexts(s.Search(ctx, domain.Query{
		Text:      query,
		Character: character,
		Limit:     limit,
	}))
}

// rank scores every compatible candidate and sorts them best first.
// Lines embedded by another model, or with a different vector size, cannot
// be compared meaningfully and are skipped.
func (s *QuoteSearchService) rank(
	queryVec []float32, keywords []string, lines []domain.ScriptLine,
) []domain.RankedQuote {
	model := s.embeddingService.ModelName()
	logger.Debug("Keywords: %v", keywords)

	ranked := make([]domain.RankedQuote, 0, len(lines))
	skipped := 0
	for _, line := range lines {
		if line.EmbeddingModel != model || len(line.Embedding) != len(queryVec) {
			skipped++
			continue
		}

		cosine := CosineSimilarity(queryVec, line.Embedding)
		matches := KeywordMatches(keywords, line.Text)
		ranked = append(ranked, domain.RankedQuote{
			LineID:         line.ID,
			Text:           line.Text,
			Episode:        line.Episode,
			Score:          HybridScore(cosine, matches),
			Cosine:         cosine,
			KeywordMatches: matches,
		})
	}
	if skipped > 0 {
		logger.Warn("search: skipped %d lines not embedded with %s (%d dims)", skipped, model, len(queryVec))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
