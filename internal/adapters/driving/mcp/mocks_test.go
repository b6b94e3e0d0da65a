package mcp

import (
	"context"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.QuoteSearchService.
type mockSearchService struct {
	results []domain.RankedQuote
	got     domain.Query
}

func (m *mockSearchService) Search(_ context.Context, query domain.Query) []domain.RankedQuote {
	m.got = query
	return m.results
}

func (m *mockSearchService) Quotes(ctx context.Context, query, character string, limit int) []string {
	return domain.QuoteTexts(m.Search(ctx, domain.Query{Text: query, Character: character, Limit: limit}))
}

// mockBackfillService is a mock implementation of driving.BackfillService.
type mockBackfillService struct {
	result domain.BackfillResult
	err    error
}

func (m *mockBackfillService) Backfill(_ context.Context) (domain.BackfillResult, error) {
	return m.result, m.err
}

// mockCorpusService is a mock implementation of driving.CorpusService.
type mockCorpusService struct {
	stats      domain.CorpusStats
	characters []string
	err        error
}

func (m *mockCorpusService) Stats(_ context.Context) (domain.CorpusStats, error) {
	return m.stats, m.err
}

func (m *mockCorpusService) Characters() []string {
	return m.characters
}

func (m *mockCorpusService) LastBackfill(_ context.Context) (*domain.TaskRun, error) {
	return nil, nil
}
