package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

type stubSearch struct {
	results []domain.RankedQuote
	queries []domain.Query
}

func (s *stubSearch) Search(_ context.Context, q domain.Query) []domain.RankedQuote {
	s.queries = append(s.queries, q)
	return s.results
}

func (s *stubSearch) Quotes(ctx context.Context, query, character string, limit int) []string {
	return domain.QuoteTexts(s.Search(ctx, domain.Query{Text: query, Character: character, Limit: limit}))
}

type stubCorpus struct {
	stats domain.CorpusStats
	err   error
}

func (s *stubCorpus) Stats(_ context.Context) (domain.CorpusStats, error) {
	return s.stats, s.err
}

func (s *stubCorpus) Characters() []string {
	return domain.KnownCharacters()
}

func (s *stubCorpus) LastBackfill(_ context.Context) (*domain.TaskRun, error) {
	return nil, nil
}

func TestNewPorts(t *testing.T) {
	search := &stubSearch{}
	corpus := &stubCorpus{}

	ports := NewPorts(search, corpus)

	assert.Same(t, search, ports.Search)
	assert.Same(t, corpus, ports.Corpus)
}

func TestPorts_Validate(t *testing.T) {
	assert.NoError(t, NewPorts(&stubSearch{}, nil).Validate())
	assert.ErrorIs(t, (&Ports{Corpus: &stubCorpus{}}).Validate(), ErrMissingSearchService)

	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrMissingSearchService)
}
