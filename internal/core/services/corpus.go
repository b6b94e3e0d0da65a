package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/quotebank/internal/core/domain"
	"github.com/custodia-labs/quotebank/internal/core/ports/driven"
	"github.com/custodia-labs/quotebank/internal/core/ports/driving"
)

// Ensure CorpusService implements the interface.
var _ driving.CorpusService = (*CorpusService)(nil)

// CorpusService reports on corpus size and embedding coverage.
type CorpusService struct {
	lineStore driven.LineStore
	runs      driven.SchedulerStore
}

// NewCorpusService creates a new corpus service. runs may be nil, in which
// case no scheduled backfill is ever reported.
func NewCorpusService(lineStore driven.LineStore, runs driven.SchedulerStore) *CorpusService {
	return &CorpusService{lineStore: lineStore, runs: runs}
}

// Stats returns corpus and per-character coverage counts.
func (s *CorpusService) Stats(ctx context.Context) (domain.CorpusStats, error) {
	stats, err := s.lineStore.Stats(ctx)
	if err != nil {
		return domain.CorpusStats{}, fmt.Errorf("corpus stats: %w", err)
	}
	return stats, nil
}

// Characters returns the known speaker vocabulary.
func (s *CorpusService) Characters() []string {
	return domain.KnownCharacters()
}

// LastBackfill returns the most recent scheduled backfill run, or nil if
// there has been none.
func (s *CorpusService) LastBackfill(ctx context.Context) (*domain.TaskRun, error) {
	if s.runs == nil {
		return nil, nil
	}
	runs, err := s.runs.RecentRuns(ctx, domain.TaskIDEmbeddingBackfill, 1)
	if err != nil {
		return nil, fmt.Errorf("backfill history: %w", err)
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
