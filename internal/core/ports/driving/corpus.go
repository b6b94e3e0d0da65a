package driving

import (
	"context"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

// CorpusService reports on the script line corpus.
type CorpusService interface {
	// Stats returns corpus size and embedding coverage.
	Stats(ctx context.Context) (domain.CorpusStats, error)

	// Characters returns the known speaker vocabulary.
	Characters() []string

	// LastBackfill returns the latest scheduled backfill run; nil when none
	// has run yet.
	LastBackfill(ctx context.Context) (*domain.TaskRun, error)
}
