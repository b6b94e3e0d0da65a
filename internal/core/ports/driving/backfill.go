package driving

import (
	"context"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

// BackfillService computes and stores missing embeddings for the corpus.
type BackfillService interface {
	// Backfill embeds every line that has no embedding yet.
	// Per-line failures are counted in the result; an error is returned
	// only when the job could not run or was cancelled.
	Backfill(ctx context.Context) (domain.BackfillResult, error)
}
