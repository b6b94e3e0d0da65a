package driven

import (
	"context"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

// LineStore persists the script line corpus.
// All list operations return lines in corpus (ingestion) order.
type LineStore interface {
	// SaveLines inserts script lines. Lines with an empty ID are assigned one.
	// Existing lines with the same ID are left unchanged.
	SaveLines(ctx context.Context, lines []domain.ScriptLine) error

	// GetLine retrieves a line by ID.
	GetLine(ctx context.Context, id string) (*domain.ScriptLine, error)

	// ListUnembedded returns every line that has no stored embedding.
	ListUnembedded(ctx context.Context) ([]domain.ScriptLine, error)

	// ListEmbedded returns the lines of one character that carry an embedding.
	ListEmbedded(ctx context.Context, character string) ([]domain.ScriptLine, error)

	// SetEmbedding writes vector, model and timestamp onto a line in one
	// atomic update. Returns domain.ErrNotFound for an unknown line and
	// domain.ErrAlreadyEmbedded if the line already carries an embedding.
	SetEmbedding(ctx context.Context, id string, embedding domain.LineEmbedding) error

	// Stats returns corpus and embedding coverage counts.
	Stats(ctx context.Context) (domain.CorpusStats, error)
}
