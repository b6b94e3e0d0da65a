package mcp

import (
	"github.com/custodia-labs/quotebank/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search ranks quotes for a character.
	Search driving.QuoteSearchService

	// Backfill embeds lines that have no vector yet. Optional.
	Backfill driving.BackfillService

	// Corpus reports corpus coverage. Optional.
	Corpus driving.CorpusService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
