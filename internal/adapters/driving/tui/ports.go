// Package tui provides the interactive quote browser.
// It is a driving adapter over the search and corpus services.
package tui

import (
	"github.com/custodia-labs/quotebank/internal/core/ports/driving"
)

// Ports aggregates the driving ports the browser uses.
type Ports struct {
	// Search ranks quotes for a snippet. Required.
	Search driving.QuoteSearchService

	// Corpus reports per-character coverage. Optional; without it the
	// picker lists the known characters with no counts.
	Corpus driving.CorpusService
}

// NewPorts creates a Ports aggregate.
func NewPorts(search driving.QuoteSearchService, corpus driving.CorpusService) *Ports {
	return &Ports{Search: search, Corpus: corpus}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
