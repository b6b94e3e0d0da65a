// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The two core services are BackfillService, which fills in missing line
// embeddings in paced batches, and QuoteSearchService, which ranks a
// character's lines by cosine similarity plus a keyword boost.
package services
