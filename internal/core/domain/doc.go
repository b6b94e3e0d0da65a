// Package domain defines the core business entities for quotebank.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ScriptLine: One utterance in the quote corpus
//   - LineEmbedding: The vector, model and timestamp written onto a line
//   - Query / RankedQuote: A retrieval request and its ranked results
//   - BackfillResult: The outcome of an embedding backfill run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
