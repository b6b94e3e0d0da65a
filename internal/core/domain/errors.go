package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyEmbedded indicates a script line already carries an embedding.
	// Embeddings are written once and never replaced.
	ErrAlreadyEmbedded = errors.New("line already embedded")

	// ErrInvalidEmbedding indicates a vector failed boundary validation
	// (empty, wrong dimensionality or non-finite components).
	ErrInvalidEmbedding = errors.New("invalid embedding")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Backfill and semantic retrieval are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the embedding API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
