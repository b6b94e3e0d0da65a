package domain

import (
	"fmt"
	"math"
	"time"
)

// ScriptLine is one utterance in the quote corpus.
// Everything except the embedding fields is immutable after ingestion.
type ScriptLine struct {
	// ID is the opaque unique identifier assigned at ingestion.
	ID string

	// Character is the normalised speaker name.
	Character string

	// Text is the spoken line.
	Text string

	// Episode is the episode title.
	Episode string

	// Season is the season number.
	Season int

	// EpisodeNumber is the episode number within the season.
	EpisodeNumber int

	// Embedding is the semantic vector. Nil until the line is backfilled.
	Embedding []float32

	// EmbeddingModel identifies the model that produced Embedding.
	EmbeddingModel string

	// EmbeddedAt is when the embedding was written.
	EmbeddedAt time.Time
}

// HasEmbedding reports whether the line carries a stored embedding.
func (l ScriptLine) HasEmbedding() bool {
	return len(l.Embedding) > 0
}

// Canonical returns the line with its speaker normalised for storage.
// A line without a speaker is rejected with ErrInvalidInput.
func (l ScriptLine) Canonical() (ScriptLine, error) {
	character, _ := NormalizeCharacter(l.Character)
	if character == "" {
		return l, fmt.Errorf("%w: line %q has no character", ErrInvalidInput, l.ID)
	}
	l.Character = character
	return l, nil
}

// EmbeddingInput returns the text sent to the embedding model.
// The speaker prefix gives the model conversational context.
func (l ScriptLine) EmbeddingInput() string {
	return l.Character + ": " + l.Text
}

// LineEmbedding is the unit written onto a ScriptLine by the backfill job.
// Vector, model and timestamp are always persisted together.
type LineEmbedding struct {
	Vector     []float32
	Model      string
	EmbeddedAt time.Time
}

// Validate checks the embedding before it is persisted.
// When dims is positive the vector length must match it exactly.
func (e LineEmbedding) Validate(dims int) error {
	if len(e.Vector) == 0 {
		return fmt.Errorf("%w: empty vector", ErrInvalidEmbedding)
	}
	if e.Model == "" {
		return fmt.Errorf("%w: missing model identifier", ErrInvalidEmbedding)
	}
	if dims > 0 && len(e.Vector) != dims {
		return fmt.Errorf("%w: expected %d dimensions, got %d", ErrInvalidEmbedding, dims, len(e.Vector))
	}
	return CheckFinite(e.Vector)
}

// CheckFinite rejects vectors containing NaN or infinite components.
func CheckFinite(vec []float32) error {
	for i, v := range vec {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite component at %d", ErrInvalidEmbedding, i)
		}
	}
	return nil
}

// CorpusStats summarises embedding coverage of the corpus.
type CorpusStats struct {
	// Total is the number of script lines.
	Total int

	// Embedded is the number of lines with a stored embedding.
	Embedded int

	// Characters holds per-speaker counts ordered by character name.
	Characters []CharacterStats
}

// Pending returns the number of lines still waiting for an embedding.
func (s CorpusStats) Pending() int {
	return s.Total - s.Embedded
}

// CharacterStats holds coverage counts for one speaker.
type CharacterStats struct {
	Character string
	Lines     int
	Embedded  int
}
