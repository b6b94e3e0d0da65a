package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/quotebank/internal/core/domain"
	"github.com/custodia-labs/quotebank/internal/core/ports/driven"
)

// Ensure LineStore implements the interface.
var _ driven.LineStore = (*LineStore)(nil)

// LineStore is an in-memory implementation of driven.LineStore.
// Lines are kept in insertion order, which is the corpus order.
type LineStore struct {
	mu    sync.RWMutex
	lines []domain.ScriptLine
	index map[string]int
}

// NewLineStore creates a new in-memory line store.
func NewLineStore() *LineStore {
	return &LineStore{
		index: make(map[string]int),
	}
}

// SaveLines appends lines that are not already stored. Nothing is saved
// when any line lacks a speaker.
func (s *LineStore) SaveLines(_ context.Context, lines []domain.ScriptLine) error {
	canonical := make([]domain.ScriptLine, len(lines))
	for i, line := range lines {
		c, err := line.Canonical()
		if err != nil {
			return err
		}
		canonical[i] = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range canonical {
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		if _, exists := s.index[line.ID]; exists {
			continue
		}
		line.Embedding = slices.Clone(line.Embedding)
		s.index[line.ID] = len(s.lines)
		s.lines = append(s.lines, line)
	}
	return nil
}

// GetLine retrieves a line by ID.
func (s *LineStore) GetLine(_ context.Context, id string) (*domain.ScriptLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	line := cloneLine(s.lines[i])
	return &line, nil
}

// ListUnembedded returns every line without an embedding.
func (s *LineStore) ListUnembedded(_ context.Context) ([]domain.ScriptLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.ScriptLine
	for _, line := range s.lines {
		if !line.HasEmbedding() {
			result = append(result, cloneLine(line))
		}
	}
	return result, nil
}

// ListEmbedded returns the embedded lines of one character.
func (s *LineStore) ListEmbedded(_ context.Context, character string) ([]domain.ScriptLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.ScriptLine
	for _, line := range s.lines {
		if line.Character == character && line.HasEmbedding() {
			result = append(result, cloneLine(line))
		}
	}
	return result, nil
}

// SetEmbedding stores an embedding on a line that does not have one yet.
func (s *LineStore) SetEmbedding(_ context.Context, id string, embedding domain.LineEmbedding) error {
	if err := embedding.Validate(0); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return domain.ErrNotFound
	}
	if s.lines[i].HasEmbedding() {
		return domain.ErrAlreadyEmbedded
	}
	s.lines[i].Embedding = slices.Clone(embedding.Vector)
	s.lines[i].EmbeddingModel = embedding.Model
	s.lines[i].EmbeddedAt = embedding.EmbeddedAt
	return nil
}

// Stats returns corpus coverage counts.
func (s *LineStore) Stats(_ context.Context) (domain.CorpusStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCharacter := make(map[string]*domain.CharacterStats)
	stats := domain.CorpusStats{Total: len(s.lines)}
	for _, line := range s.lines {
		cs, ok := byCharacter[line.Character]
		if !ok {
			cs = &domain.CharacterStats{Character: line.Character}
			byCharacter[line.Character] = cs
		}
		cs.Lines++
		if line.HasEmbedding() {
			cs.Embedded++
			stats.Embedded++
		}
	}

	stats.Characters = make([]domain.CharacterStats, 0, len(byCharacter))
	for _, cs := range byCharacter {
		stats.Characters = append(stats.Characters, *cs)
	}
	sort.Slice(stats.Characters, func(i, j int) bool {
		return stats.Characters[i].Character < stats.Characters[j].Character
	})
	return stats, nil
}

// cloneLine copies a line so callers cannot mutate stored vectors.
func cloneLine(line domain.ScriptLine) domain.ScriptLine {
	line.Embedding = slices.Clone(line.Embedding)
	return line
}
