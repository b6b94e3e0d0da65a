package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/quotebank/internal/core/domain"
	"github.com/custodia-labs/quotebank/internal/core/ports/driven"
)

// lineStore implements driven.LineStore.
type lineStore struct {
	store *Store
}

var _ driven.LineStore = (*lineStore)(nil)

const lineColumns = `id, speaker, text, episode, season, episode_number, embedding, embedding_model, embedded_at`

// SaveLines inserts lines in one transaction. Existing IDs are left untouched.
func (s *lineStore) SaveLines(ctx context.Context, lines []domain.ScriptLine) error {
	if len(lines) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO script_lines (`+lineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, raw := range lines {
		line, err := raw.Canonical()
		if err != nil {
			return err
		}
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		var blob any
		if line.HasEmbedding() {
			blob = float32SliceToBytes(line.Embedding)
		}
		if _, err := stmt.ExecContext(ctx,
			line.ID, line.Character, line.Text, line.Episode, line.Season, line.EpisodeNumber,
			blob, nullString(line.EmbeddingModel), formatNullableTimeNano(line.EmbeddedAt),
		); err != nil {
			return fmt.Errorf("saving line %s: %w", line.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing lines: %w", err)
	}
	return nil
}

// GetLine retrieves a line by ID.
func (s *lineStore) GetLine(ctx context.Context, id string) (*domain.ScriptLine, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+lineColumns+` FROM script_lines WHERE id = ?`, id)

	line, err := scanLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return line, nil
}

// ListUnembedded returns lines without an embedding in corpus order.
func (s *lineStore) ListUnembedded(ctx context.Context) ([]domain.ScriptLine, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+lineColumns+` FROM script_lines WHERE embedding IS NULL ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying unembedded lines: %w", err)
	}
	return scanLines(rows)
}

// ListEmbedded returns one character's embedded lines in corpus order.
func (s *lineStore) ListEmbedded(ctx context.Context, character string) ([]domain.ScriptLine, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+lineColumns+` FROM script_lines
		WHERE speaker = ? AND embedding IS NOT NULL
		ORDER BY seq`, character)
	if err != nil {
		return nil, fmt.Errorf("querying embedded lines: %w", err)
	}
	return scanLines(rows)
}

// SetEmbedding writes vector, model and timestamp in a single UPDATE that
// only matches a line still missing its embedding.
func (s *lineStore) SetEmbedding(ctx context.Context, id string, embedding domain.LineEmbedding) error {
	if err := embedding.Validate(0); err != nil {
		return err
	}

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE script_lines
		SET embedding = ?, embedding_model = ?, embedded_at = ?
		WHERE id = ? AND embedding IS NULL
	`, float32SliceToBytes(embedding.Vector), embedding.Model,
		formatNullableTimeNano(embedding.EmbeddedAt), id)
	if err != nil {
		return fmt.Errorf("setting embedding: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting embedding: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM script_lines WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking line: %w", err)
	}
	if exists == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrAlreadyEmbedded
}

// Stats returns corpus coverage counts per speaker.
func (s *lineStore) Stats(ctx context.Context) (domain.CorpusStats, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT speaker, COUNT(*), COUNT(embedding)
		FROM script_lines
		GROUP BY speaker
		ORDER BY speaker
	`)
	if err != nil {
		return domain.CorpusStats{}, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	stats := domain.CorpusStats{Characters: []domain.CharacterStats{}}
	for rows.Next() {
		var cs domain.CharacterStats
		if err := rows.Scan(&cs.Character, &cs.Lines, &cs.Embedded); err != nil {
			return domain.CorpusStats{}, fmt.Errorf("scanning stats: %w", err)
		}
		stats.Total += cs.Lines
		stats.Embedded += cs.Embedded
		stats.Characters = append(stats.Characters, cs)
	}
	if err := rows.Err(); err != nil {
		return domain.CorpusStats{}, fmt.Errorf("iterating stats: %w", err)
	}
	return stats, nil
}

// scanLine scans a single script line.
func scanLine(row rowScanner) (*domain.ScriptLine, error) {
	var line domain.ScriptLine
	var blob []byte
	var model, embeddedAt sql.NullString

	if err := row.Scan(&line.ID, &line.Character, &line.Text, &line.Episode,
		&line.Season, &line.EpisodeNumber, &blob, &model, &embeddedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning line: %w", err)
	}

	vec, err := bytesToFloat32Slice(blob)
	if err != nil {
		return nil, fmt.Errorf("line %s: %w", line.ID, err)
	}
	line.Embedding = vec
	line.EmbeddingModel = model.String
	if embeddedAt.Valid {
		if t, err := time.Parse(time.RFC3339Nano, embeddedAt.String); err == nil {
			line.EmbeddedAt = t
		}
	}
	return &line, nil
}

// scanLines drains rows into a slice and closes them.
func scanLines(rows *sql.Rows) ([]domain.ScriptLine, error) {
	defer rows.Close()

	var lines []domain.ScriptLine //nolint:prealloc // size unknown from query
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lines: %w", err)
	}
	return lines, nil
}

// formatNullableTimeNano keeps sub-second precision for embedding timestamps.
func formatNullableTimeNano(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
