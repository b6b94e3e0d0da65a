package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/quotebank/internal/core/domain"
	"github.com/custodia-labs/quotebank/internal/core/ports/driven"
	"github.com/custodia-labs/quotebank/internal/core/ports/driving"
	"github.com/custodia-labs/quotebank/internal/logger"
)

// Ensure BackfillService implements the interface.
var _ driving.BackfillService = (*BackfillService)(nil)

// BackfillService embeds script lines that have no stored embedding.
//
// Candidates are processed in batches. Every line in a batch is embedded
// concurrently and the job waits for the whole batch before pausing for the
// pace interval and starting the next one, so at most BatchSize embedding
// calls are ever in flight. Each line is committed on its own; a failed
// line stays unembedded and is picked up by the next run.
type BackfillService struct {
	lineStore        driven.LineStore
	embeddingService driven.EmbeddingService
	settings         domain.BackfillSettings
	now              func() time.Time
}

// NewBackfillService creates a new backfill service.
// Zero-valued settings fall back to the default batch size and pace.
func NewBackfillService(
	lineStore driven.LineStore,
	embeddingService driven.EmbeddingService,
	settings domain.BackfillSettings,
) *BackfillService {
	return &BackfillService{
		lineStore:        lineStore,
		embeddingService: embeddingService,
		settings:         settings.Normalised(),
		now:              time.Now,
	}
}

// Backfill embeds every unembedded line in the corpus.
//
// A failure to list candidates is returned as an error with nothing attempted.
// Per-line failures are logged and counted. If ctx ends mid-run the job stops
// before the next batch and returns the partial result with ctx's error;
// lines already written stay written.
func (s *BackfillService) Backfill(ctx context.Context) (domain.BackfillResult, error) {
	logger.Section("Embedding Backfill")

	if s.embeddingService == nil {
		return domain.BackfillResult{}, fmt.Errorf("backfill: %w", domain.ErrEmbeddingUnavailable)
	}

	candidates, err := s.lineStore.ListUnembedded(ctx)
	if err != nil {
		return domain.BackfillResult{}, fmt.Errorf("backfill: list unembedded lines: %w", err)
	}

	result := domain.BackfillResult{Candidates: len(candidates)}
	if stats, err := s.lineStore.Stats(ctx); err != nil {
		logger.Warn("backfill: read corpus stats: %v", err)
	} else {
		result.CorpusSize = stats.Total
	}

	if len(candidates) == 0 {
		if result.CorpusSize == 0 {
			result.Message = domain.BackfillMessageEmptyCorpus
		} else {
			result.Message = domain.BackfillMessageUpToDate
		}
		logger.Info("%s", result.Message)
		return result, nil
	}

	model := s.embeddingService.ModelName()
	dims := s.embeddingService.Dimensions()
	logger.Info("Embedding %d of %d lines with %s (batch size %d, pace %s)",
		len(candidates), result.CorpusSize, model, s.settings.BatchSize, s.settings.PaceInterval)

	var counts batchCounts
	var runErr error
	for start := 0; start < len(candidates); start += s.settings.BatchSize {
		if start > 0 {
			if err := pace(ctx, s.settings.PaceInterval); err != nil {
				runErr = err
				break
			}
		}

		end := min(start+s.settings.BatchSize, len(candidates))
		logger.Debug("Batch %d-%d of %d", start+1, end, len(candidates))
		s.runBatch(ctx, candidates[start:end], model, dims, &counts)

		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
	}

	result.Processed = int(counts.processed.Load())
	result.Failed = int(counts.failed.Load())
	result.Skipped = int(counts.skipped.Load())
	result.Message = result.Summary()

	if runErr != nil {
		logger.Warn("backfill: stopped early: %v (%s)", runErr, result.Message)
		return result, fmt.Errorf("backfill: %w", runErr)
	}
	logger.Info("%s", result.Message)
	return result, nil
}

// batchCounts aggregates per-line outcomes across workers.
type batchCounts struct {
	processed atomic.Int64
	failed    atomic.Int64
	skipped   atomic.Int64
}

// runBatch embeds a batch of lines concurrently and waits for all of them.
// Workers never return errors, so one failure does not cancel its siblings.
func (s *BackfillService) runBatch(
	ctx context.Context, batch []domain.ScriptLine, model string, dims int, counts *batchCounts,
) {
	var g errgroup.Group
	g.SetLimit(s.settings.BatchSize)

	for _, line := range batch {
		g.Go(func() error {
			switch err := s.embedLine(ctx, line, model, dims); {
			case err == nil:
				counts.processed.Add(1)
			case errors.Is(err, domain.ErrAlreadyEmbedded):
				logger.Debug("Line %s was embedded concurrently, skipping", line.ID)
				counts.skipped.Add(1)
			default:
				logger.Warn("backfill: line %s (%s): %v", line.ID, line.Character, err)
				counts.failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// embedLine computes and stores the embedding for a single line.
func (s *BackfillService) embedLine(ctx context.Context, line domain.ScriptLine, model string, dims int) error {
	vector, err := s.embeddingService.Embed(ctx, line.EmbeddingInput())
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}

	embedding := domain.LineEmbedding{
		Vector:     vector,
		Model:      model,
		EmbeddedAt: s.now().UTC(),
	}
	if err := embedding.Validate(dims); err != nil {
		return err
	}

	if err := s.lineStore.SetEmbedding(ctx, line.ID, embedding); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// pace waits for d, returning early with ctx's error if it is cancelled.
func pace(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
