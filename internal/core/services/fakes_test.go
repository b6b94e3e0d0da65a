package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/quotebank/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quotebank/internal/core/domain"
	"github.com/custodia-labs/quotebank/internal/core/ports/driven"
)

// --- Test doubles shared by the service tests ---

const testModel = "test-embed"

var errEmbedFailed = errors.New("embedding api unavailable")

// fakeEmbedder returns fixed vectors keyed by input text.
// Unknown inputs get defaultVec.
type fakeEmbedder struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	defaultVec []float32
	failFor    map[string]bool
	err        error
	delay      time.Duration
	dims       int

	calls       atomic.Int64
	inFlight    atomic.Int64
	maxInFlight atomic.Int64
	callTimes   []time.Time
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		vectors:    make(map[string][]float32),
		defaultVec: []float32{1, 0, 0},
		failFor:    make(map[string]bool),
		dims:       3,
	}
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.maxInFlight.Load()
		if n <= peak || f.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	f.mu.Lock()
	f.callTimes = append(f.callTimes, time.Now())
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}

	if f.err != nil || f.failFor[text] {
		return nil, errEmbedFailed
	}
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return f.defaultVec, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int            { return f.dims }
func (f *fakeEmbedder) ModelName() string          { return testModel }
func (f *fakeEmbedder) Ping(context.Context) error { return f.err }
func (f *fakeEmbedder) Close() error               { return nil }

// failingLineStore wraps the memory store with injectable failures.
type failingLineStore struct {
	*memory.LineStore
	listUnembeddedErr error
	listEmbeddedErr   error
	statsErr          error
	setErrFor         map[string]error
}

func newFailingLineStore() *failingLineStore {
	return &failingLineStore{
		LineStore: memory.NewLineStore(),
		setErrFor: make(map[string]error),
	}
}

func (s *failingLineStore) ListUnembedded(ctx context.Context) ([]domain.ScriptLine, error) {
	if s.listUnembeddedErr != nil {
		return nil, s.listUnembeddedErr
	}
	return s.LineStore.ListUnembedded(ctx)
}

func (s *failingLineStore) ListEmbedded(ctx context.Context, character string) ([]domain.ScriptLine, error) {
	if s.listEmbeddedErr != nil {
		return nil, s.listEmbeddedErr
	}
	return s.LineStore.ListEmbedded(ctx, character)
}

func (s *failingLineStore) SetEmbedding(ctx context.Context, id string, e domain.LineEmbedding) error {
	if err, ok := s.setErrFor[id]; ok {
		return err
	}
	return s.LineStore.SetEmbedding(ctx, id, e)
}

func (s *failingLineStore) Stats(ctx context.Context) (domain.CorpusStats, error) {
	if s.statsErr != nil {
		return domain.CorpusStats{}, s.statsErr
	}
	return s.LineStore.Stats(ctx)
}

// Ensure fakes implement interfaces
var _ driven.EmbeddingService = (*fakeEmbedder)(nil)
var _ driven.LineStore = (*failingLineStore)(nil)
