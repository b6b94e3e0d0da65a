package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotebank/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quotebank/internal/core/domain"
	"github.com/custodia-labs/quotebank/internal/core/services"
)

const testModel = "topic-embed"

// topicEmbedder maps text onto one of three axes by topic word.
type topicEmbedder struct {
	err error
}

func (e *topicEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "soup"):
		return []float32{1, 0, 0}, nil
	case strings.Contains(lower, "pool"):
		return []float32{0, 1, 0}, nil
	default:
		return []float32{0, 0, 1}, nil
	}
}

func (e *topicEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *topicEmbedder) Dimensions() int { return 3 }
func (e *topicEmbedder) ModelName() string { return testModel }
func (e *topicEmbedder) Ping(_ context.Context) error { return e.err }
func (e *topicEmbedder) Close() error { return nil }

// testEnv holds the stores behind the services installed by setupTestServices.
type testEnv struct {
	lines    *memory.LineStore
	config   *memory.ConfigStore
	embedder *topicEmbedder
}

func testLines() []domain.ScriptLine {
	return []domain.ScriptLine{
		{ID: "j1", Character: "Jerry", Text: "The soup is excellent today", Episode: "The Soup Nazi"},
		{ID: "j2", Character: "Jerry", Text: "I was in the pool!", Episode: "The Hamptons"},
		{ID: "g1", Character: "George", Text: "It's not a lie if you believe it", Episode: "The Beard"},
	}
}

// setupTestServices installs real services over in-memory stores and returns
// a cleanup that restores the package state.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		lines:    memory.NewLineStore(),
		config:   memory.NewConfigStore(),
		embedder: &topicEmbedder{},
	}
	require.NoError(t, env.lines.SaveLines(context.Background(), testLines()))

	pacing := domain.BackfillSettings{BatchSize: 2, PaceInterval: -1}
	setServices(&Services{
		Search:   services.NewQuoteSearchService(env.lines, env.embedder),
		Backfill: services.NewBackfillService(env.lines, env.embedder, pacing),
		Corpus:   services.NewCorpusService(env.lines, nil),
		Settings: services.NewSettingsService(env.config, nil),
	})

	t.Cleanup(func() {
		setServices(&Services{})
		resetCommandFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return env
}

// embedAll stores an embedding for the given line IDs.
func (env *testEnv) embedAll(t *testing.T, ids ...string) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		line, err := env.lines.GetLine(ctx, id)
		require.NoError(t, err)
		vec, err := env.embedder.Embed(ctx, line.Text)
		require.NoError(t, err)
		require.NoError(t, env.lines.SetEmbedding(ctx, id, domain.LineEmbedding{
			Vector:     vec,
			Model:      testModel,
			EmbeddedAt: time.Now(),
		}))
	}
}

// resetCommandFlags restores every flag in the tree to its default.
// Cobra keeps parsed values on package-level commands between executions.
func resetCommandFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue) //nolint:errcheck // defaults always parse
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCommandFlags(sub)
	}
}

// runCommand executes the root command with args and returns combined output.
func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return runCommandContext(t.Context(), t, stdin, args...)
}

func runCommandContext(ctx context.Context, t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetCommandFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}
