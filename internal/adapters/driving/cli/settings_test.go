package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

func TestSettingsShow_Defaults(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Embedding]")
	assert.Contains(t, out, "Status: not configured")
	assert.Contains(t, out, "Batch size: 10")
	assert.Contains(t, out, "Pace: 1s")
	assert.Contains(t, out, "[Scheduler]")
}

func TestSettingsEmbedding_Ollama(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "1\n\n", "settings", "embedding")

	require.NoError(t, err)
	assert.Contains(t, out, "Validating configuration... OK")
	assert.Contains(t, out, "Ollama (local) (nomic-embed-text)")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
	assert.Equal(t, 768, settings.Embedding.Dimensions)
}

func TestSettingsEmbedding_OpenAIReadsKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	setupTestServices(t)

	out, err := runCommand(t, "2\ntext-embedding-3-large\nsk-test-0123456789\n", "settings", "embedding")

	require.NoError(t, err)
	assert.Contains(t, out, "OpenAI (cloud) (text-embedding-3-large)")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "sk-test-0123456789", settings.Embedding.APIKey)
	assert.Equal(t, 3072, settings.Embedding.Dimensions)

	out, err = runCommand(t, "", "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "API Key: sk-t...6789")
}

func TestSettingsEmbedding_OpenAIWithoutKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	setupTestServices(t)

	_, err := runCommand(t, "2\n\n\n", "settings", "embedding")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key required")
}

func TestSettingsBackfill(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "", "settings", "backfill", "--batch-size", "20", "--pace", "250ms")

	require.NoError(t, err)
	assert.Contains(t, out, "batch size 20, pace 250ms")
	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, 20, settings.Backfill.BatchSize)
	assert.Equal(t, 250*time.Millisecond, settings.Backfill.PaceInterval)

	out, err = runCommand(t, "", "settings", "backfill", "--pace=-1ms")

	require.NoError(t, err)
	assert.Contains(t, out, "batch size 20, pace disabled")
	settings, err = settingsService.Get()
	require.NoError(t, err)
	assert.Negative(t, settings.Backfill.PaceInterval)
}

func TestSettingsBackfill_RejectsZeroBatch(t *testing.T) {
	setupTestServices(t)

	_, err := runCommand(t, "", "settings", "backfill", "--batch-size", "0")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsScheduler(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "", "settings", "scheduler", "--interval", "30m")

	require.NoError(t, err)
	assert.Contains(t, out, "backfill every 30m0s")
	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, settings.Scheduler.GetTaskConfig(domain.TaskIDEmbeddingBackfill).Interval)

	out, err = runCommand(t, "", "settings", "scheduler", "--enabled=false")

	require.NoError(t, err)
	assert.Contains(t, out, "Scheduler disabled")
	settings, err = settingsService.Get()
	require.NoError(t, err)
	assert.False(t, settings.Scheduler.Enabled)
}

func TestSettingsScheduler_RejectsShortInterval(t *testing.T) {
	setupTestServices(t)

	_, err := runCommand(t, "", "settings", "scheduler", "--interval", "30s")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 1m")
}

func TestSettings_NoService(t *testing.T) {
	setupTestServices(t)
	settingsService = nil

	for _, args := range [][]string{
		{"settings"},
		{"settings", "embedding"},
		{"settings", "backfill"},
		{"settings", "scheduler"},
	} {
		_, err := runCommand(t, "", args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "settings service not configured")
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input    string
		max, def int
		want     int
	}{
		{"", 2, 1, 1},
		{"2", 2, 1, 2},
		{"3", 2, 1, 1},
		{"x", 2, 0, 0},
		{"0", 2, 1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseChoice(tt.input, tt.max, tt.def), tt.input)
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefghuvwxyz"))
}
