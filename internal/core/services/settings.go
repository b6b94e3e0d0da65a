package services

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/custodia-labs/quotebank/internal/core/domain"
	"github.com/custodia-labs/quotebank/internal/core/ports/driven"
	"github.com/custodia-labs/quotebank/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedDimensions   = "embedding.dimensions"
	keyEmbedRPS          = "embedding.requests_per_second"
	keyBackfillBatchSize = "backfill.batch_size"
	keyBackfillPaceMS    = "backfill.pace_ms"
	keySchedulerEnabled  = "scheduler.enabled"
	keyBackfillEnabled   = "scheduler.backfill_enabled"
	keyBackfillInterval  = "scheduler.backfill_interval_minutes"
)

// EnvOpenAIAPIKey supplies the OpenAI key when none is configured.
const EnvOpenAIAPIKey = "OPENAI_API_KEY"

// DefaultOllamaBaseURL is used when a local provider has no base URL.
const DefaultOllamaBaseURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// The aiValidator parameter is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	backfillDefaults := defaults.Scheduler.GetTaskConfig(domain.TaskIDEmbeddingBackfill)

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.configStore.GetString(keyEmbedModel),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			Dimensions:        s.configStore.GetInt(keyEmbedDimensions),
			RequestsPerSecond: s.configStore.GetFloat(keyEmbedRPS),
		},
		Backfill: domain.BackfillSettings{
			BatchSize:    s.getInt(keyBackfillBatchSize, defaults.Backfill.BatchSize),
			PaceInterval: s.getDuration(keyBackfillPaceMS, time.Millisecond, defaults.Backfill.PaceInterval),
		},
		Scheduler: domain.SchedulerConfig{
			Enabled: s.getBool(keySchedulerEnabled, defaults.Scheduler.Enabled),
			TaskConfigs: map[string]domain.TaskConfig{
				domain.TaskIDEmbeddingBackfill: {
					Enabled:  s.getBool(keyBackfillEnabled, backfillDefaults.Enabled),
					Interval: s.getDuration(keyBackfillInterval, time.Minute, backfillDefaults.Interval),
				},
			},
		},
	}

	if settings.Embedding.Model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}
	if settings.Embedding.APIKey == "" && settings.Embedding.Provider == domain.AIProviderOpenAI {
		settings.Embedding.APIKey = s.getenv(EnvOpenAIAPIKey)
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != s.getenv(EnvOpenAIAPIKey) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyEmbedDimensions, settings.Embedding.Dimensions); err != nil {
		return fmt.Errorf("save embedding dimensions: %w", err)
	}
	if err := s.configStore.Set(keyEmbedRPS, settings.Embedding.RequestsPerSecond); err != nil {
		return fmt.Errorf("save embedding requests_per_second: %w", err)
	}

	// Save backfill pacing
	if err := s.configStore.Set(keyBackfillBatchSize, settings.Backfill.BatchSize); err != nil {
		return fmt.Errorf("save backfill batch_size: %w", err)
	}
	paceMS := int(settings.Backfill.PaceInterval / time.Millisecond)
	if settings.Backfill.PaceInterval < 0 {
		paceMS = -1 // pacing disabled
	}
	if err := s.configStore.Set(keyBackfillPaceMS, paceMS); err != nil {
		return fmt.Errorf("save backfill pace_ms: %w", err)
	}

	// Save scheduler settings
	task := settings.Scheduler.GetTaskConfig(domain.TaskIDEmbeddingBackfill)
	if err := s.configStore.Set(keySchedulerEnabled, settings.Scheduler.Enabled); err != nil {
		return fmt.Errorf("save scheduler enabled: %w", err)
	}
	if err := s.configStore.Set(keyBackfillEnabled, task.Enabled); err != nil {
		return fmt.Errorf("save scheduler backfill_enabled: %w", err)
	}
	if err := s.configStore.Set(keyBackfillInterval, int(task.Interval/time.Minute)); err != nil {
		return fmt.Errorf("save scheduler backfill_interval_minutes: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	if apiKey == "" && provider == domain.AIProviderOpenAI {
		apiKey = s.getenv(EnvOpenAIAPIKey)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = DefaultOllamaBaseURL
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	// Dimensions follow the model unless it is unknown
	settings.Embedding.Dimensions = domain.EmbeddingDimensions()[settings.Embedding.Model]

	return s.Save(settings)
}

// SetBackfillPacing updates the backfill batch size and inter-batch delay.
// A zero interval selects the default pace; a negative one disables pacing.
func (s *SettingsService) SetBackfillPacing(pacing domain.BackfillSettings) error {
	if pacing.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Backfill = pacing
	return s.Save(settings)
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Embedding.Provider != "" && !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is missing required settings", settings.Embedding.Provider)
	}
	if settings.Backfill.BatchSize <= 0 {
		return fmt.Errorf("backfill batch size must be positive, got %d", settings.Backfill.BatchSize)
	}
	if task := settings.Scheduler.GetTaskConfig(domain.TaskIDEmbeddingBackfill); task.Enabled && task.Interval <= 0 {
		return fmt.Errorf("backfill interval must be positive, got %s", task.Interval)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, unit, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetInt(key)) * unit
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
