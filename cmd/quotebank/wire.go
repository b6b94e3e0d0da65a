package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/quotebank/internal/adapters/driven/ai"
	"github.com/custodia-labs/quotebank/internal/adapters/driven/config/file"
	"github.com/custodia-labs/quotebank/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/quotebank/internal/adapters/driving/cli"
	"github.com/custodia-labs/quotebank/internal/core/ports/driven"
	"github.com/custodia-labs/quotebank/internal/core/services"
	"github.com/custodia-labs/quotebank/internal/logger"
)

// loadServices opens the config file and database and builds the services.
// An unreachable embedding provider is not fatal: status and settings still
// work, search returns nothing and backfill reports the provider error.
func loadServices(ctx context.Context) (*cli.Services, func(), error) {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	var embedder driven.EmbeddingService
	svc, err := ai.CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	switch {
	case err != nil:
		logger.Warn("%v", err)
	case svc == nil:
		logger.Debug("No embedding provider configured")
	default:
		embedder = svc
		logger.Info("Embedding with %s (%d dimensions)", svc.ModelName(), svc.Dimensions())
	}

	lineStore := store.LineStore()
	backfillService := services.NewBackfillService(lineStore, embedder, settings.Backfill)
	scheduler := services.NewScheduler(settings.Scheduler, store.SchedulerStore(), backfillService)

	release := func() {
		var errs []error
		if embedder != nil {
			errs = append(errs, embedder.Close())
		}
		errs = append(errs, store.Close())
		if err := errors.Join(errs...); err != nil {
			logger.Warn("shutdown: %v", err)
		}
	}

	return &cli.Services{
		Search:    services.NewQuoteSearchService(lineStore, embedder),
		Backfill:  backfillService,
		Corpus:    services.NewCorpusService(lineStore, store.SchedulerStore()),
		Settings:  settingsService,
		Scheduler: scheduler,
		Config:    configStore,
	}, release, nil
}
