// Package cli provides the quotebank command-line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quotebank/internal/core/ports/driving"
	"github.com/custodia-labs/quotebank/internal/logger"
)

// version is reported by the version command; Execute overrides it.
var version = "dev"

// ConfigWatcher reports edits to the settings file.
type ConfigWatcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// Services holds the driving ports the commands use.
type Services struct {
	Search    driving.QuoteSearchService
	Backfill  driving.BackfillService
	Corpus    driving.CorpusService
	Settings  driving.SettingsService
	Scheduler driving.Scheduler
	Config    ConfigWatcher
}

// Loader builds the services on first use. The returned func releases them.
type Loader func(ctx context.Context) (*Services, func(), error)

// Services wired by the loader; tests assign fakes directly.
var (
	searchService   driving.QuoteSearchService
	backfillService driving.BackfillService
	corpusService   driving.CorpusService
	settingsService driving.SettingsService
	scheduler       driving.Scheduler
	configWatcher   ConfigWatcher
)

var (
	verbose bool
	loader  Loader
	release func()
)

// noServices marks commands that run without opening the store.
const noServices = "no-services"

var rootCmd = &cobra.Command{
	Use:   "quotebank",
	Short: "In-character quote retrieval for persona agents",
	Long: `quotebank finds script lines a character would plausibly say in reply
to a conversation snippet. Lines are ranked by embedding similarity
with a boost for shared keywords.

Run 'quotebank backfill' after ingesting new lines so they become searchable.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command. load is called once before the first
// command that needs services.
func Execute(ctx context.Context, ver string, load Loader) error {
	if ver != "" {
		version = ver
	}
	loader = load
	defer func() {
		if release != nil {
			release()
			release = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func loadServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if _, skip := cmd.Annotations[noServices]; skip {
		return nil
	}
	if searchService != nil || loader == nil {
		return nil
	}

	svc, closeFn, err := loader(cmd.Context())
	if err != nil {
		return err
	}
	if svc == nil {
		return errors.New("no services configured")
	}
	setServices(svc)
	release = closeFn
	return nil
}

func setServices(svc *Services) {
	searchService = svc.Search
	backfillService = svc.Backfill
	corpusService = svc.Corpus
	settingsService = svc.Settings
	scheduler = svc.Scheduler
	configWatcher = svc.Config
}
