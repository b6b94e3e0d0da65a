package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the embedding provider, backfill pacing and the
background scheduler.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long: `Configure the embedding provider used for backfill and search.

Changing the model makes previously stored embeddings unsearchable until
they are recomputed; search skips lines embedded with another model.`,
	RunE: runSettingsEmbedding,
}

var settingsBackfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Configure backfill pacing",
	Long: `Set how many lines are embedded concurrently and how long to pause
between batches. A negative pace disables the pause.

Examples:
  quotebank settings backfill --batch-size 20 --pace 500ms
  quotebank settings backfill --pace -1ms`,
	RunE: runSettingsBackfill,
}

var settingsSchedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Configure the background backfill schedule",
	Long: `Enable or disable the periodic backfill run by 'quotebank serve'.

Examples:
  quotebank settings scheduler --enabled --interval 30m
  quotebank settings scheduler --enabled=false`,
	RunE: runSettingsScheduler,
}

func init() {
	settingsBackfillCmd.Flags().Int("batch-size", 0, "lines embedded concurrently per batch")
	settingsBackfillCmd.Flags().Duration("pace", 0, "pause between batches")

	settingsSchedulerCmd.Flags().Bool("enabled", true, "run scheduled tasks")
	settingsSchedulerCmd.Flags().Duration("interval", 0, "time between backfill runs")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsBackfillCmd)
	settingsCmd.AddCommand(settingsSchedulerCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(heading("Current Settings"))
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	if settings.Embedding.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	}
	if settings.Embedding.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %.1f req/s\n", settings.Embedding.RequestsPerSecond)
	}
	status := "configured"
	if !settings.Embedding.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Backfill]")
	cmd.Printf("  Batch size: %d\n", settings.Backfill.BatchSize)
	if settings.Backfill.PaceInterval < 0 {
		cmd.Printf("  Pace: disabled\n")
	} else {
		cmd.Printf("  Pace: %s\n", settings.Backfill.PaceInterval)
	}
	cmd.Println()

	task := settings.Scheduler.GetTaskConfig(domain.TaskIDEmbeddingBackfill)
	cmd.Println("[Scheduler]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.Scheduler.Enabled))
	cmd.Printf("  Backfill: %s, every %s\n", yesNo(task.Enabled), task.Interval)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Println(warningStyle.Render(fmt.Sprintf("Warning: %v", err)))
		cmd.Println("Run 'quotebank settings embedding' to fix configuration issues.")
	} else {
		cmd.Println(successStyle.Render("Configuration is valid."))
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, reader)
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		if os.Getenv("OPENAI_API_KEY") != "" {
			cmd.Print("Enter API key [from OPENAI_API_KEY]: ")
		} else {
			cmd.Print("Enter API key: ")
		}
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

func runSettingsBackfill(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	pacing := settings.Backfill

	if cmd.Flags().Changed("batch-size") {
		pacing.BatchSize, _ = cmd.Flags().GetInt("batch-size") //nolint:errcheck // flag is registered
	}
	if cmd.Flags().Changed("pace") {
		pacing.PaceInterval, _ = cmd.Flags().GetDuration("pace") //nolint:errcheck // flag is registered
		if pacing.PaceInterval < 0 {
			pacing.PaceInterval = -time.Millisecond
		}
	}

	if err := settingsService.SetBackfillPacing(pacing); err != nil {
		return fmt.Errorf("failed to set backfill pacing: %w", err)
	}

	pace := pacing.PaceInterval.String()
	if pacing.PaceInterval < 0 {
		pace = "disabled"
	}
	cmd.Printf("Backfill pacing set: batch size %d, pace %s\n", pacing.BatchSize, pace)
	return nil
}

func runSettingsScheduler(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	task := settings.Scheduler.GetTaskConfig(domain.TaskIDEmbeddingBackfill)
	if cmd.Flags().Changed("enabled") {
		enabled, _ := cmd.Flags().GetBool("enabled") //nolint:errcheck // flag is registered
		settings.Scheduler.Enabled = enabled
		task.Enabled = enabled
	}
	if cmd.Flags().Changed("interval") {
		interval, _ := cmd.Flags().GetDuration("interval") //nolint:errcheck // flag is registered
		if interval < time.Minute {
			return fmt.Errorf("interval must be at least 1m, got %s", interval)
		}
		task.Interval = interval.Truncate(time.Minute)
	}
	if settings.Scheduler.TaskConfigs == nil {
		settings.Scheduler.TaskConfigs = make(map[string]domain.TaskConfig)
	}
	settings.Scheduler.TaskConfigs[domain.TaskIDEmbeddingBackfill] = task

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save scheduler settings: %w", err)
	}

	cmd.Printf("Scheduler %s; backfill every %s\n", enabledWord(settings.Scheduler.Enabled), task.Interval)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal, otherwise falls
// back to a plain line read.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func enabledWord(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
