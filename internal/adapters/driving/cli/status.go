package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quotebank/internal/core/domain"
	"github.com/custodia-labs/quotebank/internal/logger"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus size and embedding coverage",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	stats, err := corpusService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get corpus stats: %w", err)
	}

	// History is informational; a read failure does not fail the command.
	lastRun, err := corpusService.LastBackfill(cmd.Context())
	if err != nil {
		logger.Warn("status: %v", err)
	}

	if statusJSON {
		return outputStatusJSON(cmd, stats, lastRun)
	}

	cmd.Println(heading("Corpus"))
	cmd.Printf("  Lines:    %d\n", stats.Total)
	cmd.Printf("  Embedded: %d\n", stats.Embedded)
	if pending := stats.Pending(); pending > 0 {
		cmd.Println(warningStyle.Render(fmt.Sprintf("  Pending:  %d (run 'quotebank backfill')", pending)))
	} else {
		cmd.Printf("  Pending:  0\n")
	}
	printLastBackfill(cmd, lastRun)

	if len(stats.Characters) == 0 {
		return nil
	}
	cmd.Println()
	cmd.Println(heading("Characters"))
	for _, c := range stats.Characters {
		cmd.Printf("  %-16s %6d lines  %6d embedded\n", c.Character, c.Lines, c.Embedded)
	}
	return nil
}

func printLastBackfill(cmd *cobra.Command, run *domain.TaskRun) {
	if run == nil {
		cmd.Println(mutedStyle.Render("  Last scheduled backfill: never"))
		return
	}

	when := run.StartedAt.Local().Format(time.DateTime)
	if !run.OK() {
		cmd.Println(warningStyle.Render(fmt.Sprintf("  Last scheduled backfill: %s, failed: %s", when, run.Error)))
		return
	}
	summary := fmt.Sprintf("%d embedded", run.Embedded)
	if run.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", run.Failed)
	}
	cmd.Printf("  Last scheduled backfill: %s (%s in %s)\n", when, summary, run.Duration().Round(time.Millisecond))
}

type statusCharacterJSON struct {
	Name     string `json:"name"`
	Lines    int    `json:"lines"`
	Embedded int    `json:"embedded"`
}

type statusRunJSON struct {
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Embedded   int       `json:"embedded"`
	Failed     int       `json:"failed"`
	Error      string    `json:"error,omitempty"`
}

type statusJSONOutput struct {
	Total        int                   `json:"total"`
	Embedded     int                   `json:"embedded"`
	Pending      int                   `json:"pending"`
	Characters   []statusCharacterJSON `json:"characters"`
	LastBackfill *statusRunJSON        `json:"last_backfill,omitempty"`
}

func outputStatusJSON(cmd *cobra.Command, stats domain.CorpusStats, run *domain.TaskRun) error {
	out := statusJSONOutput{
		Total:      stats.Total,
		Embedded:   stats.Embedded,
		Pending:    stats.Pending(),
		Characters: make([]statusCharacterJSON, 0, len(stats.Characters)),
	}
	if run != nil {
		out.LastBackfill = &statusRunJSON{
			StartedAt:  run.StartedAt,
			DurationMS: run.Duration().Milliseconds(),
			Embedded:   run.Embedded,
			Failed:     run.Failed,
			Error:      run.Error,
		}
	}
	for _, c := range stats.Characters {
		out.Characters = append(out.Characters, statusCharacterJSON{
			Name:     c.Character,
			Lines:    c.Lines,
			Embedded: c.Embedded,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
