package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

var (
	backfillTimeout time.Duration
	backfillJSON    bool
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Embed script lines that have no embedding yet",
	Long: `Computes embeddings for every script line that is not yet searchable.

Lines are embedded in small concurrent batches with a pause between
batches; see 'quotebank settings backfill' to tune pacing. Lines that
fail are left for the next run. Interrupting the command keeps the
lines already written.`,
	Args: cobra.NoArgs,
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().DurationVar(&backfillTimeout, "timeout", 0, "stop after this long (0 = no limit)")
	backfillCmd.Flags().BoolVar(&backfillJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	if backfillService == nil {
		return errors.New("backfill service not configured (is an embedding provider set up?)")
	}

	ctx := cmd.Context()
	if backfillTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, backfillTimeout)
		defer cancel()
	}

	start := time.Now()
	result, runErr := backfillService.Backfill(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)

	if backfillJSON {
		if err := outputBackfillJSON(cmd, result, runErr); err != nil {
			return err
		}
	} else {
		outputBackfillText(cmd, result, elapsed)
	}

	if runErr != nil {
		return fmt.Errorf("backfill stopped after %d lines: %w", result.Processed, runErr)
	}
	return nil
}

type backfillJSONOutput struct {
	Processed  int    `json:"processed"`
	Candidates int    `json:"candidates"`
	Failed     int    `json:"failed"`
	Skipped    int    `json:"skipped"`
	CorpusSize int    `json:"corpus_size"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
}

func outputBackfillJSON(cmd *cobra.Command, result domain.BackfillResult, runErr error) error {
	out := backfillJSONOutput{
		Processed:  result.Processed,
		Candidates: result.Candidates,
		Failed:     result.Failed,
		Skipped:    result.Skipped,
		CorpusSize: result.CorpusSize,
		Message:    result.Message,
	}
	if runErr != nil {
		out.Error = runErr.Error()
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputBackfillText(cmd *cobra.Command, result domain.BackfillResult, elapsed time.Duration) {
	if result.NothingToDo() {
		cmd.Println(successStyle.Render(result.Message))
		return
	}

	style := successStyle
	if !result.Complete() {
		style = warningStyle
	}
	cmd.Println(style.Render(result.Message))
	cmd.Printf("  Candidates: %d of %d lines\n", result.Candidates, result.CorpusSize)
	if result.Skipped > 0 {
		cmd.Printf("  Skipped:    %d (embedded by another run)\n", result.Skipped)
	}
	if result.Failed > 0 {
		cmd.Printf("  Failed:     %d (will be retried next run)\n", result.Failed)
	}
	cmd.Println(mutedStyle.Render(fmt.Sprintf("  took %s", elapsed)))
}
