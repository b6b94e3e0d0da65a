package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

var (
	searchCharacter string
	searchLimit     int
	searchJSON      bool
	searchScores    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find in-character quotes",
	Long: `Ranks one character's embedded lines against a conversation snippet.

The score is the cosine similarity between the snippet and each line plus
0.15 for every query word longer than three letters that the line contains.

Examples:
  quotebank search -c Jerry "what's the deal with airline food"
  quotebank search -c george -n 3 --scores "I was in the pool"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchCharacter, "character", "c", "", "character whose lines are searched (required)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultQueryLimit, "maximum number of quotes")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchScores, "scores", false, "show score components")
	_ = searchCmd.MarkFlagRequired("character")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query := domain.Query{
		Text:      strings.Join(args, " "),
		Character: searchCharacter,
		Limit:     searchLimit,
	}
	if err := query.Validate(); err != nil {
		return err
	}

	character, known := domain.NormalizeCharacter(searchCharacter)
	if !known {
		cmd.PrintErrf("Note: %q is not a known character; searching as %q\n", searchCharacter, character)
	}

	results := searchService.Search(cmd.Context(), query)

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	outputSearchText(cmd, character, results)
	return nil
}

// searchResultJSON is the --json shape of a ranked quote.
type searchResultJSON struct {
	LineID         string  `json:"line_id"`
	Text           string  `json:"text"`
	Episode        string  `json:"episode,omitempty"`
	Score          float64 `json:"score"`
	Cosine         float64 `json:"cosine"`
	KeywordMatches int     `json:"keyword_matches"`
}

func outputSearchJSON(cmd *cobra.Command, results []domain.RankedQuote) error {
	out := make([]searchResultJSON, len(results))
	for i, r := range results {
		out[i] = searchResultJSON{
			LineID:         r.LineID,
			Text:           r.Text,
			Episode:        r.Episode,
			Score:          r.Score,
			Cosine:         r.Cosine,
			KeywordMatches: r.KeywordMatches,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, character string, results []domain.RankedQuote) {
	if len(results) == 0 {
		cmd.Println("No quotes found.")
		cmd.Println(mutedStyle.Render("Lines only become searchable after 'quotebank backfill'."))
		return
	}

	cmd.Println(heading(character))
	for i, r := range results {
		cmd.Printf("  [%d] %s\n", i+1, quoteStyle.Render(r.Text))
		if r.Episode != "" {
			cmd.Printf("      %s\n", mutedStyle.Render(r.Episode))
		}
		if searchScores {
			cmd.Printf("      %s\n", mutedStyle.Render(fmt.Sprintf(
				"score %.3f = cosine %.3f + %d keyword match(es)", r.Score, r.Cosine, r.KeywordMatches)))
		}
	}
}
