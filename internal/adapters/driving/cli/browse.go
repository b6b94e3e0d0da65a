package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse quotes interactively",
	Long: `Open the interactive quote browser.

Pick a character, type what you would say to them and see the lines they
would answer with, best match first.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Search
  s        - Toggle score breakdown
  n        - New search
  Esc      - Back to characters
  ?        - Help
  Ctrl+C   - Quit`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringP("character", "c", "", "open directly on this character")
	browseCmd.Flags().IntP("limit", "n", 0, "quotes per search (0 = default)")
	rootCmd.AddCommand(browseCmd)
}

// newBrowser builds the quote browser from the loaded services and flags.
func newBrowser(cmd *cobra.Command) (*tui.App, error) {
	character, _ := cmd.Flags().GetString("character")
	limit, _ := cmd.Flags().GetInt("limit")

	app, err := tui.NewApp(tui.NewPorts(searchService, corpusService))
	if err != nil {
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}
	app.WithContext(cmd.Context()).WithLimit(limit)

	if character != "" {
		if err := app.StartWith(character); err != nil {
			return nil, err
		}
	}
	return app, nil
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in browser: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := newBrowser(cmd)
	if err != nil {
		return err
	}

	if err := app.Run(); err != nil && cmd.Context().Err() == nil {
		return fmt.Errorf("browser error: %w", err)
	}
	return nil
}
