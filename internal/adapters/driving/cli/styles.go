package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/styles"
)

// Output styles share the browser palette. lipgloss drops colour when stdout
// is not a terminal.
var (
	palette      = styles.DefaultStyles()
	headingStyle = palette.Title
	quoteStyle   = palette.Normal
	mutedStyle   = palette.Muted
	successStyle = palette.Success
	warningStyle = palette.Warning
)

// heading renders a section title with an underline of matching width.
func heading(title string) string {
	underline := strings.Repeat("=", lipgloss.Width(title))
	return headingStyle.Render(title) + "\n" + mutedStyle.Render(underline)
}
