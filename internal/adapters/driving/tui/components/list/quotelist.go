// Package list provides the ranked quote list for the quote browser.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quotebank/internal/core/domain"
)

// QuoteList displays ranked quotes in a navigable list.
type QuoteList struct {
	quotes     []domain.RankedQuote
	selected   int
	showScores bool
	styles     *styles.Styles
	width      int
	height     int
}

// NewQuoteList creates an empty list.
func NewQuoteList(s *styles.Styles) *QuoteList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &QuoteList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *QuoteList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation keys.
func (l *QuoteList) Update(msg tea.Msg) (*QuoteList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the visible window of quotes.
func (l *QuoteList) View() string {
	if len(l.quotes) == 0 {
		return l.styles.Muted.Render("No quotes")
	}

	lines := make([]string, 0, len(l.quotes)+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Quotes (%d)", len(l.quotes))), "")

	// Each quote takes up to three lines.
	visible := max((l.height-4)/3, 1)
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.quotes))

	for i := start; i < end; i++ {
		lines = append(lines, l.renderQuote(i, &l.quotes[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *QuoteList) renderQuote(index int, q *domain.RankedQuote) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	text := truncate(q.Text, max(l.width-12, 10))
	score := fmt.Sprintf("%.2f", q.Score)

	var first string
	if index == l.selected {
		first = l.styles.Selected.Render(indicator+text) + "  " + l.styles.Score.Render(score)
	} else {
		first = indicator + l.styles.Quote.Render(text) + "  " + l.styles.Muted.Render(score)
	}

	var b strings.Builder
	b.WriteString(first)
	if q.Episode != "" {
		b.WriteString("\n")
		b.WriteString(l.styles.Muted.Render("    " + q.Episode))
	}
	if l.showScores {
		b.WriteString("\n")
		b.WriteString(l.styles.Muted.Render(fmt.Sprintf("    cosine %.3f + %d keyword match(es)", q.Cosine, q.KeywordMatches)))
	}
	return b.String()
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// SetQuotes replaces the list contents and selects the first quote.
func (l *QuoteList) SetQuotes(quotes []domain.RankedQuote) {
	l.quotes = quotes
	l.selected = 0
}

// Quotes returns the current quotes.
func (l *QuoteList) Quotes() []domain.RankedQuote {
	return l.quotes
}

// Selected returns the index of the selected quote.
func (l *QuoteList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index when it is in range.
func (l *QuoteList) SetSelected(index int) {
	if index >= 0 && index < len(l.quotes) {
		l.selected = index
	}
}

// SelectedQuote returns the selected quote, or nil when the list is empty.
func (l *QuoteList) SelectedQuote() *domain.RankedQuote {
	if l.selected < 0 || l.selected >= len(l.quotes) {
		return nil
	}
	return &l.quotes[l.selected]
}

// MoveUp moves selection up.
func (l *QuoteList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *QuoteList) MoveDown() {
	if l.selected < len(l.quotes)-1 {
		l.selected++
	}
}

// ToggleScores shows or hides the score breakdown.
func (l *QuoteList) ToggleScores() {
	l.showScores = !l.showScores
}

// ShowScores reports whether the score breakdown is shown.
func (l *QuoteList) ShowScores() bool {
	return l.showScores
}

// SetDimensions sets the component dimensions.
func (l *QuoteList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of quotes.
func (l *QuoteList) Count() int {
	return len(l.quotes)
}

// IsEmpty returns whether the list is empty.
func (l *QuoteList) IsEmpty() bool {
	return len(l.quotes) == 0
}
