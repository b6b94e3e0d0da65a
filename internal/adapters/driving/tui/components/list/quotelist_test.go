package list

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quotebank/internal/core/domain"
)

func sampleQuotes() []domain.RankedQuote {
	return []domain.RankedQuote{
		{LineID: "1", Text: "No soup for you!", Episode: "The Soup Nazi", Score: 1.15, Cosine: 1, KeywordMatches: 1},
		{LineID: "2", Text: "Serenity now!", Episode: "The Serenity Now", Score: 0.42, Cosine: 0.42},
		{LineID: "3", Text: "These pretzels are making me thirsty.", Score: 0.1, Cosine: 0.1},
	}
}

func TestNewQuoteList(t *testing.T) {
	l := NewQuoteList(styles.DefaultStyles())

	require.NotNil(t, l)
	assert.True(t, l.IsEmpty())
	assert.Equal(t, 0, l.Selected())
	assert.Nil(t, l.SelectedQuote())
	assert.Nil(t, l.Init())
}

func TestNewQuoteList_NilStyles(t *testing.T) {
	assert.NotNil(t, NewQuoteList(nil).styles)
}

func TestQuoteList_SetQuotesResetsSelection(t *testing.T) {
	l := NewQuoteList(nil)
	l.SetQuotes(sampleQuotes())
	l.SetSelected(2)

	l.SetQuotes(sampleQuotes()[:2])

	assert.Equal(t, 2, l.Count())
	assert.Equal(t, 0, l.Selected())
}

func TestQuoteList_Navigation(t *testing.T) {
	l := NewQuoteList(nil)
	l.SetQuotes(sampleQuotes())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, l.Selected())

	l.MoveDown()
	assert.Equal(t, 2, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, l.Selected())
	assert.Equal(t, "2", l.SelectedQuote().LineID)
}

func TestQuoteList_SetSelectedOutOfRange(t *testing.T) {
	l := NewQuoteList(nil)
	l.SetQuotes(sampleQuotes())

	l.SetSelected(5)
	l.SetSelected(-1)

	assert.Equal(t, 0, l.Selected())
}

func TestQuoteList_ViewEmpty(t *testing.T) {
	assert.Contains(t, NewQuoteList(nil).View(), "No quotes")
}

func TestQuoteList_View(t *testing.T) {
	l := NewQuoteList(nil)
	l.SetDimensions(100, 30)
	l.SetQuotes(sampleQuotes())

	view := l.View()

	assert.Contains(t, view, "Quotes (3)")
	assert.Contains(t, view, "No soup for you!")
	assert.Contains(t, view, "The Soup Nazi")
	assert.Contains(t, view, "1.15")
	assert.NotContains(t, view, "cosine")
}

func TestQuoteList_ToggleScores(t *testing.T) {
	l := NewQuoteList(nil)
	l.SetDimensions(100, 30)
	l.SetQuotes(sampleQuotes())

	l.ToggleScores()

	assert.True(t, l.ShowScores())
	assert.Contains(t, l.View(), "cosine 1.000 + 1 keyword match(es)")
}

func TestQuoteList_ViewScrollsToSelection(t *testing.T) {
	l := NewQuoteList(nil)
	l.SetDimensions(100, 7) // room for one quote
	l.SetQuotes(sampleQuotes())
	l.SetSelected(2)

	view := l.View()

	assert.Contains(t, view, "pretzels")
	assert.NotContains(t, view, "No soup")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, 10, len([]rune(truncate(strings.Repeat("é", 20), 10))))
}
