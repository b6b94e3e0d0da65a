// Package search provides the quote search view: a snippet input addressed
// to one character above the quotes that character would reply with.
package search

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quotebank/internal/core/domain"
	"github.com/custodia-labs/quotebank/internal/core/ports/driving"
)

// View holds the snippet input, the ranked quotes and the status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SnippetInput
	list      *list.QuoteList
	statusbar *status.Bar

	searchService driving.QuoteSearchService
	ctx           context.Context
	limit         int

	character string
	pending   *domain.Query
	width     int
	height    int
	ready     bool
	err       error

	// focusInput is true while typing and false while browsing quotes.
	focusInput bool
}

// NewView creates a search view. Nil styles or keymap select the defaults.
func NewView(s *styles.Styles, km *keymap.KeyMap, searchService driving.QuoteSearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSnippetInput(s),
		list:          list.NewQuoteList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		ctx:           context.Background(),
		limit:         domain.DefaultQueryLimit,
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for searches.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetLimit sets how many quotes a search returns.
func (v *View) SetLimit(limit int) {
	if limit > 0 {
		v.limit = limit
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.pending = nil
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewCharacters}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			return v, v.submit()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(msg.String(), v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(msg.String(), v.keymap.Scores):
		v.list.ToggleScores()
	case keymap.Matches(msg.String(), v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}
	return v, nil
}

// submit starts a search for the typed snippet.
func (v *View) submit() tea.Cmd {
	text := strings.TrimSpace(v.input.Value())
	if text == "" || v.character == "" {
		return nil
	}

	query := domain.Query{Text: text, Character: v.character, Limit: v.limit}
	v.pending = &query
	v.err = nil
	v.statusbar.SetMessage("")
	v.statusbar.SetState(status.StateSearching)
	v.focusInput = false
	v.input.Blur()
	return v.performSearch(query)
}

func (v *View) performSearch(query domain.Query) tea.Cmd {
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		return messages.SearchCompleted{
			Query:   query,
			Results: v.searchService.Search(v.ctx, query),
		}
	}
}

// handleSearchCompleted shows results unless a newer search superseded them.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if v.pending == nil || *v.pending != msg.Query {
		return
	}
	v.pending = nil

	v.list.SetQuotes(msg.Results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetQuoteCount(len(msg.Results))
	if len(msg.Results) == 0 {
		v.statusbar.SetMessage("No quotes found; has 'quotebank backfill' run?")
	}
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render(v.character), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetCharacter switches the view to a new character and clears old results.
func (v *View) SetCharacter(character string) {
	v.character = character
	v.input.SetCharacter(character)
	v.statusbar.SetCharacter(character)
	v.Reset()
}

// Character returns the character being searched.
func (v *View) Character() string {
	return v.character
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the typed snippet.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the snippet.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the ranked quotes shown.
func (v *View) Results() []domain.RankedQuote {
	return v.list.Quotes()
}

// SelectedIndex returns the index of the highlighted quote.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Searching reports whether a search is in flight.
func (v *View) Searching() bool {
	return v.pending != nil
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset returns to input mode with an empty snippet and no results.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetQuotes(nil)
	v.pending = nil
	v.err = nil
	v.statusbar.Clear()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
