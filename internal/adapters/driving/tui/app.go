package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/views/characters"
	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/quotebank/internal/core/domain"
)

// App is the quote browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	charactersView *characters.View
	searchView     *search.View

	currentView messages.ViewType

	// previousView is where esc returns to from help.
	previousView messages.ViewType

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a browser over the given ports. It opens on the character
// picker.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		charactersView: characters.NewView(s, ports.Corpus),
		searchView:     search.NewView(s, km, ports.Search),
		currentView:    messages.ViewCharacters,
		previousView:   messages.ViewCharacters,
	}, nil
}

// WithContext sets the context for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.charactersView.WithContext(ctx)
	a.searchView.WithContext(ctx)
	return a
}

// WithLimit sets how many quotes each search returns.
func (a *App) WithLimit(limit int) *App {
	a.searchView.SetLimit(limit)
	return a
}

// StartWith opens the browser directly on a character's search view.
func (a *App) StartWith(character string) error {
	name, ok := domain.NormalizeCharacter(character)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCharacter, character)
	}
	a.searchView.SetCharacter(name)
	a.currentView = messages.ViewSearch
	return nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("quotebank"),
		a.charactersView.Init(),
		a.searchView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.handleKey(msg)

	case messages.CharacterSelected:
		a.searchView.SetCharacter(msg.Character)
		a.currentView = messages.ViewSearch
		return a, a.searchView.Init()

	case messages.CharactersLoaded:
		a.charactersView, cmd = a.charactersView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, cmd

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.Quit:
		return a, tea.Quit
	}

	// Cursor blinks and similar ticks belong to the input.
	if a.currentView == messages.ViewSearch {
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewCharacters:
		a.charactersView, cmd = a.charactersView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || msg.String() == "q" || msg.String() == "?" {
			a.currentView = a.previousView
		}
	}
	return cmd
}

func (a *App) switchView(view messages.ViewType) tea.Cmd {
	if view == messages.ViewHelp {
		a.previousView = a.currentView
	}
	a.currentView = view

	if view == messages.ViewCharacters {
		// Coverage may have moved since the picker was last shown.
		return a.charactersView.Init()
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.charactersView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Characters:
  j/k, ↑/↓    Navigate
  enter       Talk to the selected character
  q           Quit

Search:
  (type)      What you would say to them
  enter       Find the quotes they would answer with
  esc         Back to characters

Results:
  j/k, ↑/↓    Navigate quotes
  s           Show cosine and keyword breakdown
  n           New search
  esc         Back to characters

  ctrl+c      Quit from anywhere

` + a.styles.Muted.Render("[esc] back")
}

// Run starts the browser.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Character returns the character being searched, if any.
func (a *App) Character() string {
	return a.searchView.Character()
}

// Results returns the quotes shown in the search view.
func (a *App) Results() []domain.RankedQuote {
	return a.searchView.Results()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sizes the app and all views.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.charactersView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
}
