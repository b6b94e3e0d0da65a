// Package characters provides the character picker for the quote browser.
package characters

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quotebank/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quotebank/internal/core/domain"
	"github.com/custodia-labs/quotebank/internal/core/ports/driving"
)

// View lists characters with their embedding coverage.
type View struct {
	styles *styles.Styles
	corpus driving.CorpusService
	ctx    context.Context

	roster   []domain.CharacterStats
	selected int
	err      error
	width    int
	height   int
	ready    bool
}

// NewView creates a character picker. Without a corpus service it lists the
// known characters with no counts.
func NewView(s *styles.Styles, corpus driving.CorpusService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		corpus: corpus,
		ctx:    context.Background(),
		roster: domain.CharacterRoster(domain.KnownCharacters(), domain.CorpusStats{}),
		width:  80,
		height: 24,
	}
}

// WithContext sets the context used for corpus reads.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads corpus coverage.
func (v *View) Init() tea.Cmd {
	if v.corpus == nil {
		return nil
	}
	return v.loadStats()
}

func (v *View) loadStats() tea.Cmd {
	return func() tea.Msg {
		stats, err := v.corpus.Stats(v.ctx)
		return messages.CharactersLoaded{Stats: stats, Err: err}
	}
}

// Update handles messages for the picker.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.CharactersLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.roster = domain.CharacterRoster(v.known(), msg.Stats)
			v.selected = min(v.selected, max(len(v.roster)-1, 0))
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.roster)-1 {
				v.selected++
			}
		case "enter":
			if len(v.roster) == 0 {
				return v, nil
			}
			name := v.roster[v.selected].Character
			return v, func() tea.Msg {
				return messages.CharacterSelected{Character: name}
			}
		case "?":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewHelp}
			}
		case "q":
			return v, tea.Quit
		}
	}
	return v, nil
}

func (v *View) known() []string {
	if v.corpus == nil {
		return domain.KnownCharacters()
	}
	return v.corpus.Characters()
}

// View renders the picker.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("quotebank"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Who are you talking to?"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Could not read corpus: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	// Scroll so the selection stays visible.
	visible := max(v.height-8, 1)
	start := 0
	if v.selected >= visible {
		start = v.selected - visible + 1
	}
	end := min(start+visible, len(v.roster))

	for i := start; i < end; i++ {
		cs := v.roster[i]
		row := fmt.Sprintf("%-16s %5d lines  %5d embedded", cs.Character, cs.Lines, cs.Embedded)
		switch {
		case i == v.selected:
			b.WriteString(v.styles.Selected.Render("> " + row))
		case cs.Embedded == 0:
			b.WriteString(v.styles.Muted.Render("  " + row))
		default:
			b.WriteString(v.styles.Normal.Render("  " + row))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("[j/k] Navigate  [Enter] Select  [?] Help  [q] Quit"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the index of the highlighted character.
func (v *View) Selected() int {
	return v.selected
}

// Roster returns the characters currently listed.
func (v *View) Roster() []domain.CharacterStats {
	return v.roster
}

// Err returns the last corpus read error.
func (v *View) Err() error {
	return v.err
}
